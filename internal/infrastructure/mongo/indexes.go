package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes は起動時に必要なインデックスを作成する。
// (userId, companyId) のユニーク部分インデックスが「1 ユーザー 1 企業 1 件」
// ルールの最終的な防衛線で、アプリ側の事前チェックは UX 向けの最適化に過ぎない。
func EnsureIndexes(ctx context.Context, db *mongo.Database, reviewCollection, historyCollection string) error {
	reviewIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "companyId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{
			Keys: bson.D{{Key: "companyId", Value: 1}, {Key: "isActive", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	if _, err := db.Collection(reviewCollection).Indexes().CreateMany(ctx, reviewIndexes); err != nil {
		return err
	}

	historyIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "reviewId", Value: 1}, {Key: "timestamp", Value: 1}},
		},
	}
	if _, err := db.Collection(historyCollection).Indexes().CreateMany(ctx, historyIndexes); err != nil {
		return err
	}
	return nil
}
