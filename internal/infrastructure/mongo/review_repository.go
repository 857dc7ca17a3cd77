package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workvoice/workvoice-services/api/internal/review/application"
	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// ReviewRepository は口コミ集約を MongoDB で扱う実装リポジトリ。
// application.ReviewRepository を満たす。
type ReviewRepository struct {
	reviews *mongo.Collection
}

// NewReviewRepository は口コミコレクションを束縛したリポジトリを構築する。
func NewReviewRepository(db *mongo.Database, reviewCollection string) *ReviewRepository {
	return &ReviewRepository{reviews: db.Collection(reviewCollection)}
}

// FindActiveByUserAndCompany は (user, company) のアクティブな口コミを 1 件返す。
// 存在しなければ (nil, nil)。
func (r *ReviewRepository) FindActiveByUserAndCompany(ctx context.Context, userID, companyID string) (*domain.Review, error) {
	companyObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(companyID))
	if err != nil {
		return nil, err
	}

	var doc ReviewDocument
	filter := bson.M{"userId": userID, "companyId": companyObjID, "isActive": true}
	if err := r.reviews.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	review := mapReviewDocument(doc)
	return &review, nil
}

// FindByID は口コミ ID から 1 件取得する。存在しなければ (nil, nil)。
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	var doc ReviewDocument
	if err := r.reviews.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	review := mapReviewDocument(doc)
	return &review, nil
}

// FindActiveByCompany は企業のアクティブな口コミ全件を返す。再集計の入力。
func (r *ReviewRepository) FindActiveByCompany(ctx context.Context, companyID string) ([]domain.Review, error) {
	companyObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(companyID))
	if err != nil {
		return nil, err
	}

	cursor, err := r.reviews.Find(ctx, bson.M{"companyId": companyObjID, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	return reviews, cursor.Err()
}

// FindLatestByUser はユーザーの最新のアクティブな口コミを返す。
// 閲覧権限判定（直近投稿の有無）で使う。存在しなければ (nil, nil)。
func (r *ReviewRepository) FindLatestByUser(ctx context.Context, userID string) (*domain.Review, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var doc ReviewDocument
	err := r.reviews.FindOne(ctx, bson.M{"userId": userID, "isActive": true}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	review := mapReviewDocument(doc)
	return &review, nil
}

// Insert は口コミを追加し、採番した ID の Hex を返す。
// 同一 (user, company) のアクティブ口コミはユニーク部分インデックスが弾き、
// その場合は application.ErrActiveReviewExists へ読み替えて返す。
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) (string, error) {
	companyObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(review.CompanyID))
	if err != nil {
		return "", err
	}

	doc := mapReviewToDocument(*review, primitive.NewObjectID(), companyObjID)
	if _, err := r.reviews.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", application.ErrActiveReviewExists
		}
		return "", err
	}
	return doc.ID.Hex(), nil
}

// Deactivate は口コミを非アクティブ化する。ドキュメント自体は監査用に残す。
func (r *ReviewRepository) Deactivate(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}
	result, err := r.reviews.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Update は口コミドキュメントを全フィールド置き換えで更新する。
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(review.ID))
	if err != nil {
		return err
	}
	companyObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(review.CompanyID))
	if err != nil {
		return err
	}

	doc := mapReviewToDocument(*review, objectID, companyObjID)
	result, err := r.reviews.ReplaceOne(ctx, bson.M{"_id": objectID}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
