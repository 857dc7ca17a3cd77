package mongo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// HistoryRepository は監査履歴を MongoDB で扱う実装リポジトリ。
// 追記と参照のみで、更新・削除の操作は持たない。
type HistoryRepository struct {
	histories *mongo.Collection
}

// NewHistoryRepository は履歴コレクションを束縛したリポジトリを構築する。
func NewHistoryRepository(db *mongo.Database, historyCollection string) *HistoryRepository {
	return &HistoryRepository{histories: db.Collection(historyCollection)}
}

// Insert は履歴を 1 件追記し、採番した ID の Hex を返す。
func (r *HistoryRepository) Insert(ctx context.Context, history *domain.ReviewHistory) (string, error) {
	reviewObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(history.ReviewID))
	if err != nil {
		return "", err
	}
	companyObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(history.CompanyID))
	if err != nil {
		return "", err
	}

	doc := ReviewHistoryDocument{
		ID:        primitive.NewObjectID(),
		ReviewID:  reviewObjID,
		UserID:    history.UserID,
		CompanyID: companyObjID,
		Action:    history.Action,
		Timestamp: history.Timestamp,
	}
	if history.PreviousData != nil {
		prevDoc := mapReviewToDocument(*history.PreviousData, reviewObjID, companyObjID)
		doc.PreviousData = &prevDoc
	}

	if _, err := r.histories.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}

// FindByReviewID は口コミ 1 件の履歴を時系列順で返す。
func (r *HistoryRepository) FindByReviewID(ctx context.Context, reviewID string) ([]domain.ReviewHistory, error) {
	reviewObjID, err := primitive.ObjectIDFromHex(strings.TrimSpace(reviewID))
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.histories.Find(ctx, bson.M{"reviewId": reviewObjID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	histories := make([]domain.ReviewHistory, 0)
	for cursor.Next(ctx) {
		var doc ReviewHistoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		histories = append(histories, mapHistoryDocument(doc))
	}
	return histories, cursor.Err()
}

func mapHistoryDocument(doc ReviewHistoryDocument) domain.ReviewHistory {
	history := domain.ReviewHistory{
		ID:        doc.ID.Hex(),
		ReviewID:  doc.ReviewID.Hex(),
		UserID:    doc.UserID,
		CompanyID: doc.CompanyID.Hex(),
		Action:    doc.Action,
		Timestamp: doc.Timestamp,
	}
	if doc.PreviousData != nil {
		previous := mapReviewDocument(*doc.PreviousData)
		history.PreviousData = &previous
	}
	return history
}
