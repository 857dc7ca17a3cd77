package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	companyapp "github.com/workvoice/workvoice-services/api/internal/company/application"
	companydomain "github.com/workvoice/workvoice-services/api/internal/company/domain"
	reviewdomain "github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// CompanyRepository は企業集約を MongoDB で扱う実装リポジトリ。
// 参照ポート（companyapp.CompanyRepository）とサマリー書き込みポート
// （reviewapp.SummaryWriter）の両方を満たす。
type CompanyRepository struct {
	companies *mongo.Collection
}

// NewCompanyRepository は企業コレクションを束縛したリポジトリを構築する。
func NewCompanyRepository(db *mongo.Database, companyCollection string) *CompanyRepository {
	return &CompanyRepository{companies: db.Collection(companyCollection)}
}

// Find は都道府県・業種・キーワードの複合条件を Mongo クエリへ落とし込む。
func (r *CompanyRepository) Find(ctx context.Context, filter companyapp.CompanyFilter, paging companyapp.Paging) ([]companydomain.Company, error) {
	mongoFilter := bson.M{}

	if filter.Prefecture != "" {
		mongoFilter["prefecture"] = strings.TrimSpace(filter.Prefecture)
	}
	if filter.Industry != "" {
		mongoFilter["industry"] = strings.TrimSpace(filter.Industry)
	}
	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"nameKana": pattern},
			bson.M{"description": pattern},
		}
	}

	opts := options.Find()
	switch paging.Sort {
	case "reviews":
		opts.SetSort(bson.D{{Key: "reviewSummary.totalReviews", Value: -1}})
	case "rating":
		opts.SetSort(bson.D{{Key: "reviewSummary.overallAverage", Value: -1}})
	default:
		opts.SetSort(bson.D{{Key: "name", Value: 1}})
	}
	if paging.Limit > 0 {
		opts.SetLimit(int64(paging.Limit))
		if paging.Page > 1 {
			opts.SetSkip(int64((paging.Page - 1) * paging.Limit))
		}
	}

	cursor, err := r.companies.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	companies := make([]companydomain.Company, 0)
	for cursor.Next(ctx) {
		var doc CompanyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		companies = append(companies, mapCompanyDocument(doc))
	}
	return companies, cursor.Err()
}

// FindByID は企業 ID から 1 件取得する。存在しなければ (nil, nil)。
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*companydomain.Company, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	var doc CompanyDocument
	if err := r.companies.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	company := mapCompanyDocument(doc)
	return &company, nil
}

// UpdateSummary は企業の埋め込みサマリーを再計算結果で丸ごと置き換える。
func (r *CompanyRepository) UpdateSummary(ctx context.Context, companyID string, summary reviewdomain.ReviewSummary) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(companyID))
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"reviewSummary": mapSummaryToDocument(summary),
		"updatedAt":     time.Now().UTC(),
	}}
	result, err := r.companies.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
