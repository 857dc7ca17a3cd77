package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	companydomain "github.com/workvoice/workvoice-services/api/internal/company/domain"
	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// ReviewDocument は MongoDB 上での口コミスキーマを Go 構造体として表現したもの。
// UserID は認証基盤が払い出す subject 文字列をそのまま保持する。
type ReviewDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	CompanyID           primitive.ObjectID `bson:"companyId"`
	UserID              string             `bson:"userId"`
	EmploymentStatus    string             `bson:"employmentStatus"`
	EmploymentStartYear *int               `bson:"employmentStartYear,omitempty"`
	EmploymentEndYear   *int               `bson:"employmentEndYear,omitempty"`
	Ratings             domain.RatingSet   `bson:"ratings"`
	Comments            domain.CommentSet  `bson:"comments"`
	CommentsEN          *domain.CommentSet `bson:"commentsEn,omitempty"`
	CommentsJA          *domain.CommentSet `bson:"commentsJa,omitempty"`
	CommentsZH          *domain.CommentSet `bson:"commentsZh,omitempty"`
	Language            string             `bson:"language"`
	IndividualAverage   float64            `bson:"individualAverage"`
	AnsweredCount       int                `bson:"answeredCount"`
	IsActive            bool               `bson:"isActive"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

// ReviewHistoryDocument は監査履歴 1 件分のスキーマ。追記専用で更新しない。
type ReviewHistoryDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	ReviewID     primitive.ObjectID `bson:"reviewId"`
	UserID       string             `bson:"userId"`
	CompanyID    primitive.ObjectID `bson:"companyId"`
	Action       string             `bson:"action"`
	PreviousData *ReviewDocument    `bson:"previousData,omitempty"`
	Timestamp    time.Time          `bson:"timestamp"`
}

// ReviewSummaryDocument は Company ドキュメントへ埋め込む集計スキーマ。
type ReviewSummaryDocument struct {
	TotalReviews     int                `bson:"totalReviews"`
	OverallAverage   float64            `bson:"overallAverage"`
	CategoryAverages map[string]float64 `bson:"categoryAverages"`
	LastUpdated      time.Time          `bson:"lastUpdated"`
}

// CompanyDocument は MongoDB 上での企業スキーマ。
type CompanyDocument struct {
	ID          primitive.ObjectID    `bson:"_id"`
	Name        string                `bson:"name"`
	NameKana    string                `bson:"nameKana,omitempty"`
	Industry    string                `bson:"industry,omitempty"`
	Prefecture  string                `bson:"prefecture,omitempty"`
	WebsiteURL  string                `bson:"websiteURL,omitempty"`
	Description string                `bson:"description,omitempty"`
	Summary     ReviewSummaryDocument `bson:"reviewSummary"`
	CreatedAt   *time.Time            `bson:"createdAt,omitempty"`
	UpdatedAt   *time.Time            `bson:"updatedAt,omitempty"`
}

// mapReviewDocument はドキュメントをドメイン Review へ復元する。
func mapReviewDocument(doc ReviewDocument) domain.Review {
	review := domain.Review{
		ID:                doc.ID.Hex(),
		CompanyID:         doc.CompanyID.Hex(),
		UserID:            doc.UserID,
		EmploymentStatus:  doc.EmploymentStatus,
		Ratings:           doc.Ratings,
		Comments:          doc.Comments,
		CommentsEN:        doc.CommentsEN,
		CommentsJA:        doc.CommentsJA,
		CommentsZH:        doc.CommentsZH,
		Language:          doc.Language,
		IndividualAverage: doc.IndividualAverage,
		AnsweredCount:     doc.AnsweredCount,
		IsActive:          doc.IsActive,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	if doc.EmploymentStartYear != nil {
		review.EmploymentPeriod = &domain.EmploymentPeriod{
			StartYear: *doc.EmploymentStartYear,
			EndYear:   doc.EmploymentEndYear,
		}
	}
	return review
}

// mapReviewToDocument はドメイン Review をドキュメントへ変換する。
// ObjectID ふたつは呼び出し側が Hex 検証済みのものを渡す。
func mapReviewToDocument(review domain.Review, id, companyID primitive.ObjectID) ReviewDocument {
	doc := ReviewDocument{
		ID:                id,
		CompanyID:         companyID,
		UserID:            review.UserID,
		EmploymentStatus:  review.EmploymentStatus,
		Ratings:           review.Ratings,
		Comments:          review.Comments,
		CommentsEN:        review.CommentsEN,
		CommentsJA:        review.CommentsJA,
		CommentsZH:        review.CommentsZH,
		Language:          review.Language,
		IndividualAverage: review.IndividualAverage,
		AnsweredCount:     review.AnsweredCount,
		IsActive:          review.IsActive,
		CreatedAt:         review.CreatedAt,
		UpdatedAt:         review.UpdatedAt,
	}
	if review.EmploymentPeriod != nil {
		start := review.EmploymentPeriod.StartYear
		doc.EmploymentStartYear = &start
		doc.EmploymentEndYear = review.EmploymentPeriod.EndYear
	}
	return doc
}

// mapSummaryDocument はサマリードキュメントをドメインへ復元する。
// 欠けているカテゴリは 0.0 で補う。
func mapSummaryDocument(doc ReviewSummaryDocument) domain.ReviewSummary {
	averages := make(map[domain.Category]float64, len(domain.Categories()))
	for _, c := range domain.Categories() {
		averages[c] = doc.CategoryAverages[string(c)]
	}
	return domain.ReviewSummary{
		TotalReviews:     doc.TotalReviews,
		OverallAverage:   doc.OverallAverage,
		CategoryAverages: averages,
		LastUpdated:      doc.LastUpdated,
	}
}

// mapSummaryToDocument はドメインサマリーをドキュメントへ変換する。
func mapSummaryToDocument(summary domain.ReviewSummary) ReviewSummaryDocument {
	averages := make(map[string]float64, len(summary.CategoryAverages))
	for c, v := range summary.CategoryAverages {
		averages[string(c)] = v
	}
	return ReviewSummaryDocument{
		TotalReviews:     summary.TotalReviews,
		OverallAverage:   summary.OverallAverage,
		CategoryAverages: averages,
		LastUpdated:      summary.LastUpdated,
	}
}

// mapCompanyDocument はドキュメントをドメイン Company へ復元する。
func mapCompanyDocument(doc CompanyDocument) companydomain.Company {
	company := companydomain.Company{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		NameKana:    doc.NameKana,
		Industry:    doc.Industry,
		Prefecture:  doc.Prefecture,
		WebsiteURL:  doc.WebsiteURL,
		Description: doc.Description,
		Summary:     mapSummaryDocument(doc.Summary),
	}
	if doc.CreatedAt != nil {
		company.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		company.UpdatedAt = *doc.UpdatedAt
	}
	return company
}
