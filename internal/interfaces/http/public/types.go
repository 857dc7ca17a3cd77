package public

import (
	"errors"
	"log"
	"net/http"
	"time"

	companydomain "github.com/workvoice/workvoice-services/api/internal/company/domain"
	"github.com/workvoice/workvoice-services/api/internal/interfaces/http/common"
	reviewapp "github.com/workvoice/workvoice-services/api/internal/review/application"
	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

type employmentPeriodPayload struct {
	StartYear int  `json:"startYear"`
	EndYear   *int `json:"endYear"`
}

type reviewPayload struct {
	EmploymentStatus string                   `json:"employmentStatus"`
	EmploymentPeriod *employmentPeriodPayload `json:"employmentPeriod"`
	Ratings          map[string]*int          `json:"ratings"`
	Comments         map[string]*string       `json:"comments"`
	CommentsEN       map[string]*string       `json:"comments_en"`
	CommentsJA       map[string]*string       `json:"comments_ja"`
	CommentsZH       map[string]*string       `json:"comments_zh"`
	Language         string                   `json:"language"`
}

type createReviewRequest struct {
	CompanyID string `json:"companyId"`
	reviewPayload
}

type createReviewResponse struct {
	Status            string  `json:"status"`
	ReviewID          string  `json:"reviewId"`
	IndividualAverage float64 `json:"individualAverage"`
}

type updateReviewResponse struct {
	Status            string  `json:"status"`
	CompanyID         string  `json:"companyId"`
	IndividualAverage float64 `json:"individualAverage"`
}

type permissionResponse struct {
	CanCreate        bool   `json:"canCreate"`
	CanUpdate        bool   `json:"canUpdate"`
	ExistingReviewID string `json:"existingReviewId,omitempty"`
	DaysUntilNext    int    `json:"daysUntilNext"`
}

type reviewListResponse struct {
	Items       []domain.ProjectedReview `json:"items"`
	AccessLevel string                   `json:"accessLevel"`
	Total       int                      `json:"total"`
}

// crawlerResponse はクローラー向けの最小レスポンス。口コミ本文は含めない。
type crawlerResponse struct {
	CompanyID    string `json:"companyId"`
	CompanyName  string `json:"companyName"`
	TotalReviews int    `json:"totalReviews"`
}

type summaryResponse struct {
	TotalReviews     int                `json:"totalReviews"`
	OverallAverage   float64            `json:"overallAverage"`
	CategoryAverages map[string]float64 `json:"categoryAverages"`
	LastUpdated      string             `json:"lastUpdated,omitempty"`
}

type companyResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	NameKana    string          `json:"nameKana,omitempty"`
	Industry    string          `json:"industry,omitempty"`
	Prefecture  string          `json:"prefecture,omitempty"`
	WebsiteURL  string          `json:"websiteUrl,omitempty"`
	Description string          `json:"description,omitempty"`
	Summary     summaryResponse `json:"reviewSummary"`
}

type companyListResponse struct {
	Items []companyResponse `json:"items"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// toPayloadInput は HTTP ペイロードをアプリケーション入力へ変換する。
func (p reviewPayload) toInput() reviewapp.ReviewInput {
	input := reviewapp.ReviewInput{
		EmploymentStatus: p.EmploymentStatus,
		Ratings:          p.Ratings,
		Comments:         p.Comments,
		CommentsEN:       p.CommentsEN,
		CommentsJA:       p.CommentsJA,
		CommentsZH:       p.CommentsZH,
		Language:         p.Language,
	}
	if p.Ratings == nil {
		input.Ratings = map[string]*int{}
	}
	if p.Comments == nil {
		input.Comments = map[string]*string{}
	}
	if p.EmploymentPeriod != nil {
		input.EmploymentPeriod = &domain.EmploymentPeriod{
			StartYear: p.EmploymentPeriod.StartYear,
			EndYear:   p.EmploymentPeriod.EndYear,
		}
	}
	return input
}

func buildSummaryResponse(summary domain.ReviewSummary) summaryResponse {
	averages := make(map[string]float64, len(summary.CategoryAverages))
	for c, v := range summary.CategoryAverages {
		averages[string(c)] = v
	}
	resp := summaryResponse{
		TotalReviews:     summary.TotalReviews,
		OverallAverage:   summary.OverallAverage,
		CategoryAverages: averages,
	}
	if !summary.LastUpdated.IsZero() {
		resp.LastUpdated = summary.LastUpdated.Format(time.RFC3339)
	}
	return resp
}

func buildCompanyResponse(company companydomain.Company) companyResponse {
	return companyResponse{
		ID:          company.ID,
		Name:        company.Name,
		NameKana:    company.NameKana,
		Industry:    company.Industry,
		Prefecture:  company.Prefecture,
		WebsiteURL:  company.WebsiteURL,
		Description: company.Description,
		Summary:     buildSummaryResponse(company.Summary),
	}
}

// writeServiceError はアプリケーション層のエラー種別を HTTP ステータスと
// 利用者向けメッセージへ写像する。永続化エラーの内部詳細は返さない。
func writeServiceError(logger *log.Logger, w http.ResponseWriter, err error) {
	var validationErr *reviewapp.ValidationError
	if errors.As(err, &validationErr) {
		common.WriteJSON(logger, w, http.StatusBadRequest, map[string]any{
			"error":  "入力内容に誤りがあります",
			"fields": validationErr.Fields,
		})
		return
	}

	var duplicateErr *reviewapp.DuplicateReviewError
	if errors.As(err, &duplicateErr) {
		common.WriteJSON(logger, w, http.StatusConflict, map[string]any{
			"error":            "この企業への口コミは1年に1件までです",
			"existingReviewId": duplicateErr.ExistingReviewID,
			"daysUntilNext":    duplicateErr.DaysUntilNext,
		})
		return
	}

	switch {
	case errors.Is(err, reviewapp.ErrNotFound):
		common.WriteJSON(logger, w, http.StatusNotFound, map[string]string{"error": "口コミが見つかりません"})
	case errors.Is(err, reviewapp.ErrPermissionDenied):
		common.WriteJSON(logger, w, http.StatusForbidden, map[string]string{"error": "この操作を行う権限がありません"})
	default:
		logger.Printf("口コミ操作に失敗: %v", err)
		common.WriteJSON(logger, w, http.StatusInternalServerError, map[string]string{"error": "処理に失敗しました。時間をおいて再度お試しください"})
	}
}
