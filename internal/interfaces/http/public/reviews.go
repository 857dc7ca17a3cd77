package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/workvoice/workvoice-services/api/internal/interfaces/http/common"
	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// companyReviewsHandler は企業の口コミ一覧 API。
// リクエストごとに閲覧権限を判定し、権限に応じた投影だけを返す。
// DENIED では口コミ本文のフェッチ自体を行わない。
func (h *Handler) companyReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		companyID := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(companyID); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "不正なIDです"})
			return
		}

		level := h.resolveAccess(ctx, r)
		switch level {
		case domain.AccessDenied:
			common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{
				"error": "口コミの閲覧には口コミの投稿が必要です",
			})
			return
		case domain.AccessCrawler:
			h.writeCrawlerCompany(ctx, w, r, companyID)
			return
		}

		reviews, err := h.reviews.FindActiveByCompany(ctx, companyID)
		if err != nil {
			h.logger.Printf("口コミ一覧の取得に失敗: company=%s err=%v", companyID, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "口コミの取得に失敗しました"})
			return
		}

		previewMode := level == domain.AccessPreview
		items := make([]domain.ProjectedReview, 0, len(reviews))
		for _, review := range reviews {
			items = append(items, domain.Anonymize(review, h.salt, previewMode))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, reviewListResponse{
			Items:       items,
			AccessLevel: string(level),
			Total:       len(items),
		})
	}
}

// reviewDetailHandler は口コミ 1 件の詳細 API。閲覧権限の扱いは一覧と同じ。
func (h *Handler) reviewDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(idParam); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "不正なIDです"})
			return
		}

		level := h.resolveAccess(ctx, r)
		if level == domain.AccessDenied {
			common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{
				"error": "口コミの閲覧には口コミの投稿が必要です",
			})
			return
		}

		review, err := h.reviews.FindByID(ctx, idParam)
		if err != nil {
			h.logger.Printf("口コミ詳細の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "口コミ詳細の取得に失敗しました"})
			return
		}
		if review == nil || !review.IsActive {
			http.NotFound(w, r)
			return
		}

		if level == domain.AccessCrawler {
			h.writeCrawlerCompany(ctx, w, r, review.CompanyID)
			return
		}

		projected := domain.Anonymize(*review, h.salt, level == domain.AccessPreview)
		common.WriteJSON(h.logger, w, http.StatusOK, projected)
	}
}

// reviewPermissionHandler は投稿可否の判定結果を返す。
// フロントはこの結果で新規投稿フォームか編集導線かを出し分ける。
func (h *Handler) reviewPermissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報を取得できませんでした"})
			return
		}

		companyID := strings.TrimSpace(r.URL.Query().Get("companyId"))
		if _, err := primitive.ObjectIDFromHex(companyID); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "企業IDの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		decision, err := h.permissions.Validate(ctx, user.ID, companyID)
		if err != nil {
			writeServiceError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, permissionResponse{
			CanCreate:        decision.CanCreate,
			CanUpdate:        decision.CanUpdate,
			ExistingReviewID: decision.ExistingReviewID,
			DaysUntilNext:    decision.DaysUntilNext,
		})
	}
}

// authVerifyHandler は認証の疎通確認と閲覧権限の事前取得を兼ねる。
func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報を取得できませんでした"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		level := h.access.Resolve(ctx, user.ID, r.UserAgent())
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status":      "ok",
			"user":        user,
			"accessLevel": string(level),
		})
	}
}

// resolveAccess は認証コンテキストと User-Agent から閲覧権限を判定する。
func (h *Handler) resolveAccess(ctx context.Context, r *http.Request) domain.AccessLevel {
	userID := ""
	if user, ok := common.UserFromContext(r.Context()); ok {
		userID = user.ID
	}
	return h.access.Resolve(ctx, userID, r.UserAgent())
}

// writeCrawlerCompany はクローラー向けに企業名と件数だけを返す。
// 匿名化トランスフォーマーは通さない。
func (h *Handler) writeCrawlerCompany(ctx context.Context, w http.ResponseWriter, r *http.Request, companyID string) {
	company, err := h.companyQueries.Detail(ctx, companyID)
	if err != nil {
		h.logger.Printf("クローラー向け企業取得に失敗: %v", err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "企業情報の取得に失敗しました"})
		return
	}
	if company == nil {
		http.NotFound(w, r)
		return
	}
	common.WriteJSON(h.logger, w, http.StatusOK, crawlerResponse{
		CompanyID:    company.ID,
		CompanyName:  company.Name,
		TotalReviews: company.Summary.TotalReviews,
	})
}
