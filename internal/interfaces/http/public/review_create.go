package public

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/workvoice/workvoice-services/api/internal/interfaces/http/common"
	reviewapp "github.com/workvoice/workvoice-services/api/internal/review/application"
)

// reviewCreateHandler は新規口コミの投稿 API。
// 入力検証・投稿可否・サニタイズ・集計・履歴はすべて ReviewService 側で行い、
// ここでは JSON の受け渡しとエラー種別の HTTP 変換だけを担う。
func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報を取得できませんでした"})
			return
		}

		defer r.Body.Close()

		var req createReviewRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxReviewRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("リクエストの形式が不正です: %v", err),
			})
			return
		}

		companyID := strings.TrimSpace(req.CompanyID)
		if _, err := primitive.ObjectIDFromHex(companyID); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "企業IDの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := h.reviewService.Create(ctx, reviewapp.CreateReviewInput{
			UserID:      user.ID,
			CompanyID:   companyID,
			ReviewInput: req.toInput(),
		})
		if err != nil {
			writeServiceError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, createReviewResponse{
			Status:            "ok",
			ReviewID:          result.ReviewID,
			IndividualAverage: result.IndividualAverage,
		})
	}
}

// reviewUpdateHandler は既存口コミの更新 API。
// 所有者・365 日・アクティブの編集権限をここで先に判定し、
// 満たさない場合は一律で拒否する（判定中のエラーも拒否側に倒す）。
func (h *Handler) reviewUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報を取得できませんでした"})
			return
		}

		reviewID := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(reviewID); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "不正なIDです"})
			return
		}

		defer r.Body.Close()

		var req reviewPayload
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxReviewRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("リクエストの形式が不正です: %v", err),
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		existing, err := h.reviews.FindByID(ctx, reviewID)
		if err != nil {
			h.logger.Printf("編集権限の確認に失敗 (拒否に倒します): review=%s err=%v", reviewID, err)
			writeServiceError(h.logger, w, reviewapp.ErrPermissionDenied)
			return
		}
		if existing == nil || !existing.IsActive {
			writeServiceError(h.logger, w, reviewapp.ErrNotFound)
			return
		}
		if !reviewapp.CanEdit(existing, user.ID, h.now()) {
			writeServiceError(h.logger, w, reviewapp.ErrPermissionDenied)
			return
		}

		result, err := h.reviewService.Update(ctx, reviewID, req.toInput())
		if err != nil {
			writeServiceError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, updateReviewResponse{
			Status:            "ok",
			CompanyID:         result.CompanyID,
			IndividualAverage: result.IndividualAverage,
		})
	}
}
