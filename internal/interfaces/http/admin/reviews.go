package admin

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

type historyEntryResponse struct {
	ID        string   `json:"id"`
	ReviewID  string   `json:"reviewId"`
	UserID    string   `json:"userId"`
	CompanyID string   `json:"companyId"`
	Action    string   `json:"action"`
	Timestamp string   `json:"timestamp"`
	Previous  *preview `json:"previous,omitempty"`
}

// preview は履歴スナップショットの要点。全文は返さず監査に必要な範囲に絞る。
type preview struct {
	IndividualAverage float64 `json:"individualAverage"`
	AnsweredCount     int     `json:"answeredCount"`
	UpdatedAt         string  `json:"updatedAt"`
}

// reviewHistoryHandler は口コミ 1 件の監査履歴を時系列で返す。
func (h *Handler) reviewHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(idParam); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "不正なIDです"})
			return
		}

		histories, err := h.histories.FindByReviewID(ctx, idParam)
		if err != nil {
			h.logger.Printf("履歴の取得に失敗: review=%s err=%v", idParam, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "履歴の取得に失敗しました"})
			return
		}

		entries := make([]historyEntryResponse, 0, len(histories))
		for _, history := range histories {
			entries = append(entries, buildHistoryEntry(history))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": entries})
	}
}

// recalculateHandler はサマリーの手動再計算を行う運用エンドポイント。
// 自動再計算が失敗して古くなったサマリーの修復に使う。
func (h *Handler) recalculateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(idParam); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "不正なIDです"})
			return
		}

		summary, err := h.recalculator.Recalculate(ctx, idParam)
		if err != nil {
			h.logger.Printf("手動再集計に失敗: company=%s err=%v", idParam, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "再集計に失敗しました"})
			return
		}

		averages := make(map[string]float64, len(summary.CategoryAverages))
		for c, v := range summary.CategoryAverages {
			averages[string(c)] = v
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status":           "ok",
			"totalReviews":     summary.TotalReviews,
			"overallAverage":   summary.OverallAverage,
			"categoryAverages": averages,
		})
	}
}

func buildHistoryEntry(history domain.ReviewHistory) historyEntryResponse {
	entry := historyEntryResponse{
		ID:        history.ID,
		ReviewID:  history.ReviewID,
		UserID:    history.UserID,
		CompanyID: history.CompanyID,
		Action:    history.Action,
		Timestamp: history.Timestamp.Format(time.RFC3339),
	}
	if history.PreviousData != nil {
		entry.Previous = &preview{
			IndividualAverage: history.PreviousData.IndividualAverage,
			AnsweredCount:     history.PreviousData.AnsweredCount,
			UpdatedAt:         history.PreviousData.UpdatedAt.Format(time.RFC3339),
		}
	}
	return entry
}
