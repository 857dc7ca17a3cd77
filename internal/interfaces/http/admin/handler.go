package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	reviewapp "github.com/workvoice/workvoice-services/api/internal/review/application"
)

// Handler wires admin HTTP endpoints to application services.
// 運用者向けの狭い面だけを持つ。履歴の参照と、サマリーが古くなった
// 企業に対する手動再集計。
type Handler struct {
	logger       *log.Logger
	histories    reviewapp.HistoryRepository
	recalculator *reviewapp.AggregateRecalculator
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger       *log.Logger
	Histories    reviewapp.HistoryRepository
	Recalculator *reviewapp.AggregateRecalculator
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:       cfg.Logger,
		histories:    cfg.Histories,
		recalculator: cfg.Recalculator,
	}
}

// Register mounts all admin routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reviews/{id}/history", h.reviewHistoryHandler())
	r.Post("/companies/{id}/recalculate", h.recalculateHandler())
}
