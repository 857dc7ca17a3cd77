package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	companyapp "github.com/workvoice/workvoice-services/api/internal/company/application"
	"github.com/workvoice/workvoice-services/api/internal/interfaces/http/common"
)

// companyListHandler は企業一覧 API。都道府県・業種・キーワードで絞り込める。
func (h *Handler) companyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		filter := companyapp.CompanyFilter{
			Prefecture: strings.TrimSpace(query.Get("prefecture")),
			Industry:   common.CanonicalIndustryCode(query.Get("industry")),
			Keyword:    strings.TrimSpace(query.Get("keyword")),
		}

		paging := companyapp.Paging{Sort: strings.TrimSpace(query.Get("sort"))}
		paging.Page, _ = common.ParsePositiveInt(query.Get("page"), 1)
		paging.Limit, _ = common.ParsePositiveInt(query.Get("limit"), common.DefaultPageLimit)
		if paging.Limit > common.MaxPageLimit {
			paging.Limit = common.MaxPageLimit
		}

		companies, err := h.companyQueries.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("企業一覧の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "企業一覧の取得に失敗しました"})
			return
		}

		items := make([]companyResponse, 0, len(companies))
		for _, company := range companies {
			items = append(items, buildCompanyResponse(company))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, companyListResponse{
			Items: items,
			Page:  paging.Page,
			Limit: paging.Limit,
		})
	}
}

// companyDetailHandler は企業 ID を指定して詳細情報を返す。
func (h *Handler) companyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "IDが指定されていません"})
			return
		}
		if _, err := primitive.ObjectIDFromHex(idParam); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "不正なIDです"})
			return
		}

		company, err := h.companyQueries.Detail(ctx, idParam)
		if err != nil {
			h.logger.Printf("企業詳細の取得に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "企業詳細の取得に失敗しました"})
			return
		}
		if company == nil {
			http.NotFound(w, r)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildCompanyResponse(*company))
	}
}
