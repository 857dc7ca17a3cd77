package public

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	companyapp "github.com/workvoice/workvoice-services/api/internal/company/application"
	reviewapp "github.com/workvoice/workvoice-services/api/internal/review/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger         *log.Logger
	companyQueries companyapp.CompanyQueryService
	reviews        reviewapp.ReviewRepository
	reviewService  *reviewapp.ReviewService
	permissions    *reviewapp.PermissionValidator
	access         *reviewapp.AccessResolver
	salt           string
	now            func() time.Time
	submitLimiter  *submitLimiter
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger                *log.Logger
	CompanyQueries        companyapp.CompanyQueryService
	Reviews               reviewapp.ReviewRepository
	ReviewService         *reviewapp.ReviewService
	Permissions           *reviewapp.PermissionValidator
	Access                *reviewapp.AccessResolver
	AnonymizationSalt     string
	Now                   func() time.Time
	ReviewSubmitPerMinute int
	ReviewSubmitBurst     int
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		logger:         cfg.Logger,
		companyQueries: cfg.CompanyQueries,
		reviews:        cfg.Reviews,
		reviewService:  cfg.ReviewService,
		permissions:    cfg.Permissions,
		access:         cfg.Access,
		salt:           cfg.AnonymizationSalt,
		now:            now,
		submitLimiter:  newSubmitLimiter(cfg.ReviewSubmitPerMinute, cfg.ReviewSubmitBurst),
	}
}

// Register mounts all public routes onto the router.
// 読み取り系は optionalAuth（未認証は PREVIEW 扱い）、書き込み系は必須認証。
func (h *Handler) Register(r chi.Router, authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) {
	r.Get("/companies", h.companyListHandler())
	r.Get("/companies/{id}", h.companyDetailHandler())
	r.With(optionalAuthMiddleware).Get("/companies/{id}/reviews", h.companyReviewsHandler())
	r.With(optionalAuthMiddleware).Get("/reviews/{id}", h.reviewDetailHandler())
	r.With(authMiddleware).Get("/reviews/permission", h.reviewPermissionHandler())
	r.With(authMiddleware).Post("/reviews", h.rateLimitSubmit(h.reviewCreateHandler()))
	r.With(authMiddleware).Patch("/reviews/{id}", h.reviewUpdateHandler())
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())
}
