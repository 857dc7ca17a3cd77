package application

import (
	"context"
	"time"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// Clock は現在時刻の供給源。テストでは固定時刻を注入する。
type Clock func() time.Time

// ReviewRepository は口コミ集約の永続化ポート。
// 該当ドキュメントが存在しない検索は (nil, nil) を返す。
type ReviewRepository interface {
	FindActiveByUserAndCompany(ctx context.Context, userID, companyID string) (*domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	FindActiveByCompany(ctx context.Context, companyID string) ([]domain.Review, error)
	FindLatestByUser(ctx context.Context, userID string) (*domain.Review, error)
	Insert(ctx context.Context, review *domain.Review) (string, error)
	Update(ctx context.Context, review *domain.Review) error
	Deactivate(ctx context.Context, id string) error
}

// HistoryRepository は監査履歴の追記専用ポート。
type HistoryRepository interface {
	Insert(ctx context.Context, history *domain.ReviewHistory) (string, error)
	FindByReviewID(ctx context.Context, reviewID string) ([]domain.ReviewHistory, error)
}

// SummaryWriter は企業サマリーの置き換え書き込みポート。
type SummaryWriter interface {
	UpdateSummary(ctx context.Context, companyID string, summary domain.ReviewSummary) error
}
