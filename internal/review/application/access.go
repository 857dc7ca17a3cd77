package application

import (
	"context"
	"log"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// AccessResolver は閲覧リクエストごとに閲覧権限を判定する。
// 判定結果は保存せず、リクエストのたびに計算し直す。
type AccessResolver struct {
	reviews         ReviewRepository
	now             Clock
	logger          *log.Logger
	crawlerPatterns []string
}

// NewAccessResolver constructs a resolver.
func NewAccessResolver(reviews ReviewRepository, now Clock, logger *log.Logger, crawlerPatterns []string) *AccessResolver {
	return &AccessResolver{
		reviews:         reviews,
		now:             now,
		logger:          logger,
		crawlerPatterns: crawlerPatterns,
	}
}

// Resolve は閲覧権限を返す。userID が空なら未認証として扱う。
// 投稿履歴の参照に失敗した場合は閉じる側（DENIED）へ倒す。
func (r *AccessResolver) Resolve(ctx context.Context, userID, userAgent string) domain.AccessLevel {
	signals := domain.AccessSignals{
		IsAuthenticated:    userID != "",
		IsKnownCrawlerUser: domain.IsKnownCrawler(userAgent, r.crawlerPatterns),
	}

	if signals.IsAuthenticated && !signals.IsKnownCrawlerUser {
		hasRecent, err := r.hasRecentPost(ctx, userID)
		if err != nil {
			r.logger.Printf("投稿履歴の確認に失敗 (閲覧拒否に倒します): user=%s err=%v", userID, err)
			return domain.AccessDenied
		}
		signals.HasRecentPost = hasRecent
	}

	return domain.ResolveAccessLevel(signals)
}

func (r *AccessResolver) hasRecentPost(ctx context.Context, userID string) (bool, error) {
	latest, err := r.reviews.FindLatestByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return false, nil
	}
	return r.now().Sub(latest.CreatedAt) <= SubmissionWindow, nil
}
