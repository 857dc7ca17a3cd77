package application

import (
	"context"
	"time"

	"github.com/workvoice/workvoice-services/api/internal/metrics"
	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// AggregateRecalculator は企業サマリーをアクティブな口コミ全件から再計算する。
// 差分更新は行わず、毎回の全件再計算を冪等な置き換えとして書き込む。
// 同一企業の再計算はキー単位ロックで直列化する（後勝ちで問題ない）。
type AggregateRecalculator struct {
	reviews   ReviewRepository
	summaries SummaryWriter
	now       Clock
	locks     *keyedMutex
}

// NewAggregateRecalculator constructs a recalculator.
func NewAggregateRecalculator(reviews ReviewRepository, summaries SummaryWriter, now Clock) *AggregateRecalculator {
	return &AggregateRecalculator{
		reviews:   reviews,
		summaries: summaries,
		now:       now,
		locks:     newKeyedMutex(),
	}
}

// Recalculate は企業のサマリーを再計算し、保存済みサマリーを丸ごと置き換える。
func (r *AggregateRecalculator) Recalculate(ctx context.Context, companyID string) (domain.ReviewSummary, error) {
	unlock := r.locks.Lock(companyID)
	defer unlock()

	reviews, err := r.reviews.FindActiveByCompany(ctx, companyID)
	if err != nil {
		metrics.RecalculationFinished("error")
		return domain.ReviewSummary{}, persistenceError("summary source fetch", err)
	}

	summary := BuildSummary(reviews, r.now())

	if err := r.summaries.UpdateSummary(ctx, companyID, summary); err != nil {
		metrics.RecalculationFinished("error")
		return domain.ReviewSummary{}, persistenceError("summary write", err)
	}

	metrics.RecalculationFinished("ok")
	return summary, nil
}

// BuildSummary は口コミ一覧からサマリーを計算する純粋関数。
// 全体平均は丸め済みの個別平均をさらに平均して丸める。生の評点から
// 計算し直すと過去データと結果がずれるため、この二段丸めを維持する。
func BuildSummary(reviews []domain.Review, now time.Time) domain.ReviewSummary {
	if len(reviews) == 0 {
		return domain.EmptySummary(now)
	}

	overallSum := 0.0
	categorySums := make(map[domain.Category]int, len(domain.Categories()))
	categoryCounts := make(map[domain.Category]int, len(domain.Categories()))

	for _, review := range reviews {
		overallSum += review.IndividualAverage
		for _, c := range domain.Categories() {
			if v := review.Ratings.Value(c); v != nil {
				categorySums[c] += *v
				categoryCounts[c]++
			}
		}
	}

	averages := make(map[domain.Category]float64, len(domain.Categories()))
	for _, c := range domain.Categories() {
		if categoryCounts[c] == 0 {
			averages[c] = 0.0
			continue
		}
		averages[c] = domain.Round1(float64(categorySums[c]) / float64(categoryCounts[c]))
	}

	return domain.ReviewSummary{
		TotalReviews:     len(reviews),
		OverallAverage:   domain.Round1(overallSum / float64(len(reviews))),
		CategoryAverages: averages,
		LastUpdated:      now,
	}
}
