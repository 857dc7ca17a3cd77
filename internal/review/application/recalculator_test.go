package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

func TestBuildSummary_Empty(t *testing.T) {
	summary := BuildSummary(nil, fixedNow)

	assert.Zero(t, summary.TotalReviews)
	assert.Zero(t, summary.OverallAverage)
	assert.Equal(t, fixedNow, summary.LastUpdated)
	for _, c := range domain.Categories() {
		assert.Zero(t, summary.CategoryAverages[c])
	}
}

func TestBuildSummary_AveragesRoundedAverages(t *testing.T) {
	// 全体平均は丸め済みの個別平均の平均: (3.0+4.0)/2 = 3.5
	reviews := []domain.Review{
		{
			IndividualAverage: 3.0,
			Ratings:           domain.RatingSet{Recommendation: intPtr(3), ForeignSupport: intPtr(3)},
		},
		{
			IndividualAverage: 4.0,
			Ratings:           domain.RatingSet{Recommendation: intPtr(4)},
		},
	}

	summary := BuildSummary(reviews, fixedNow)

	assert.Equal(t, 2, summary.TotalReviews)
	assert.InDelta(t, 3.5, summary.OverallAverage, 1e-9)
	// recommendation: (3+4)/2 = 3.5, foreign_support: 3/1 = 3.0
	assert.InDelta(t, 3.5, summary.CategoryAverages[domain.CategoryRecommendation], 1e-9)
	assert.InDelta(t, 3.0, summary.CategoryAverages[domain.CategoryForeignSupport], 1e-9)
}

func TestBuildSummary_UnansweredCategoryIsZero(t *testing.T) {
	reviews := []domain.Review{
		{IndividualAverage: 5.0, Ratings: domain.RatingSet{Recommendation: intPtr(5)}},
	}

	summary := BuildSummary(reviews, fixedNow)

	assert.Zero(t, summary.CategoryAverages[domain.CategoryPromotionTreatment])
	assert.InDelta(t, 5.0, summary.CategoryAverages[domain.CategoryRecommendation], 1e-9)
}

func TestBuildSummary_CategoryRounding(t *testing.T) {
	// (2+2+3)/3 = 2.333... → 2.3
	reviews := []domain.Review{
		{IndividualAverage: 2.0, Ratings: domain.RatingSet{CompanyCulture: intPtr(2)}},
		{IndividualAverage: 2.0, Ratings: domain.RatingSet{CompanyCulture: intPtr(2)}},
		{IndividualAverage: 3.0, Ratings: domain.RatingSet{CompanyCulture: intPtr(3)}},
	}

	summary := BuildSummary(reviews, fixedNow)

	assert.InDelta(t, 2.3, summary.CategoryAverages[domain.CategoryCompanyCulture], 1e-9)
}

func TestRecalculate_WritesReplacementSummary(t *testing.T) {
	reviews := new(mockReviewRepository)
	summaries := new(mockSummaryWriter)

	stored := []domain.Review{
		{IndividualAverage: 4.0, Ratings: domain.RatingSet{Recommendation: intPtr(4)}},
	}
	reviews.On("FindActiveByCompany", mock.Anything, "company-1").Return(stored, nil)
	summaries.On("UpdateSummary", mock.Anything, "company-1", mock.Anything).Return(nil)

	recalculator := NewAggregateRecalculator(reviews, summaries, fixedClock)
	summary, err := recalculator.Recalculate(context.Background(), "company-1")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalReviews)
	assert.InDelta(t, 4.0, summary.OverallAverage, 1e-9)

	written := summaries.Calls[0].Arguments.Get(2).(domain.ReviewSummary)
	assert.Equal(t, summary, written)
}

func TestRecalculate_FetchFailure(t *testing.T) {
	reviews := new(mockReviewRepository)
	summaries := new(mockSummaryWriter)
	reviews.On("FindActiveByCompany", mock.Anything, "company-1").Return(nil, errors.New("cursor timeout"))

	recalculator := NewAggregateRecalculator(reviews, summaries, fixedClock)
	_, err := recalculator.Recalculate(context.Background(), "company-1")

	assert.ErrorIs(t, err, ErrPersistence)
	summaries.AssertNotCalled(t, "UpdateSummary", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecalculate_WriteFailure(t *testing.T) {
	reviews := new(mockReviewRepository)
	summaries := new(mockSummaryWriter)
	reviews.On("FindActiveByCompany", mock.Anything, "company-1").Return([]domain.Review{}, nil)
	summaries.On("UpdateSummary", mock.Anything, "company-1", mock.Anything).Return(errors.New("write conflict"))

	recalculator := NewAggregateRecalculator(reviews, summaries, fixedClock)
	_, err := recalculator.Recalculate(context.Background(), "company-1")

	assert.ErrorIs(t, err, ErrPersistence)
}
