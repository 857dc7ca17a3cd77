package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

var crawlerPatterns = []string{"googlebot", "bingbot"}

func newTestResolver(reviews *mockReviewRepository) *AccessResolver {
	return NewAccessResolver(reviews, fixedClock, testLogger(), crawlerPatterns)
}

func TestResolve_UnauthenticatedIsPreview(t *testing.T) {
	reviews := new(mockReviewRepository)
	resolver := newTestResolver(reviews)

	level := resolver.Resolve(context.Background(), "", "Mozilla/5.0")

	assert.Equal(t, domain.AccessPreview, level)
	reviews.AssertNotCalled(t, "FindLatestByUser", mock.Anything, mock.Anything)
}

func TestResolve_CrawlerSkipsLookup(t *testing.T) {
	reviews := new(mockReviewRepository)
	resolver := newTestResolver(reviews)

	level := resolver.Resolve(context.Background(), "user-1", "Googlebot/2.1")

	assert.Equal(t, domain.AccessCrawler, level)
	reviews.AssertNotCalled(t, "FindLatestByUser", mock.Anything, mock.Anything)
}

func TestResolve_RecentPosterGetsFull(t *testing.T) {
	latest := &domain.Review{CreatedAt: fixedNow.Add(-30 * 24 * time.Hour)}
	reviews := new(mockReviewRepository)
	reviews.On("FindLatestByUser", mock.Anything, "user-1").Return(latest, nil)

	level := newTestResolver(reviews).Resolve(context.Background(), "user-1", "Mozilla/5.0")

	assert.Equal(t, domain.AccessFull, level)
}

func TestResolve_StalePosterIsDenied(t *testing.T) {
	latest := &domain.Review{CreatedAt: fixedNow.Add(-400 * 24 * time.Hour)}
	reviews := new(mockReviewRepository)
	reviews.On("FindLatestByUser", mock.Anything, "user-1").Return(latest, nil)

	level := newTestResolver(reviews).Resolve(context.Background(), "user-1", "Mozilla/5.0")

	assert.Equal(t, domain.AccessDenied, level)
}

func TestResolve_ExactWindowBoundaryIsFull(t *testing.T) {
	latest := &domain.Review{CreatedAt: fixedNow.Add(-SubmissionWindow)}
	reviews := new(mockReviewRepository)
	reviews.On("FindLatestByUser", mock.Anything, "user-1").Return(latest, nil)

	level := newTestResolver(reviews).Resolve(context.Background(), "user-1", "Mozilla/5.0")

	assert.Equal(t, domain.AccessFull, level)
}

func TestResolve_NoPostsIsDenied(t *testing.T) {
	reviews := new(mockReviewRepository)
	reviews.On("FindLatestByUser", mock.Anything, "user-1").Return(nil, nil)

	level := newTestResolver(reviews).Resolve(context.Background(), "user-1", "Mozilla/5.0")

	assert.Equal(t, domain.AccessDenied, level)
}

func TestResolve_LookupFailureFailsClosed(t *testing.T) {
	reviews := new(mockReviewRepository)
	reviews.On("FindLatestByUser", mock.Anything, "user-1").Return(nil, errors.New("connection reset"))

	level := newTestResolver(reviews).Resolve(context.Background(), "user-1", "Mozilla/5.0")

	assert.Equal(t, domain.AccessDenied, level)
}
