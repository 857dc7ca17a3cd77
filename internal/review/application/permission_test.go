package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

func TestPermissionValidator_NoExistingReview(t *testing.T) {
	reviews := new(mockReviewRepository)
	reviews.On("FindActiveByUserAndCompany", mock.Anything, "user-1", "company-1").Return(nil, nil)

	validator := NewPermissionValidator(reviews, fixedClock)
	decision, err := validator.Validate(context.Background(), "user-1", "company-1")

	require.NoError(t, err)
	assert.True(t, decision.CanCreate)
	assert.False(t, decision.CanUpdate)
}

func TestPermissionValidator_RecentReviewAllowsUpdateOnly(t *testing.T) {
	existing := &domain.Review{
		ID:        "review-9",
		CreatedAt: fixedNow.Add(-100 * 24 * time.Hour),
		IsActive:  true,
	}
	reviews := new(mockReviewRepository)
	reviews.On("FindActiveByUserAndCompany", mock.Anything, "user-1", "company-1").Return(existing, nil)

	validator := NewPermissionValidator(reviews, fixedClock)
	decision, err := validator.Validate(context.Background(), "user-1", "company-1")

	require.NoError(t, err)
	assert.False(t, decision.CanCreate)
	assert.True(t, decision.CanUpdate)
	assert.Equal(t, "review-9", decision.ExistingReviewID)
	assert.Equal(t, 265, decision.DaysUntilNext)
}

func TestPermissionValidator_WindowBoundary(t *testing.T) {
	tests := []struct {
		name          string
		age           time.Duration
		wantCreate    bool
		wantDaysUntil int
	}{
		{"exactly 365 days allows creation", 365 * 24 * time.Hour, true, 0},
		{"just under 365 days blocks creation", 365*24*time.Hour - time.Second, false, 1},
		{"364 days blocks with one day left", 364 * 24 * time.Hour, false, 1},
		{"over a year allows creation", 400 * 24 * time.Hour, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := &domain.Review{ID: "review-1", CreatedAt: fixedNow.Add(-tt.age), IsActive: true}
			reviews := new(mockReviewRepository)
			reviews.On("FindActiveByUserAndCompany", mock.Anything, "user-1", "company-1").Return(existing, nil)

			validator := NewPermissionValidator(reviews, fixedClock)
			decision, err := validator.Validate(context.Background(), "user-1", "company-1")

			require.NoError(t, err)
			assert.Equal(t, tt.wantCreate, decision.CanCreate)
			// 作成許可でも置き換え対象の旧口コミ ID は常に伝える
			assert.Equal(t, "review-1", decision.ExistingReviewID)
			if !tt.wantCreate {
				assert.Equal(t, tt.wantDaysUntil, decision.DaysUntilNext)
			}
		})
	}
}

func TestPermissionValidator_LookupFailureIsPersistenceError(t *testing.T) {
	reviews := new(mockReviewRepository)
	reviews.On("FindActiveByUserAndCompany", mock.Anything, "user-1", "company-1").Return(nil, errors.New("connection reset"))

	validator := NewPermissionValidator(reviews, fixedClock)
	_, err := validator.Validate(context.Background(), "user-1", "company-1")

	assert.ErrorIs(t, err, ErrPersistence)
}

func TestCanEdit(t *testing.T) {
	base := domain.Review{
		ID:        "review-1",
		UserID:    "owner",
		IsActive:  true,
		CreatedAt: fixedNow.Add(-30 * 24 * time.Hour),
	}

	t.Run("owner within window", func(t *testing.T) {
		review := base
		assert.True(t, CanEdit(&review, "owner", fixedNow))
	})

	t.Run("different user", func(t *testing.T) {
		review := base
		assert.False(t, CanEdit(&review, "someone-else", fixedNow))
	})

	t.Run("window expired", func(t *testing.T) {
		review := base
		review.CreatedAt = fixedNow.Add(-365 * 24 * time.Hour)
		assert.False(t, CanEdit(&review, "owner", fixedNow))
	})

	t.Run("just inside window", func(t *testing.T) {
		review := base
		review.CreatedAt = fixedNow.Add(-365*24*time.Hour + time.Second)
		assert.True(t, CanEdit(&review, "owner", fixedNow))
	})

	t.Run("inactive review", func(t *testing.T) {
		review := base
		review.IsActive = false
		assert.False(t, CanEdit(&review, "owner", fixedNow))
	})

	t.Run("nil review", func(t *testing.T) {
		assert.False(t, CanEdit(nil, "owner", fixedNow))
	})
}
