package application

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// --- Mock Repositories ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) FindActiveByUserAndCompany(ctx context.Context, userID, companyID string) (*domain.Review, error) {
	args := m.Called(ctx, userID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) FindActiveByCompany(ctx context.Context, companyID string) ([]domain.Review, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) FindLatestByUser(ctx context.Context, userID string) (*domain.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Insert(ctx context.Context, review *domain.Review) (string, error) {
	args := m.Called(ctx, review)
	return args.String(0), args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) Insert(ctx context.Context, history *domain.ReviewHistory) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

func (m *mockHistoryRepository) FindByReviewID(ctx context.Context, reviewID string) ([]domain.ReviewHistory, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewHistory), args.Error(1)
}

type mockSummaryWriter struct {
	mock.Mock
}

func (m *mockSummaryWriter) UpdateSummary(ctx context.Context, companyID string, summary domain.ReviewSummary) error {
	args := m.Called(ctx, companyID, summary)
	return args.Error(0)
}

// --- Test Helpers ---

var fixedNow = time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func validRatings() map[string]*int {
	return map[string]*int{
		"recommendation":      intPtr(4),
		"foreign_support":     intPtr(3),
		"company_culture":     nil,
		"employee_relations":  intPtr(5),
		"evaluation_system":   intPtr(2),
		"promotion_treatment": nil,
	}
}

func validInput() ReviewInput {
	return ReviewInput{
		EmploymentStatus: domain.EmploymentCurrent,
		EmploymentPeriod: &domain.EmploymentPeriod{StartYear: 2024},
		Ratings:          validRatings(),
		Comments: map[string]*string{
			"recommendation": strPtr("良い会社です"),
		},
		Language: domain.LanguageJA,
	}
}

func newTestService(reviews *mockReviewRepository, histories *mockHistoryRepository, summaries *mockSummaryWriter) *ReviewService {
	permissions := NewPermissionValidator(reviews, fixedClock)
	recalculator := NewAggregateRecalculator(reviews, summaries, fixedClock)
	return NewReviewService(reviews, histories, permissions, recalculator, testLogger(), fixedClock)
}
