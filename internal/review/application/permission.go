package application

import (
	"context"
	"time"

	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// SubmissionWindow は同一企業への再投稿を許すまでの期間。
const SubmissionWindow = 365 * 24 * time.Hour

// SubmissionWindowDays は SubmissionWindow の日数表現。
const SubmissionWindowDays = 365

// PermissionDecision は投稿可否の判定結果。
type PermissionDecision struct {
	CanCreate        bool
	CanUpdate        bool
	ExistingReviewID string
	DaysUntilNext    int
}

// PermissionValidator は「1 ユーザー 1 企業 1 年 1 投稿」のルールを判定する。
type PermissionValidator struct {
	reviews ReviewRepository
	now     Clock
}

// NewPermissionValidator constructs a validator with its collaborators.
func NewPermissionValidator(reviews ReviewRepository, now Clock) *PermissionValidator {
	return &PermissionValidator{reviews: reviews, now: now}
}

// Validate は (user, company) のアクティブな既存口コミを調べ、
// 新規作成・更新のどちらが可能かを返す。
// 経過がちょうど 365 日の場合は「新規作成可」に倒す（境界は作成許可側に含める）。
func (v *PermissionValidator) Validate(ctx context.Context, userID, companyID string) (PermissionDecision, error) {
	existing, err := v.reviews.FindActiveByUserAndCompany(ctx, userID, companyID)
	if err != nil {
		return PermissionDecision{}, persistenceError("permission check", err)
	}
	if existing == nil {
		return PermissionDecision{CanCreate: true}, nil
	}

	age := v.now().Sub(existing.CreatedAt)
	if age >= SubmissionWindow {
		// 新規投稿の経路として扱う。旧口コミは挿入前に呼び出し側が
		// 非アクティブ化するため、置き換え対象の ID を併せて返す。
		return PermissionDecision{CanCreate: true, ExistingReviewID: existing.ID}, nil
	}

	ageDays := int(age.Hours() / 24)
	return PermissionDecision{
		CanCreate:        false,
		CanUpdate:        true,
		ExistingReviewID: existing.ID,
		DaysUntilNext:    SubmissionWindowDays - ageDays,
	}, nil
}

// CanEdit は編集権限ルールを判定する。
// 所有者本人・作成から 365 日未満・アクティブ、の全条件を満たす場合のみ真。
// 投稿可否の PermissionValidator とは独立した、更新前の最終関門。
func CanEdit(review *domain.Review, requesterID string, now time.Time) bool {
	if review == nil || !review.IsActive {
		return false
	}
	if review.UserID != requesterID {
		return false
	}
	return now.Sub(review.CreatedAt) < SubmissionWindow
}
