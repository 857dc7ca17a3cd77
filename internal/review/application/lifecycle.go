package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/workvoice/workvoice-services/api/internal/metrics"
	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// MaxCommentRunes はコメント 1 項目あたりの文字数上限。
// 超過は切り詰めではなく検証エラーとして弾く。
const MaxCommentRunes = 1000

// ReviewInput は口コミの作成・更新で共通の入力。
// 評点・コメントはカテゴリキー付きマップで受け取り、必須 6 キーの検証を
// 通ったあとに固定フィールドの RatingSet / CommentSet へ変換する。
type ReviewInput struct {
	EmploymentStatus string
	EmploymentPeriod *domain.EmploymentPeriod
	Ratings          map[string]*int
	Comments         map[string]*string
	CommentsEN       map[string]*string
	CommentsJA       map[string]*string
	CommentsZH       map[string]*string
	Language         string
}

// CreateReviewInput は新規投稿の入力。
type CreateReviewInput struct {
	UserID    string
	CompanyID string
	ReviewInput
}

// CreateReviewResult は新規投稿の結果。
type CreateReviewResult struct {
	ReviewID          string
	IndividualAverage float64
}

// UpdateReviewResult は更新の結果。
type UpdateReviewResult struct {
	IndividualAverage float64
	CompanyID         string
}

// ReviewService は口コミのライフサイクルを統括するアプリケーションサービス。
// 検証 → 投稿可否 → サニタイズ → 集計 → 永続化 → 履歴 → 企業再集計の順に進み、
// 各段階の失敗で短絡する。再集計の失敗だけはログに留め、呼び出しを失敗させない。
type ReviewService struct {
	reviews      ReviewRepository
	histories    HistoryRepository
	permissions  *PermissionValidator
	recalculator *AggregateRecalculator
	logger       *log.Logger
	now          Clock
	submitLocks  *keyedMutex
}

// NewReviewService constructs the lifecycle service with its collaborators.
func NewReviewService(
	reviews ReviewRepository,
	histories HistoryRepository,
	permissions *PermissionValidator,
	recalculator *AggregateRecalculator,
	logger *log.Logger,
	now Clock,
) *ReviewService {
	return &ReviewService{
		reviews:      reviews,
		histories:    histories,
		permissions:  permissions,
		recalculator: recalculator,
		logger:       logger,
		now:          now,
		submitLocks:  newKeyedMutex(),
	}
}

// Create は新規口コミを投稿する。
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (CreateReviewResult, error) {
	if fields := validateReviewInput(input.ReviewInput, s.now()); len(fields) > 0 {
		metrics.ValidationFailed()
		return CreateReviewResult{}, &ValidationError{Fields: fields}
	}

	// 可否チェックから挿入までを (user, company) 単位で直列化する。
	unlock := s.submitLocks.Lock(input.UserID + "|" + input.CompanyID)
	defer unlock()

	decision, err := s.permissions.Validate(ctx, input.UserID, input.CompanyID)
	if err != nil {
		return CreateReviewResult{}, err
	}
	if !decision.CanCreate {
		metrics.DuplicateRejected()
		return CreateReviewResult{}, &DuplicateReviewError{
			ExistingReviewID: decision.ExistingReviewID,
			DaysUntilNext:    decision.DaysUntilNext,
		}
	}

	// 365 日経過済みの旧口コミがある場合はここで非アクティブ化する。
	// (userId, companyId, isActive) のユニーク部分インデックスがあるため、
	// 先に外さないと直後の挿入が重複キーで失敗する。
	if decision.ExistingReviewID != "" {
		if err := s.reviews.Deactivate(ctx, decision.ExistingReviewID); err != nil {
			return CreateReviewResult{}, persistenceError("supersede previous review", err)
		}
	}

	now := s.now()
	review := &domain.Review{
		CompanyID:        input.CompanyID,
		UserID:           input.UserID,
		EmploymentStatus: input.EmploymentStatus,
		EmploymentPeriod: input.EmploymentPeriod,
		Language:         input.Language,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	applyContent(review, input.ReviewInput)

	reviewID, err := s.reviews.Insert(ctx, review)
	if err != nil {
		// プロセス外の並行投稿がユニーク制約に先着したケース。500 ではなく
		// 重複として返す。
		if errors.Is(err, ErrActiveReviewExists) {
			metrics.DuplicateRejected()
			return CreateReviewResult{}, &DuplicateReviewError{DaysUntilNext: SubmissionWindowDays}
		}
		return CreateReviewResult{}, persistenceError("review insert", err)
	}
	review.ID = reviewID

	if err := s.recordHistory(ctx, review, domain.HistoryActionCreate, nil); err != nil {
		return CreateReviewResult{}, err
	}

	s.recalculateBestEffort(ctx, input.CompanyID)
	metrics.ReviewCreated()

	return CreateReviewResult{
		ReviewID:          reviewID,
		IndividualAverage: review.IndividualAverage,
	}, nil
}

// Update は既存口コミを更新する。
// 編集権限（所有者・365 日・アクティブ）の判定は呼び出し側が CanEdit で
// 済ませている前提で、ここでは存在確認と内容の書き換えのみを行う。
func (s *ReviewService) Update(ctx context.Context, reviewID string, input ReviewInput) (UpdateReviewResult, error) {
	existing, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return UpdateReviewResult{}, persistenceError("review lookup", err)
	}
	if existing == nil || !existing.IsActive {
		// 存在しない口コミへの不正な入力は NOT_FOUND を優先する。
		return UpdateReviewResult{}, ErrNotFound
	}

	if fields := validateReviewInput(input, s.now()); len(fields) > 0 {
		metrics.ValidationFailed()
		return UpdateReviewResult{}, &ValidationError{Fields: fields}
	}

	// 履歴に残す更新前スナップショット。
	previous := *existing

	existing.EmploymentStatus = input.EmploymentStatus
	existing.EmploymentPeriod = input.EmploymentPeriod
	existing.Language = input.Language
	applyContent(existing, input)
	existing.UpdatedAt = s.now()

	if err := s.reviews.Update(ctx, existing); err != nil {
		return UpdateReviewResult{}, persistenceError("review update", err)
	}

	if err := s.recordHistory(ctx, existing, domain.HistoryActionUpdate, &previous); err != nil {
		return UpdateReviewResult{}, err
	}

	s.recalculateBestEffort(ctx, existing.CompanyID)
	metrics.ReviewUpdated()

	return UpdateReviewResult{
		IndividualAverage: existing.IndividualAverage,
		CompanyID:         existing.CompanyID,
	}, nil
}

// applyContent はサニタイズ済みコメントと再計算した派生値を口コミへ反映する。
func applyContent(review *domain.Review, input ReviewInput) {
	review.Ratings = domain.NewRatingSet(input.Ratings)
	review.Comments = domain.SanitizeCommentSet(domain.NewCommentSet(input.Comments))
	review.CommentsEN = sanitizeOptional(input.CommentsEN)
	review.CommentsJA = sanitizeOptional(input.CommentsJA)
	review.CommentsZH = sanitizeOptional(input.CommentsZH)
	review.IndividualAverage, review.AnsweredCount = domain.AggregateRatings(review.Ratings)
}

func sanitizeOptional(values map[string]*string) *domain.CommentSet {
	if values == nil {
		return nil
	}
	sanitized := domain.SanitizeCommentSet(domain.NewCommentSet(values))
	return &sanitized
}

func (s *ReviewService) recordHistory(ctx context.Context, review *domain.Review, action string, previous *domain.Review) error {
	history := &domain.ReviewHistory{
		ReviewID:     review.ID,
		UserID:       review.UserID,
		CompanyID:    review.CompanyID,
		Action:       action,
		PreviousData: previous,
		Timestamp:    s.now(),
	}
	if _, err := s.histories.Insert(ctx, history); err != nil {
		return persistenceError("history insert", err)
	}
	return nil
}

// recalculateBestEffort は企業サマリーを再計算する。
// 口コミ本体の書き込みが正であり、ここでの失敗は次回の再計算で自然回復する。
func (s *ReviewService) recalculateBestEffort(ctx context.Context, companyID string) {
	if _, err := s.recalculator.Recalculate(ctx, companyID); err != nil {
		s.logger.Printf("企業サマリーの再計算に失敗: company=%s err=%v", companyID, err)
	}
}

// validateReviewInput は入力検証エラーをフィールド単位で収集する。
// 1 件でもあれば副作用ゼロのまま VALIDATION_FAILED になる。
func validateReviewInput(input ReviewInput, now time.Time) []FieldError {
	var fields []FieldError

	for key := range input.Ratings {
		if !domain.IsValidCategory(key) {
			fields = append(fields, FieldError{Field: "ratings." + key, Message: "unknown category"})
		}
	}
	for _, c := range domain.Categories() {
		value, present := input.Ratings[string(c)]
		if !present {
			fields = append(fields, FieldError{Field: "ratings." + string(c), Message: "category is required"})
			continue
		}
		if value != nil && !domain.IsValidRating(*value) {
			fields = append(fields, FieldError{
				Field:   "ratings." + string(c),
				Message: fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating),
			})
		}
	}

	fields = append(fields, validateCommentMap("comments", input.Comments)...)
	fields = append(fields, validateCommentMap("comments_en", input.CommentsEN)...)
	fields = append(fields, validateCommentMap("comments_ja", input.CommentsJA)...)
	fields = append(fields, validateCommentMap("comments_zh", input.CommentsZH)...)

	if !domain.IsValidLanguage(input.Language) {
		fields = append(fields, FieldError{Field: "language", Message: "language must be one of en, ja, zh"})
	}

	if err := domain.ValidateEmploymentPeriod(input.EmploymentStatus, input.EmploymentPeriod, now); err != nil {
		fields = append(fields, FieldError{Field: "employmentPeriod", Message: err.Error()})
	}

	return fields
}

func validateCommentMap(prefix string, values map[string]*string) []FieldError {
	var fields []FieldError
	for key, value := range values {
		if !domain.IsValidCategory(key) {
			fields = append(fields, FieldError{Field: prefix + "." + key, Message: "unknown category"})
			continue
		}
		if value != nil && utf8.RuneCountInString(*value) > MaxCommentRunes {
			fields = append(fields, FieldError{
				Field:   prefix + "." + key,
				Message: fmt.Sprintf("comment must be %d characters or fewer", MaxCommentRunes),
			})
		}
	}
	return fields
}
