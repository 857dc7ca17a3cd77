package application

import (
	"errors"
	"fmt"
	"strings"
)

// エラー種別のセンチネル。呼び出し側は errors.Is で分岐する。
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrDuplicateReview  = errors.New("duplicate review")
	ErrNotFound         = errors.New("review not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrPersistence      = errors.New("persistence error")
)

// ErrActiveReviewExists は同一 (user, company) のアクティブ口コミが既に存在し、
// ストアのユニーク制約に弾かれたことを表す。リポジトリ実装が Insert で返し、
// サービス層は DUPLICATE_REVIEW へ読み替える。
var ErrActiveReviewExists = errors.New("active review already exists")

// FieldError はフィールド単位の検証エラー。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError は VALIDATION_FAILED。フィールドエラーの一覧を運ぶ。
// このエラーが返る時点で副作用は一切発生していない。
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// DuplicateReviewError は DUPLICATE_REVIEW。編集導線を提示できるよう
// 既存口コミ ID と次回投稿可能までの日数を運ぶ。
type DuplicateReviewError struct {
	ExistingReviewID string
	DaysUntilNext    int
}

func (e *DuplicateReviewError) Error() string {
	return fmt.Sprintf("duplicate review: existing=%s daysUntilNext=%d", e.ExistingReviewID, e.DaysUntilNext)
}

func (e *DuplicateReviewError) Unwrap() error {
	return ErrDuplicateReview
}

// PersistenceError は PERSISTENCE_ERROR。内部詳細はラップして保持するが、
// エンドユーザーへそのまま表示してよい保証はない。
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
