package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorSentinelMapping(t *testing.T) {
	validation := &ValidationError{Fields: []FieldError{{Field: "language", Message: "bad"}}}
	duplicate := &DuplicateReviewError{ExistingReviewID: "review-1", DaysUntilNext: 10}
	persistence := persistenceError("insert", errors.New("io timeout"))

	assert.ErrorIs(t, validation, ErrValidationFailed)
	assert.ErrorIs(t, duplicate, ErrDuplicateReview)
	assert.ErrorIs(t, persistence, ErrPersistence)

	assert.NotErrorIs(t, validation, ErrDuplicateReview)
	assert.NotErrorIs(t, persistence, ErrValidationFailed)
}

func TestPersistenceError_KeepsCause(t *testing.T) {
	cause := errors.New("io timeout")
	err := persistenceError("insert", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "ratings.recommendation", Message: "category is required"},
		{Field: "language", Message: "language must be one of en, ja, zh"},
	}}

	assert.Contains(t, err.Error(), "ratings.recommendation")
	assert.Contains(t, err.Error(), "language")
}
