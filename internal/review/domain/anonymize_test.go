package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousLetter_KnownVectors(t *testing.T) {
	// sha256("user-123pepper") = 44407a85... → 0x44407a85 % 26 = 9 → 'J'
	assert.Equal(t, "J", AnonymousLetter("user-123", "pepper"))
	// sha256("user-123") = fcdec6df... → 0xfcdec6df % 26 = 11 → 'L'
	assert.Equal(t, "L", AnonymousLetter("user-123", ""))
	// sha256("another-userpepper") = ca73efb2... → 0xca73efb2 % 26 = 16 → 'Q'
	assert.Equal(t, "Q", AnonymousLetter("another-user", "pepper"))
}

func TestAnonymousLetter_Deterministic(t *testing.T) {
	first := AnonymousLetter("user-42", "salt")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AnonymousLetter("user-42", "salt"))
	}
}

func TestAnonymousLetter_SaltChangesMapping(t *testing.T) {
	letter := AnonymousLetter("user-123", "pepper")
	assert.Len(t, letter, 1)
	assert.GreaterOrEqual(t, letter[0], byte('A'))
	assert.LessOrEqual(t, letter[0], byte('Z'))
	assert.NotEqual(t, letter, AnonymousLetter("user-123", ""))
}

func TestAnonymousName(t *testing.T) {
	assert.Equal(t, "UserJ", AnonymousName("user-123", "pepper"))
}

func sampleReview() Review {
	end := 2024
	return Review{
		ID:               "review-1",
		CompanyID:        "company-1",
		UserID:           "user-123",
		EmploymentStatus: EmploymentFormer,
		EmploymentPeriod: &EmploymentPeriod{StartYear: 2021, EndYear: &end},
		Ratings: RatingSet{
			Recommendation: intPtr(4),
			ForeignSupport: intPtr(5),
		},
		Comments: CommentSet{
			Recommendation: strPtr("働きやすい会社です"),
		},
		CommentsEN: &CommentSet{
			Recommendation: strPtr("A good place to work"),
		},
		Language:          LanguageJA,
		IndividualAverage: 4.5,
		AnsweredCount:     2,
		IsActive:          true,
		CreatedAt:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestAnonymize_FullAccess(t *testing.T) {
	out := Anonymize(sampleReview(), "pepper", false)

	assert.Equal(t, "UserJ", out.AnonymizedUser)
	assert.Equal(t, "働きやすい会社です", *out.Comments.Recommendation)
	assert.Equal(t, "A good place to work", *out.CommentsEN.Recommendation)
	assert.Equal(t, "2021–2024", out.EmploymentDisplay)
	assert.Equal(t, "2025-03-01", out.CreatedAt)
	assert.Equal(t, "2025-03-02", out.UpdatedAt)
}

func TestAnonymize_PreviewMasksAllComments(t *testing.T) {
	out := Anonymize(sampleReview(), "pepper", true)

	assert.Equal(t, MaskedComment, *out.Comments.Recommendation)
	assert.Equal(t, MaskedComment, *out.CommentsEN.Recommendation)
	// 未記入コメントはマスクではなく nil のまま
	assert.Nil(t, out.Comments.ForeignSupport)
	assert.Nil(t, out.CommentsJA)
	// 評点と平均はプレビューでも開示する
	assert.Equal(t, 4, *out.Ratings.Recommendation)
	assert.InDelta(t, 4.5, out.IndividualAverage, 1e-9)
	assert.Equal(t, 2, out.AnsweredCount)
}

func TestAnonymize_DoesNotMutateSource(t *testing.T) {
	review := sampleReview()
	_ = Anonymize(review, "pepper", true)

	assert.Equal(t, "働きやすい会社です", *review.Comments.Recommendation)
	assert.Equal(t, "A good place to work", *review.CommentsEN.Recommendation)
}

func TestProjectedReview_NeverSerializesUserID(t *testing.T) {
	out := Anonymize(sampleReview(), "pepper", false)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "user-123")
	assert.NotContains(t, string(raw), "userId")
}
