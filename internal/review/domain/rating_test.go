package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestRound1(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"half rounds up", 3.25, 3.3},
		{"below half rounds down", 3.24, 3.2},
		{"above half rounds up", 3.26, 3.3},
		{"exact tenth unchanged", 4.1, 4.1},
		{"repeating decimal", 7.0 / 3.0, 2.3},
		{"zero", 0.0, 0.0},
		{"five", 5.0, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Round1(tt.in), 1e-9)
		})
	}
}

func TestAggregateRatings_SkipsUnanswered(t *testing.T) {
	ratings := RatingSet{
		Recommendation:    intPtr(4),
		ForeignSupport:    intPtr(3),
		EmployeeRelations: intPtr(5),
		EvaluationSystem:  intPtr(2),
	}

	average, answered := AggregateRatings(ratings)

	assert.Equal(t, 4, answered)
	assert.InDelta(t, 3.5, average, 1e-9)
}

func TestAggregateRatings_RoundsHalfUp(t *testing.T) {
	// (2+2+3)/3 = 2.333... → 2.3
	ratings := RatingSet{
		Recommendation: intPtr(2),
		ForeignSupport: intPtr(2),
		CompanyCulture: intPtr(3),
	}

	average, answered := AggregateRatings(ratings)

	assert.Equal(t, 3, answered)
	assert.InDelta(t, 2.3, average, 1e-9)
}

func TestAggregateRatings_AllUnanswered(t *testing.T) {
	average, answered := AggregateRatings(RatingSet{})

	assert.Equal(t, 0, answered)
	assert.Zero(t, average)
}

func TestAggregateRatings_SingleAnswer(t *testing.T) {
	average, answered := AggregateRatings(RatingSet{PromotionTreatment: intPtr(5)})

	assert.Equal(t, 1, answered)
	assert.InDelta(t, 5.0, average, 1e-9)
}

func TestIsValidRating(t *testing.T) {
	assert.True(t, IsValidRating(1))
	assert.True(t, IsValidRating(5))
	assert.False(t, IsValidRating(0))
	assert.False(t, IsValidRating(6))
	assert.False(t, IsValidRating(-1))
}

func TestCategories_OrderAndCount(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 6)
	assert.Equal(t, CategoryRecommendation, cats[0])
	assert.Equal(t, CategoryPromotionTreatment, cats[5])
}

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, IsValidCategory(string(c)), "expected %q to be valid", c)
	}
	assert.False(t, IsValidCategory("salary"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("Recommendation"))
}

func TestRatingSet_ValueRoundTrip(t *testing.T) {
	values := map[string]*int{
		"recommendation":      intPtr(5),
		"foreign_support":     nil,
		"company_culture":     intPtr(3),
		"employee_relations":  intPtr(1),
		"evaluation_system":   nil,
		"promotion_treatment": intPtr(4),
	}
	set := NewRatingSet(values)
	for _, c := range Categories() {
		assert.Equal(t, values[string(c)], set.Value(c))
	}
}

func TestCommentSet_TransformKeepsNil(t *testing.T) {
	set := CommentSet{
		Recommendation: strPtr("abc"),
		CompanyCulture: strPtr("def"),
	}

	upper := set.Transform(func(s string) string { return s + "!" })

	assert.Equal(t, "abc!", *upper.Recommendation)
	assert.Equal(t, "def!", *upper.CompanyCulture)
	assert.Nil(t, upper.ForeignSupport)
	assert.Nil(t, upper.PromotionTreatment)
	// 元のセットは変更されない
	assert.Equal(t, "abc", *set.Recommendation)
}
