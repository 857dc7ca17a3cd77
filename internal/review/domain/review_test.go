package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestValidateEmploymentPeriod(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		period  *EmploymentPeriod
		wantErr bool
	}{
		{"current without period", EmploymentCurrent, nil, false},
		{"former without period", EmploymentFormer, nil, false},
		{"current ongoing", EmploymentCurrent, &EmploymentPeriod{StartYear: 2023}, false},
		{"former with range", EmploymentFormer, &EmploymentPeriod{StartYear: 2020, EndYear: intPtr(2023)}, false},
		{"former missing end year", EmploymentFormer, &EmploymentPeriod{StartYear: 2020}, true},
		{"unknown status", "RETIRED", nil, true},
		{"empty status", "", nil, true},
		{"start before floor", EmploymentCurrent, &EmploymentPeriod{StartYear: 1969}, true},
		{"start in future", EmploymentCurrent, &EmploymentPeriod{StartYear: 2027}, true},
		{"end in future", EmploymentFormer, &EmploymentPeriod{StartYear: 2020, EndYear: intPtr(2027)}, true},
		{"start after end", EmploymentFormer, &EmploymentPeriod{StartYear: 2024, EndYear: intPtr(2022)}, true},
		{"start equals end", EmploymentFormer, &EmploymentPeriod{StartYear: 2024, EndYear: intPtr(2024)}, false},
		{"start at floor", EmploymentFormer, &EmploymentPeriod{StartYear: 1970, EndYear: intPtr(1971)}, false},
		{"start at current year", EmploymentCurrent, &EmploymentPeriod{StartYear: 2026}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmploymentPeriod(tt.status, tt.period, testNow)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmploymentPeriod_Display(t *testing.T) {
	assert.Equal(t, "2021–present", EmploymentPeriod{StartYear: 2021}.Display())
	assert.Equal(t, "2019–2023", EmploymentPeriod{StartYear: 2019, EndYear: intPtr(2023)}.Display())
}

func TestIsValidLanguage(t *testing.T) {
	assert.True(t, IsValidLanguage(LanguageEN))
	assert.True(t, IsValidLanguage(LanguageJA))
	assert.True(t, IsValidLanguage(LanguageZH))
	assert.False(t, IsValidLanguage("ko"))
	assert.False(t, IsValidLanguage("EN"))
	assert.False(t, IsValidLanguage(""))
}

func TestEmptySummary(t *testing.T) {
	summary := EmptySummary(testNow)

	assert.Zero(t, summary.TotalReviews)
	assert.Zero(t, summary.OverallAverage)
	assert.Equal(t, testNow, summary.LastUpdated)
	assert.Len(t, summary.CategoryAverages, 6)
	for _, c := range Categories() {
		assert.Zero(t, summary.CategoryAverages[c])
	}
}
