package domain

import (
	"time"

	reviewdomain "github.com/workvoice/workvoice-services/api/internal/review/domain"
)

// Company represents a reviewable employer.
type Company struct {
	ID          string
	Name        string
	NameKana    string
	Industry    string
	Prefecture  string
	WebsiteURL  string
	Description string
	Summary     reviewdomain.ReviewSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
