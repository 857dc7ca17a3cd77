package common

const (
	// MaxReviewRequestBody limits JSON request bodies for review endpoints.
	MaxReviewRequestBody = 1 << 20
	// DefaultPageLimit is the fallback page size for list endpoints.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size a client may request.
	MaxPageLimit = 100
)
