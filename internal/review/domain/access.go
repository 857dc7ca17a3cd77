package domain

import "strings"

// AccessLevel はリクエストごとに判定される閲覧権限。永続化しない。
type AccessLevel string

const (
	AccessDenied  AccessLevel = "DENIED"
	AccessPreview AccessLevel = "PREVIEW"
	AccessFull    AccessLevel = "FULL"
	AccessCrawler AccessLevel = "CRAWLER"
)

// AccessSignals は閲覧権限の判定入力。
type AccessSignals struct {
	IsAuthenticated    bool
	HasRecentPost      bool
	IsKnownCrawlerUser bool
}

// ResolveAccessLevel は閲覧者の状態を 4 段階の閲覧権限へ写像する。
// クローラー判定は他のすべての条件に優先する。未認証は PREVIEW、
// 認証済みは直近 365 日以内の投稿有無で FULL / DENIED に分かれる。
func ResolveAccessLevel(signals AccessSignals) AccessLevel {
	if signals.IsKnownCrawlerUser {
		return AccessCrawler
	}
	if !signals.IsAuthenticated {
		return AccessPreview
	}
	if signals.HasRecentPost {
		return AccessFull
	}
	return AccessDenied
}

// IsKnownCrawler は User-Agent が既知クローラーのいずれかを含むか判定する。
// 照合は大文字小文字を無視した部分一致。
func IsKnownCrawler(userAgent string, patterns []string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return false
	}
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
