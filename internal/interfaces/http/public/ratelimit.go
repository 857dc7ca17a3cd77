package public

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/workvoice/workvoice-services/api/internal/interfaces/http/common"
)

// submitLimiter は認証済みユーザー単位の投稿レートリミッター。
// 一定時間参照されないエントリは定期的に破棄する。
type submitLimiter struct {
	mu       sync.Mutex
	limiters map[string]*submitEntry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

type submitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newSubmitLimiter(perMinute, burst int) *submitLimiter {
	if perMinute <= 0 {
		perMinute = 3
	}
	if burst <= 0 {
		burst = perMinute
	}
	s := &submitLimiter{
		limiters: make(map[string]*submitEntry),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		ttl:      30 * time.Minute,
	}
	go s.cleanupLoop()
	return s
}

func (s *submitLimiter) allow(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[userID]
	if !ok {
		entry = &submitEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[userID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (s *submitLimiter) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, entry := range s.limiters {
			if now.Sub(entry.lastSeen) > s.ttl {
				delete(s.limiters, key)
			}
		}
		s.mu.Unlock()
	}
}

// rateLimitSubmit は投稿 API を包み、過剰な連続投稿を 429 で弾く。
func (h *Handler) rateLimitSubmit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "認証情報を取得できませんでした"})
			return
		}
		if !h.submitLimiter.allow(user.ID) {
			common.WriteJSON(h.logger, w, http.StatusTooManyRequests, map[string]string{
				"error": "投稿の間隔が短すぎます。しばらく待ってから再度お試しください",
			})
			return
		}
		next.ServeHTTP(w, r)
	}
}
