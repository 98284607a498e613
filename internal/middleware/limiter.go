package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"bumpbox-be/internal/utils"

	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Checkout, QR generation and listing creation (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Browsing and cart edits (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// ipShareFactor scales a tier for the per-address ceiling that all
// established sessions behind one address share.
const ipShareFactor = 4

const (
	defaultCleanupInterval = time.Minute
	defaultIdleTTL         = 3 * time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client address, session and tier. It owns a cleanup
// goroutine that runs until Close.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	idleTTL  time.Duration
	now      func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewRateLimiter(cleanupInterval, idleTTL time.Duration) *RateLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}

	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		idleTTL:  idleTTL,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go rl.cleanupLoop(cleanupInterval)
	return rl
}

// Close stops the cleanup goroutine and waits for it to exit.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
	<-rl.done
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	defer close(rl.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup removes visitors idle for longer than idleTTL.
func (rl *RateLimiter) cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		rl.visitors[key] = &visitor{limiter, rl.now()}
		return limiter
	}

	v.lastSeen = rl.now()
	return v.limiter
}

// Middleware rejects requests over the tier's budget with 429.
//
// Requests without a valid session token share one bucket per client
// address, since the session middleware mints a new session for each of
// them. Established sessions get their own bucket under a wider ceiling
// for the address.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r) {
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(r *http.Request) bool {
	limit, burst, tier := resolveRateTier(r)
	ip := "ip:" + clientIP(r)
	now := rl.now()

	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok || utils.IsNewSession(r.Context()) {
		return rl.getVisitor(ip+":anon:"+tier, limit, burst).AllowN(now, 1)
	}

	if !rl.getVisitor(ip+":session:"+sessionID+":"+tier, limit, burst).AllowN(now, 1) {
		return false
	}
	return rl.getVisitor(ip+":"+tier, limit*ipShareFactor, burst*ipShareFactor).AllowN(now, 1)
}

// resolveRateTier determines which rate limit policy applies to the request.
func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if r.Method == http.MethodPost &&
		(strings.HasPrefix(r.URL.Path, "/checkout") || strings.HasPrefix(r.URL.Path, "/listings")) {
		return limitStrict, burstStrict, "strict"
	}
	return limitGeneral, burstGeneral, "general"
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
