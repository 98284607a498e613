package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bumpbox-be/internal/auth"
	"bumpbox-be/internal/logger"
	"bumpbox-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return tm
}

func TestSession(t *testing.T) {
	tm := newTokenManager(t)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.GetSessionIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, id, logger.SessionIDFrom(r.Context()))
		seen = id
		w.WriteHeader(http.StatusOK)
	})
	handler := Session(tm)(next)

	t.Run("Missing token starts a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		token := w.Header().Get(auth.SessionTokenHeader)
		require.NotEmpty(t, token)

		id, err := tm.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, seen, id)
	})

	t.Run("Minted session is flagged", func(t *testing.T) {
		var fresh bool
		h := Session(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fresh = utils.IsNewSession(r.Context())
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))
		assert.True(t, fresh)

		_, token, err := tm.NewSession()
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(auth.SessionTokenHeader, token)
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.False(t, fresh)
	})

	t.Run("Valid token keeps the session", func(t *testing.T) {
		id, token, err := tm.NewSession()
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(auth.SessionTokenHeader, token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
		assert.Empty(t, w.Header().Get(auth.SessionTokenHeader))
	})

	t.Run("Bearer token is accepted", func(t *testing.T) {
		id, token, err := tm.NewSession()
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
	})

	t.Run("Invalid token is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(auth.SessionTokenHeader, "garbage")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(auth.SessionTokenHeader))
	})
}

func TestCORS(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := CORS("http://localhost:5173")(nextHandler)

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/checkout", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), auth.SessionTokenHeader)
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), auth.SessionTokenHeader)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestResolveRateTier(t *testing.T) {
	tests := []struct {
		method, path, tier string
	}{
		{http.MethodPost, "/checkout", "strict"},
		{http.MethodPost, "/checkout/qr", "strict"},
		{http.MethodPost, "/listings", "strict"},
		{http.MethodGet, "/listings/last", "general"},
		{http.MethodPost, "/cart/items", "general"},
		{http.MethodGet, "/items", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			_, _, tier := resolveRateTier(req)
			assert.Equal(t, tt.tier, tier)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Strict tier blocks after burst", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour, time.Hour)
		defer rl.Close()
		handler := rl.Middleware(ok)

		codes := make([]int, 0, burstStrict+1)
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		for _, c := range codes[:burstStrict] {
			assert.Equal(t, http.StatusOK, c)
		}
		assert.Equal(t, http.StatusTooManyRequests, codes[burstStrict])
	})

	t.Run("Sessions have separate budgets", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour, time.Hour)
		defer rl.Close()
		handler := rl.Middleware(ok)

		send := func(sessionID string) int {
			req := httptest.NewRequest(http.MethodPost, "/listings", nil)
			req = req.WithContext(utils.SetSessionContext(req.Context(), sessionID))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			return w.Code
		}

		for i := 0; i < burstStrict; i++ {
			require.Equal(t, http.StatusOK, send("a"))
		}
		assert.Equal(t, http.StatusTooManyRequests, send("a"))
		assert.Equal(t, http.StatusOK, send("b"))
	})

	t.Run("Tokenless requests share the address budget", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour, time.Hour)
		defer rl.Close()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return base }

		handler := Session(newTokenManager(t))(rl.Middleware(ok))

		limited := 0
		for i := 0; i < 50; i++ {
			req := httptest.NewRequest(http.MethodPost, "/listings", nil)
			req.RemoteAddr = "10.0.0.1:40000"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code == http.StatusTooManyRequests {
				limited++
			}
		}

		assert.Equal(t, 50-burstStrict, limited)
		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Len(t, rl.visitors, 1)
	})

	t.Run("Sessions behind one address share a ceiling", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour, time.Hour)
		defer rl.Close()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return base }
		handler := rl.Middleware(ok)

		limited := 0
		total := burstStrict*ipShareFactor + 10
		for i := 0; i < total; i++ {
			req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
			req.RemoteAddr = "10.0.0.2:40000"
			req = req.WithContext(utils.SetSessionContext(req.Context(), fmt.Sprintf("s%d", i)))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code == http.StatusTooManyRequests {
				limited++
			}
		}

		assert.Equal(t, 10, limited)
	})

	t.Run("Cleanup drops idle visitors", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour, time.Minute)
		defer rl.Close()

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return base }
		rl.getVisitor("old", limitGeneral, burstGeneral)

		rl.now = func() time.Time { return base.Add(50 * time.Second) }
		rl.getVisitor("fresh", limitGeneral, burstGeneral)

		rl.now = func() time.Time { return base.Add(90 * time.Second) }
		assert.Equal(t, 1, rl.cleanup())

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Contains(t, rl.visitors, "fresh")
		assert.NotContains(t, rl.visitors, "old")
	})

	t.Run("Close stops the cleanup goroutine", func(t *testing.T) {
		rl := NewRateLimiter(time.Millisecond, time.Minute)
		time.Sleep(5 * time.Millisecond)
		rl.Close()
		rl.Close()

		goleak.VerifyNone(t)
	})
}
