package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/kawase/internal/model"
)

func newTestRateLimiter(t *testing.T, config RateLimiterConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(config)
	t.Cleanup(rl.Stop)
	return rl
}

func requestWithClaims(userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	claims := &model.TokenClaims{UserID: userID, Email: "admin@teste.com"}
	return req.WithContext(ContextWithClaims(req.Context(), claims))
}

// バースト上限まではリクエストが通過し、超過分は429になることを検証
func TestRateLimiter_General_BurstExhaustion(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // 補充をほぼ発生させない
		GeneralBurst:    3,
		LoginRate:       rate.Limit(1),
		LoginBurst:      1,
		CleanupInterval: time.Minute,
	})

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithClaims(1))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithClaims(1))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header is missing")
	}
	if body := decodeErrorBody(t, w); body.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("code = %q, want %q", body.Code, "RATE_LIMIT_EXCEEDED")
	}
}

// ユーザーごとに独立したリミッターが使われることを検証
func TestRateLimiter_General_IsolatedPerUser(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001),
		GeneralBurst:    1,
		LoginRate:       rate.Limit(1),
		LoginBurst:      1,
		CleanupInterval: time.Minute,
	})

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, requestWithClaims(1))
	if w1.Code != http.StatusOK {
		t.Fatalf("user 1 first request: status = %d, want %d", w1.Code, http.StatusOK)
	}

	// ユーザー1は枯渇、ユーザー2は影響を受けない
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, requestWithClaims(1))
	if w2.Code != http.StatusTooManyRequests {
		t.Errorf("user 1 second request: status = %d, want %d", w2.Code, http.StatusTooManyRequests)
	}

	w3 := httptest.NewRecorder()
	handler.ServeHTTP(w3, requestWithClaims(2))
	if w3.Code != http.StatusOK {
		t.Errorf("user 2 first request: status = %d, want %d", w3.Code, http.StatusOK)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
}

// 認証情報がないリクエストは401を返すことを検証（AuthMiddlewareの後置を前提とする）
func TestRateLimiter_General_MissingClaims_Returns401(t *testing.T) {
	rl := newTestRateLimiter(t, NewRateLimiterConfig(120, 10))

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without claims")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// ログイン試行は接続元IP単位で制限されることを検証
func TestRateLimiter_Login_IsolatedPerIP(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    1,
		LoginRate:       rate.Limit(0.001),
		LoginBurst:      1,
		CleanupInterval: time.Minute,
	})

	handler := rl.LoginMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	makeRequest := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	if w := makeRequest("10.0.0.1:51234"); w.Code != http.StatusOK {
		t.Fatalf("ip 1 first request: status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := makeRequest("10.0.0.1:51235"); w.Code != http.StatusTooManyRequests {
		t.Errorf("ip 1 second request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w := makeRequest("10.0.0.2:51234"); w.Code != http.StatusOK {
		t.Errorf("ip 2 first request: status = %d, want %d", w.Code, http.StatusOK)
	}

	if got := rl.LoginLimiterCount(); got != 2 {
		t.Errorf("LoginLimiterCount() = %d, want 2", got)
	}
}

// req/min設定値からrate.Limitへの変換を検証
func TestNewRateLimiterConfig_ConvertsPerMinute(t *testing.T) {
	config := NewRateLimiterConfig(120, 10)

	if config.GeneralRate != rate.Limit(2.0) {
		t.Errorf("GeneralRate = %v, want 2.0", config.GeneralRate)
	}
	if config.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", config.GeneralBurst)
	}
	if config.LoginRate != rate.Limit(10.0/60.0) {
		t.Errorf("LoginRate = %v, want %v", config.LoginRate, rate.Limit(10.0/60.0))
	}
	if config.LoginBurst != 10 {
		t.Errorf("LoginBurst = %d, want 10", config.LoginBurst)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{name: "host and port", remoteAddr: "192.168.1.10:54321", want: "192.168.1.10"},
		{name: "ipv6 with port", remoteAddr: "[::1]:54321", want: "::1"},
		{name: "no port", remoteAddr: "192.168.1.10", want: "192.168.1.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = tt.remoteAddr
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
