package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	commonhttp "github.com/zibbid/postboard/internal/common/http"
)

func TestStrictRateLimiter_Middleware_BucketPerPath(t *testing.T) {
	limiter := commonhttp.NewStrictRateLimiter()
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method, path string) int {
		r := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	// Login burst is 5; the sixth immediate request from the same client
	// gets blocked.
	for i := 0; i < 5; i++ {
		if code := send("POST", "/auth/login"); code != http.StatusOK {
			t.Fatalf("expected request %d to pass, got %d", i+1, code)
		}
	}

	if code := send("POST", "/auth/login"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after login burst, got %d", code)
	}

	// The general bucket is independent of the exhausted login bucket.
	if code := send("GET", "/posts"); code != http.StatusOK {
		t.Fatalf("expected general path to pass, got %d", code)
	}
}
