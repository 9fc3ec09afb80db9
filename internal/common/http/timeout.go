package http

import (
	"context"
	"net/http"
	"time"

	"github.com/zibbid/postboard/internal/common/constants"
)

// RequestTimeoutMiddleware bounds each request's context so downstream
// database calls are cancelled together with slow clients.
func RequestTimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
