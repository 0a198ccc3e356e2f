package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Timeout bounds each request by wrapping its context. When the deadline
// passes before the handler writes anything, the client gets a 504 and any
// late output from the handler is discarded.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			guard := &guardedWriter{ResponseWriter: w}
			finished := make(chan struct{})
			go func() {
				defer close(finished)
				next.ServeHTTP(guard, r.WithContext(ctx))
			}()

			select {
			case <-finished:
			case <-ctx.Done():
				if guard.claim(wroteTimeout) {
					slog.Warn("request deadline exceeded",
						"method", r.Method,
						"path", r.URL.Path,
						"limit", limit,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusGatewayTimeout)
					w.Write([]byte(`{"error":"request timeout"}`))
				}
			}
		})
	}
}

const (
	untouched    int32 = 0
	wroteBody    int32 = 1
	wroteTimeout int32 = 2
)

// guardedWriter lets exactly one side produce the response. Whichever of the
// handler goroutine and the timeout branch claims the writer first wins; the
// loser's bytes go nowhere.
type guardedWriter struct {
	http.ResponseWriter
	state int32
}

func (g *guardedWriter) claim(want int32) bool {
	return atomic.CompareAndSwapInt32(&g.state, untouched, want) ||
		atomic.LoadInt32(&g.state) == want
}

func (g *guardedWriter) WriteHeader(code int) {
	if g.claim(wroteBody) {
		g.ResponseWriter.WriteHeader(code)
	}
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	if g.claim(wroteBody) {
		return g.ResponseWriter.Write(b)
	}
	return len(b), nil
}
