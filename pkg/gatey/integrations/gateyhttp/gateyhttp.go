// Package gateyhttp integrates the Gatey SDK with net/http servers:
// handler panics are captured with request context tags and re-panicked
// so the server's own recovery (or crash) behavior is preserved.
package gateyhttp

import (
	"fmt"
	"net/http"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	captureRequests bool
	extraTags       map[string]string
}

// WithRequestCapture also records a debug message event for every
// handled request, not just failing ones.
func WithRequestCapture() MiddlewareOption {
	return func(c *middlewareConfig) { c.captureRequests = true }
}

// WithExtraTags attaches additional tags to every captured event.
func WithExtraTags(tags map[string]string) MiddlewareOption {
	return func(c *middlewareConfig) { c.extraTags = tags }
}

// Middleware wraps an http.Handler. When the handler panics the panic
// is captured through the client, then re-panicked for the server's
// default handling.
func Middleware(client *gatey.Client, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tags := requestTags(r)
			for k, v := range cfg.extraTags {
				tags[k] = v
			}

			if cfg.captureRequests {
				client.CaptureMessage(
					fmt.Sprintf("%s %q", r.Method, r.URL.Path),
					gatey.WithLevel(gatey.LevelDebug),
					gatey.WithTags(tags),
				)
			}

			defer func() {
				if recovered := recover(); recovered != nil {
					client.CapturePanic(recovered, gatey.WithTags(tags))
					panic(recovered)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// requestTags extracts event tags from the request.
func requestTags(r *http.Request) map[string]string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return map[string]string{
		"method":      r.Method,
		"path":        r.URL.Path,
		"query":       r.URL.RawQuery,
		"scheme":      scheme,
		"client_host": r.RemoteAddr,
		"server_host": r.Host,
	}
}
