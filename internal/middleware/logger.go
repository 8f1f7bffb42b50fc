package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/researchhub/researchhub-api/internal/pkg/logger"
)

// Logger logs each request once it completes. 5xx responses log at error
// level, 4xx at warn.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		l := logger.FromContext(r.Context())
		event := l.Info()
		switch {
		case wrapped.statusCode >= http.StatusInternalServerError:
			event = l.Error()
		case wrapped.statusCode >= http.StatusBadRequest:
			event = l.Warn()
		}

		// RemoteAddr is already rewritten by chi's RealIP
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", redactQuery(r.URL.RawQuery)).
			Int("status", wrapped.statusCode).
			Dur("duration", time.Since(start)).
			Str("ip", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Msg("HTTP Request")
	})
}

// redactQuery masks credentials passed in the query string
func redactQuery(raw string) string {
	if raw == "" {
		return raw
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "[unparseable]"
	}
	if _, ok := values[TokenQueryParam]; !ok {
		return raw
	}
	values.Set(TokenQueryParam, "REDACTED")
	return values.Encode()
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades take over the connection
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// Unwrap exposes the underlying writer so websocket upgrades can hijack it
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
