package httpx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/freshstart/storefront/internal/apperr"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestIDFromHeader returns the request id header value.
func RequestIDFromHeader(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// NewRequestID generates a random request id.
func NewRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

// RequestID ensures a request id header is present on request and response.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return func(ctx *Context) error {
			requestID := RequestIDFromHeader(ctx.Request)
			if requestID == "" {
				requestID = NewRequestID()
				if requestID != "" {
					ctx.Request.Header.Set(RequestIDHeader, requestID)
				}
			}
			if requestID != "" {
				ctx.ResponseWriter.Header().Set(RequestIDHeader, requestID)
			}
			return next(ctx)
		}
	}
}

// Recover converts panics into internal errors.
func Recover() Middleware {
	return func(next Handler) Handler {
		return func(ctx *Context) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = apperr.Internal("panic", fmt.Errorf("%v", rec))
				}
			}()
			return next(ctx)
		}
	}
}

// Logger logs request/response details.
func Logger() Middleware {
	return func(next Handler) Handler {
		return func(ctx *Context) error {
			start := time.Now()
			recorder := newResponseRecorder(ctx.ResponseWriter)
			ctx.ResponseWriter = recorder

			err := next(ctx)

			status := recorder.Status()
			if err != nil {
				if appErr := apperr.As(err); appErr != nil {
					status = appErr.Status
				} else if recorder.status == 0 {
					status = http.StatusInternalServerError
				}
			}

			attrs := []slog.Attr{
				slog.String("method", ctx.Request.Method),
				slog.String("path", ctx.Request.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", recorder.Bytes()),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil || status >= http.StatusInternalServerError {
				ctx.Logger().LogAttrs(ctx.Request.Context(), slog.LevelError, "request completed", attrs...)
			} else {
				ctx.Logger().LogAttrs(ctx.Request.Context(), slog.LevelInfo, "request completed", attrs...)
			}
			return err
		}
	}
}

// responseRecorder captures status and response size.
type responseRecorder struct {
	writer http.ResponseWriter
	status int
	bytes  int
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{writer: w}
}

func (r *responseRecorder) Header() http.Header {
	return r.writer.Header()
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.writer.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.writer.Write(p)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *responseRecorder) Bytes() int {
	return r.bytes
}

func (r *responseRecorder) Flush() {
	if flusher, ok := r.writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.writer
}
