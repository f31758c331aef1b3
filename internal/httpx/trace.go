package httpx

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/freshstart/storefront/internal/apperr"
)

// Trace records an OpenTelemetry span per request.
func Trace(serviceName string) Middleware {
	if serviceName == "" {
		serviceName = "storefront"
	}
	tracer := otel.Tracer(serviceName)

	return func(next Handler) Handler {
		return func(ctx *Context) error {
			req := ctx.Request
			spanCtx, span := tracer.Start(req.Context(), req.Method+" "+req.URL.Path)
			ctx.Request = req.WithContext(spanCtx)

			span.SetAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.target", req.URL.Path),
			)
			if req.Host != "" {
				span.SetAttributes(attribute.String("http.host", req.Host))
			}
			if requestID := RequestIDFromHeader(req); requestID != "" {
				span.SetAttributes(attribute.String("request.id", requestID))
			}

			recorder, ok := ctx.ResponseWriter.(*responseRecorder)
			if !ok {
				recorder = newResponseRecorder(ctx.ResponseWriter)
				ctx.ResponseWriter = recorder
			}

			err := next(ctx)

			status := recorder.Status()
			if err != nil {
				if appErr := apperr.As(err); appErr != nil {
					status = appErr.Status
				} else if recorder.status == 0 {
					status = http.StatusInternalServerError
				}
			}
			finishSpan(span, status, err)
			return err
		}
	}
}

func finishSpan(span trace.Span, status int, err error) {
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
