package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/freshstart/storefront/internal/apperr"
)

// Context holds request-specific data.
type Context struct {
	ResponseWriter http.ResponseWriter
	Request        *http.Request

	logger *slog.Logger
	values map[string]any
}

// NewContext constructs a Context.
func NewContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		ResponseWriter: w,
		Request:        r,
		logger:         logger,
		values:         make(map[string]any),
	}
}

// Param returns a path wildcard value.
func (c *Context) Param(name string) string {
	return c.Request.PathValue(name)
}

// Query returns a query param.
func (c *Context) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// Set stores a value in the context.
func (c *Context) Set(key string, value any) {
	c.values[key] = value
}

// Get retrieves a stored value.
func (c *Context) Get(key string) (any, bool) {
	value, ok := c.values[key]
	return value, ok
}

// Logger returns the request logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger.With(slog.String("request_id", RequestIDFromHeader(c.Request)))
}

// JSON responds with JSON.
func (c *Context) JSON(status int, payload any) error {
	c.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.ResponseWriter.WriteHeader(status)
	return json.NewEncoder(c.ResponseWriter).Encode(payload)
}

// Text responds with plain text.
func (c *Context) Text(status int, message string) error {
	c.ResponseWriter.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.ResponseWriter.WriteHeader(status)
	_, err := io.WriteString(c.ResponseWriter, message)
	return err
}

// Redirect sends a redirect response.
func (c *Context) Redirect(status int, location string) error {
	http.Redirect(c.ResponseWriter, c.Request, location, status)
	return nil
}

// BindJSON binds the request body to a struct.
func (c *Context) BindJSON(dst any) error {
	decoder := json.NewDecoder(c.Request.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.New(apperr.CodeBadRequest, http.StatusRequestEntityTooLarge, "request body too large", err)
		}
		return apperr.BadRequest("invalid JSON", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperr.BadRequest("unexpected JSON payload", err)
	}
	return nil
}

// Cookie returns a request cookie value, or "" when absent.
func (c *Context) Cookie(name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
