package web

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/freshstart/storefront/internal/apperr"
	"github.com/freshstart/storefront/internal/httpx"
	"github.com/freshstart/storefront/internal/menu"
)

// maxUploadBytes caps image payloads.
const maxUploadBytes = 10 << 20

func (s *Server) listMenuItems(ctx *httpx.Context) error {
	items, err := s.cached.List(ctx.Request.Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []menu.Item{}
	}
	return ctx.JSON(http.StatusOK, map[string]any{"items": items})
}

func (s *Server) createMenuItem(ctx *httpx.Context) error {
	var input menu.Input
	if err := ctx.BindJSON(&input); err != nil {
		return err
	}

	item, err := s.store.Create(ctx.Request.Context(), input)
	if err != nil {
		return err
	}
	s.cached.Invalidate(ctx.Request.Context())
	return ctx.JSON(http.StatusCreated, map[string]any{"item": item})
}

// createMenuItemsBulk accepts a batch of creations in one call, the
// server half of the admin client's offline queue flush. Every entry is
// validated before any write happens.
func (s *Server) createMenuItemsBulk(ctx *httpx.Context) error {
	var payload struct {
		Items []menu.Input `json:"items"`
	}
	if err := ctx.BindJSON(&payload); err != nil {
		return err
	}
	if len(payload.Items) == 0 {
		return apperr.Validation("items must not be empty", nil)
	}
	for i, input := range payload.Items {
		if err := input.Validate(); err != nil {
			message := err.Error()
			if appErr := apperr.As(err); appErr != nil {
				message = appErr.Message
			}
			return apperr.Validation(fmt.Sprintf("items[%d]: %s", i, message), err)
		}
	}

	created := make([]menu.Item, 0, len(payload.Items))
	for _, input := range payload.Items {
		item, err := s.store.Create(ctx.Request.Context(), input)
		if err != nil {
			return err
		}
		created = append(created, *item)
	}
	s.cached.Invalidate(ctx.Request.Context())
	return ctx.JSON(http.StatusCreated, map[string]any{"items": created})
}

func (s *Server) updateMenuItem(ctx *httpx.Context) error {
	var payload struct {
		ID string `json:"id"`
		menu.Patch
	}
	if err := ctx.BindJSON(&payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.ID) == "" {
		return apperr.Validation("id is required", nil)
	}

	item, err := s.store.Update(ctx.Request.Context(), payload.ID, payload.Patch)
	if err != nil {
		return err
	}
	s.cached.Invalidate(ctx.Request.Context())
	return ctx.JSON(http.StatusOK, map[string]any{"item": item})
}

func (s *Server) deleteMenuItems(ctx *httpx.Context) error {
	reqCtx := ctx.Request.Context()

	if ctx.Query("all") == "1" {
		if err := s.store.Clear(reqCtx); err != nil {
			return err
		}
		s.cached.Invalidate(reqCtx)
		return ctx.JSON(http.StatusOK, map[string]any{"ok": true})
	}

	id := ctx.Query("id")
	if id == "" {
		return apperr.Validation("id is required", nil)
	}
	if err := s.store.Delete(reqCtx, id); err != nil {
		return err
	}
	s.cached.Invalidate(reqCtx)
	return ctx.JSON(http.StatusOK, map[string]any{"ok": true})
}

// uploadImage accepts either a multipart file field or a JSON body with
// an embedded data URL, and responds with the stored public URL.
func (s *Server) uploadImage(ctx *httpx.Context) error {
	ctx.Request.Body = http.MaxBytesReader(ctx.ResponseWriter, ctx.Request.Body, maxUploadBytes)

	contentType, _, err := mime.ParseMediaType(ctx.Request.Header.Get("Content-Type"))
	if err != nil {
		return apperr.Validation("missing content type", err)
	}

	if contentType == "multipart/form-data" {
		return s.uploadMultipart(ctx)
	}

	var payload struct {
		DataURL string `json:"dataUrl"`
	}
	if err := ctx.BindJSON(&payload); err != nil {
		return err
	}
	if payload.DataURL == "" {
		return apperr.Validation("dataUrl is required", nil)
	}

	url, err := s.ingestor.IngestDataURL(ctx.Request.Context(), payload.DataURL)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]any{"url": url})
}

func (s *Server) uploadMultipart(ctx *httpx.Context) error {
	if err := ctx.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		return apperr.Validation("invalid multipart payload", err)
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		return apperr.Validation("file field is required", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperr.BadRequest("reading upload failed", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	url, err := s.ingestor.Ingest(ctx.Request.Context(), mimeType, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]any{"url": url})
}

// proxyImage streams a stored object through the service so storefront
// pages can reference images without exposing the storage host.
func (s *Server) proxyImage(ctx *httpx.Context) error {
	key := ctx.Query("path")
	if key == "" {
		return apperr.Validation("path is required", nil)
	}
	if s.storage == nil {
		return apperr.Unavailable("object storage is not configured", nil)
	}

	data, contentType, err := s.storage.Download(ctx.Request.Context(), key)
	if err != nil {
		return err
	}

	headers := ctx.ResponseWriter.Header()
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	headers.Set("Cache-Control", "public, max-age=31536000, immutable")
	ctx.ResponseWriter.WriteHeader(http.StatusOK)
	_, err = ctx.ResponseWriter.Write(data)
	return err
}

func (s *Server) login(ctx *httpx.Context) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.BindJSON(&payload); err != nil {
		return err
	}
	if payload.Email == "" || payload.Password == "" {
		return apperr.Validation("email and password are required", nil)
	}
	if s.provider == nil {
		return apperr.Unavailable("auth backend unavailable", nil)
	}

	session, err := s.provider.PasswordLogin(ctx.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	SetSessionCookie(ctx.ResponseWriter, session.Token, session.ExpiresIn, s.config.SecureCookies)
	return ctx.JSON(http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) logout(ctx *httpx.Context) error {
	ClearSessionCookie(ctx.ResponseWriter, s.config.SecureCookies)
	return ctx.JSON(http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) health(ctx *httpx.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"store":  s.storeBackend,
	})
}
