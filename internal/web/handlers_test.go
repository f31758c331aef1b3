package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freshstart/storefront/internal/apperr"
	"github.com/freshstart/storefront/internal/config"
	"github.com/freshstart/storefront/internal/httpx"
	"github.com/freshstart/storefront/internal/images"
	"github.com/freshstart/storefront/internal/menu"
	"github.com/freshstart/storefront/internal/testutil"
)

type fakeImageStorage struct {
	uploads map[string][]byte
}

func (f *fakeImageStorage) Upload(ctx context.Context, key, contentType string, data []byte) error {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	if _, exists := f.uploads[key]; exists {
		return apperr.Conflict("object already exists", nil)
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeImageStorage) PublicURL(key string) string {
	return "https://storage.example/public/" + key
}

func newAPIServer(t *testing.T) (*Server, *httpx.App) {
	t.Helper()
	t.Setenv("ADMIN_EMAILS", "")

	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.DataFile = t.TempDir() + "/menu-items.json"
	cfg.SecureCookies = false

	store := menu.NewFileStore(cfg.DataFile, nil)
	server, app := NewServer(Options{
		Config:       cfg,
		Store:        store,
		StoreBackend: menu.BackendFile,
		Provider:     &fakeProvider{},
		Ingestor:     images.NewIngestor(&fakeImageStorage{}),
	})
	return server, app
}

func adminRequest(method, target, body string) *http.Request {
	return request(method, target, body, "admin-token")
}

type itemEnvelope struct {
	Item menu.Item `json:"item"`
}

type listEnvelope struct {
	Items []menu.Item `json:"items"`
}

func createItem(t *testing.T, app *httpx.App, body string) menu.Item {
	t.Helper()
	rec := testutil.Do(t, app, adminRequest(http.MethodPost, "/api/menu-items", body))
	testutil.MustStatus(t, rec, http.StatusCreated)
	var envelope itemEnvelope
	testutil.DecodeJSON(t, rec, &envelope)
	return envelope.Item
}

func TestCreateAndListMenuItems(t *testing.T) {
	_, app := newAPIServer(t)

	created := createItem(t, app, `{"sectionSlug":"mains","name":{"en":"Soup","tr":"Çorba"},"price":"12","sortOrder":2}`)
	if created.ID == "" {
		t.Fatalf("expected server-assigned id")
	}
	if created.SortOrder == nil || *created.SortOrder != 2 {
		t.Fatalf("expected sortOrder 2, got %v", created.SortOrder)
	}

	rec := testutil.Do(t, app, request(http.MethodGet, "/api/menu-items", "", ""))
	testutil.MustStatus(t, rec, http.StatusOK)
	var list listEnvelope
	testutil.DecodeJSON(t, rec, &list)
	if len(list.Items) != 1 || list.Items[0].ID != created.ID {
		t.Fatalf("expected created item in list, got %+v", list.Items)
	}
}

func TestCreateMenuItemValidation(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, adminRequest(http.MethodPost, "/api/menu-items", `{"sectionSlug":"mains","price":"12"}`))
	message := testutil.MustError(t, rec, http.StatusBadRequest)
	if !strings.Contains(message, "name") {
		t.Fatalf("expected name validation message, got %q", message)
	}
}

func TestListReflectsWritesAfterInvalidation(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, request(http.MethodGet, "/api/menu-items", "", ""))
	testutil.MustStatus(t, rec, http.StatusOK)

	created := createItem(t, app, validItem)

	rec = testutil.Do(t, app, request(http.MethodGet, "/api/menu-items", "", ""))
	var list listEnvelope
	testutil.DecodeJSON(t, rec, &list)
	if len(list.Items) != 1 || list.Items[0].ID != created.ID {
		t.Fatalf("expected fresh list after write, got %+v", list.Items)
	}
}

func TestUpdateMenuItem(t *testing.T) {
	_, app := newAPIServer(t)
	created := createItem(t, app, `{"sectionSlug":"mains","name":{"en":"Soup","tr":"Çorba"},"price":"12"}`)

	body := `{"id":"` + created.ID + `","price":"15"}`
	rec := testutil.Do(t, app, adminRequest(http.MethodPut, "/api/menu-items", body))
	testutil.MustStatus(t, rec, http.StatusOK)

	var envelope itemEnvelope
	testutil.DecodeJSON(t, rec, &envelope)
	if envelope.Item.Price != "15" {
		t.Fatalf("expected updated price, got %q", envelope.Item.Price)
	}
	if envelope.Item.Name.TR != "Çorba" {
		t.Fatalf("omitted fields must be preserved, got %+v", envelope.Item.Name)
	}
}

func TestUpdateMenuItemErrors(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, adminRequest(http.MethodPut, "/api/menu-items", `{"price":"15"}`))
	testutil.MustError(t, rec, http.StatusBadRequest)

	rec = testutil.Do(t, app, adminRequest(http.MethodPut, "/api/menu-items", `{"id":"nope","price":"15"}`))
	testutil.MustError(t, rec, http.StatusNotFound)
}

func TestDeleteMenuItem(t *testing.T) {
	_, app := newAPIServer(t)
	created := createItem(t, app, validItem)

	rec := testutil.Do(t, app, adminRequest(http.MethodDelete, "/api/menu-items?id="+created.ID, ""))
	testutil.MustStatus(t, rec, http.StatusOK)

	rec = testutil.Do(t, app, adminRequest(http.MethodDelete, "/api/menu-items?id="+created.ID, ""))
	testutil.MustError(t, rec, http.StatusNotFound)

	rec = testutil.Do(t, app, adminRequest(http.MethodDelete, "/api/menu-items", ""))
	testutil.MustError(t, rec, http.StatusBadRequest)
}

func TestDeleteAllMenuItems(t *testing.T) {
	_, app := newAPIServer(t)
	createItem(t, app, validItem)
	createItem(t, app, `{"sectionSlug":"drinks","name":{"en":"Tea"},"price":"3"}`)

	rec := testutil.Do(t, app, adminRequest(http.MethodDelete, "/api/menu-items?all=1", ""))
	testutil.MustStatus(t, rec, http.StatusOK)

	rec = testutil.Do(t, app, request(http.MethodGet, "/api/menu-items", "", ""))
	var list listEnvelope
	testutil.DecodeJSON(t, rec, &list)
	if len(list.Items) != 0 {
		t.Fatalf("expected empty list after clear, got %+v", list.Items)
	}
}

func TestBulkCreateAllOrNothing(t *testing.T) {
	server, app := newAPIServer(t)

	body := `{"items":[` + validItem + `,{"sectionSlug":"mains","price":"9"}]}`
	rec := testutil.Do(t, app, adminRequest(http.MethodPost, "/api/menu-items/bulk", body))
	message := testutil.MustError(t, rec, http.StatusBadRequest)
	if !strings.Contains(message, "items[1]") {
		t.Fatalf("expected message naming the invalid entry, got %q", message)
	}

	items, err := server.store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no writes when any entry is invalid, got %d items", len(items))
	}

	body = `{"items":[` + validItem + `,{"sectionSlug":"drinks","name":{"en":"Tea"},"price":"3"}]}`
	rec = testutil.Do(t, app, adminRequest(http.MethodPost, "/api/menu-items/bulk", body))
	testutil.MustStatus(t, rec, http.StatusCreated)
	var created listEnvelope
	testutil.DecodeJSON(t, rec, &created)
	if len(created.Items) != 2 {
		t.Fatalf("expected 2 created items, got %d", len(created.Items))
	}
}

func TestUploadDataURL(t *testing.T) {
	_, app := newAPIServer(t)

	payload := `{"dataUrl":"data:image/png;base64,` + base64.StdEncoding.EncodeToString([]byte("png")) + `"}`
	rec := testutil.Do(t, app, adminRequest(http.MethodPost, "/api/uploads", payload))
	testutil.MustStatus(t, rec, http.StatusOK)

	var body map[string]string
	testutil.DecodeJSON(t, rec, &body)
	if !strings.Contains(body["url"], "menu-items/") {
		t.Fatalf("expected public url with key prefix, got %q", body["url"])
	}
	if !strings.HasSuffix(body["url"], ".png") {
		t.Fatalf("expected png extension, got %q", body["url"])
	}
}

func TestUploadMultipart(t *testing.T) {
	_, app := newAPIServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "photo.jpeg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "admin-token"})

	rec := testutil.Do(t, app, req)
	testutil.MustStatus(t, rec, http.StatusOK)

	var body map[string]string
	testutil.DecodeJSON(t, rec, &body)
	if !strings.HasSuffix(body["url"], ".jpg") {
		t.Fatalf("expected jpeg mapped to .jpg, got %q", body["url"])
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	_, app := newAPIServer(t)

	payload := `{"dataUrl":"data:text/plain;base64,` + base64.StdEncoding.EncodeToString([]byte("hi")) + `"}`
	rec := testutil.Do(t, app, adminRequest(http.MethodPost, "/api/uploads", payload))
	testutil.MustError(t, rec, http.StatusBadRequest)
}

func TestProxyImageErrors(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, request(http.MethodGet, "/api/images", "", ""))
	testutil.MustError(t, rec, http.StatusBadRequest)

	rec = testutil.Do(t, app, request(http.MethodGet, "/api/images?path=menu-items/x.png", "", ""))
	testutil.MustError(t, rec, http.StatusInternalServerError)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, request(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"secret"}`, ""))
	testutil.MustStatus(t, rec, http.StatusOK)

	cookies := rec.Result().Cookies()
	var session *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == SessionCookieName {
			session = cookie
		}
	}
	if session == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if session.Value != "admin-token" {
		t.Fatalf("expected provider token in cookie, got %q", session.Value)
	}
	if !session.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
	if session.MaxAge != 3600 {
		t.Fatalf("expected cookie max-age from session ttl, got %d", session.MaxAge)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, request(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"wrong"}`, ""))
	testutil.MustError(t, rec, http.StatusUnauthorized)

	rec = testutil.Do(t, app, request(http.MethodPost, "/api/auth/login", `{"email":""}`, ""))
	testutil.MustError(t, rec, http.StatusBadRequest)
}

func TestLogoutClearsCookie(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, request(http.MethodPost, "/api/auth/logout", "", "admin-token"))
	testutil.MustStatus(t, rec, http.StatusOK)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName && cookie.MaxAge >= 0 {
			t.Fatalf("expected expired cookie, got max-age %d", cookie.MaxAge)
		}
	}
}

func TestHealthReportsStoreBackend(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, request(http.MethodGet, "/healthz", "", ""))
	testutil.MustStatus(t, rec, http.StatusOK)

	var body map[string]string
	testutil.DecodeJSON(t, rec, &body)
	if body["status"] != "ok" || body["store"] != menu.BackendFile {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestErrorEnvelopeShape(t *testing.T) {
	_, app := newAPIServer(t)

	rec := testutil.Do(t, app, adminRequest(http.MethodPost, "/api/menu-items", `not-json`))
	testutil.MustStatus(t, rec, http.StatusBadRequest)

	var payload map[string]json.RawMessage
	testutil.DecodeJSON(t, rec, &payload)
	if len(payload) != 1 {
		t.Fatalf("error responses carry exactly the error key, got %v", payload)
	}
	if _, ok := payload["error"]; !ok {
		t.Fatalf("expected error key, got %v", payload)
	}
}
