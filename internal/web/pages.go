package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/freshstart/storefront/internal/apperr"
	"github.com/freshstart/storefront/internal/httpx"
	"github.com/freshstart/storefront/internal/menu"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// section groups items for rendering, preserving store order.
type section struct {
	Slug  string
	Items []menu.Item
}

func groupBySection(items []menu.Item) []section {
	index := map[string]int{}
	var sections []section
	for _, item := range items {
		pos, ok := index[item.SectionSlug]
		if !ok {
			pos = len(sections)
			index[item.SectionSlug] = pos
			sections = append(sections, section{Slug: item.SectionSlug})
		}
		sections[pos].Items = append(sections[pos].Items, item)
	}
	return sections
}

func pickLang(ctx *httpx.Context) string {
	lang := ctx.Query("lang")
	for _, known := range menu.Languages {
		if lang == known {
			return lang
		}
	}
	return "en"
}

func (s *Server) render(ctx *httpx.Context, name string, data any) error {
	ctx.ResponseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx.ResponseWriter.WriteHeader(http.StatusOK)
	if err := pageTemplates.ExecuteTemplate(ctx.ResponseWriter, name, data); err != nil {
		return apperr.Internal("template render failed", err)
	}
	return nil
}

// storefrontItems backs the public pages: a failed read degrades to an
// empty list so visitors never see an error page.
func (s *Server) storefrontItems(ctx *httpx.Context) []menu.Item {
	items, err := s.cached.List(ctx.Request.Context())
	if err != nil {
		ctx.Logger().Warn("storefront list unavailable", slog.String("error", err.Error()))
		return nil
	}
	return items
}

func (s *Server) homePage(ctx *httpx.Context) error {
	items := s.storefrontItems(ctx)
	return s.render(ctx, "home.html", map[string]any{
		"Lang":     pickLang(ctx),
		"Sections": groupBySection(items),
	})
}

func (s *Server) sectionPage(ctx *httpx.Context) error {
	slug := ctx.Param("section")
	items := s.storefrontItems(ctx)

	var filtered []menu.Item
	for _, item := range items {
		if item.SectionSlug == slug {
			filtered = append(filtered, item)
		}
	}
	return s.render(ctx, "section.html", map[string]any{
		"Lang":    pickLang(ctx),
		"Section": slug,
		"Items":   filtered,
	})
}

func (s *Server) loginPage(ctx *httpx.Context) error {
	next := ctx.Query("next")
	if next == "" {
		next = "/ekle"
	}
	return s.render(ctx, "login.html", map[string]any{"Next": next})
}

func (s *Server) adminPage(ctx *httpx.Context) error {
	items, err := s.store.List(ctx.Request.Context())
	if err != nil {
		return err
	}
	return s.render(ctx, "ekle.html", map[string]any{
		"Lang":  "tr",
		"Items": items,
	})
}
