package httpx

import (
	"net/http"
	"path"
	"strings"

	"github.com/freshstart/storefront/internal/apperr"
)

// Static serves files from dir under the given URL prefix.
func (a *App) Static(prefix, dir string, cacheControl string) {
	prefix = "/" + strings.Trim(prefix, "/")
	pattern := prefix + "/{path...}"
	if prefix == "/" {
		pattern = "/{path...}"
	}

	a.GET(pattern, func(ctx *Context) error {
		return serveStatic(ctx, dir, ctx.Param("path"), cacheControl)
	})
}

func serveStatic(ctx *Context, dir, rel, cacheControl string) error {
	if rel == "" {
		return apperr.NotFound("not found", nil)
	}

	clean := strings.TrimPrefix(path.Clean("/"+rel), "/")
	root := http.Dir(dir)

	file, err := root.Open(clean)
	if err != nil {
		return apperr.NotFound("not found", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return apperr.Internal("file stat failed", err)
	}
	if info.IsDir() {
		return apperr.NotFound("not found", nil)
	}

	if cacheControl != "" {
		ctx.ResponseWriter.Header().Set("Cache-Control", cacheControl)
	}
	http.ServeContent(ctx.ResponseWriter, ctx.Request, info.Name(), info.ModTime(), file)
	return nil
}
