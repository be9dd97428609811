package web

import (
	"database/sql"
	"net/http"
	"net/url"
	"strconv"

	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/ops"
	"github.com/insult0o/pdfsel/internal/selection"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	renderer *Renderer
}

// HandleList handles GET /selections, newest saved first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(r.Context(), h.db, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Saved selections",
			Version: h.renderer.version,
		},
		Items:      result.Items,
		Pagination: result.Pagination,
	})
}

// HandleDetail handles GET /selections/{name}: manifest, statistics and validation.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("selection name is required"))
		return
	}

	saved, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, saved)
		return
	}

	manifest := selection.Manifest(selection.ManifestInput{
		Name:      saved.Name,
		Selection: saved.Selection,
		SavedAt:   saved.SavedAt,
		SavedBy:   saved.SavedBy,
	})

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   saved.Name,
			Version: h.renderer.version,
		},
		Selection:    saved,
		RenderedHTML: h.renderer.renderMarkdown(manifest),
	})
}

// HandleDelete handles DELETE /selections/{name} and the detail page's
// POST /selections/{name}/delete form. Unknown names are not an error.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("selection name is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/selections", http.StatusSeeOther)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// selectionPath returns the detail URL for a saved selection name.
func selectionPath(name string) string {
	return "/selections/" + url.PathEscape(name)
}
