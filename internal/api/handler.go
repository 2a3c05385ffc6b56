// Package api exposes the preview server: the rendered document, the
// parsed cells and their resolved order, and an execution-simulation
// endpoint. It is a read-only surface over document snapshots; each run
// works on a fresh parse so no state leaks between requests.
package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhishekshiv/litpro/internal/document"
	"github.com/abhishekshiv/litpro/internal/export"
	"github.com/abhishekshiv/litpro/internal/extract"
	"github.com/abhishekshiv/litpro/internal/runner"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	loader *document.Loader
	opts   extract.Options
	html   *export.HTMLExporter
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(loader *document.Loader, opts extract.Options, html *export.HTMLExporter) http.Handler {
	h := &Handler{loader: loader, opts: opts, html: html, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /{$}", h.renderDocument)
	h.mux.HandleFunc("GET /v1/cells", h.listCells)
	h.mux.HandleFunc("POST /v1/run", h.runDocument)
	h.mux.HandleFunc("POST /v1/reload", h.reloadDocument)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// GET / — the document rendered as HTML.
func (h *Handler) renderDocument(w http.ResponseWriter, r *http.Request) {
	snap := h.loader.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.html.Write(w, snap); err != nil {
		// Headers are already gone; nothing more to do than log.
		logError(r, err)
	}
}

type cellView struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// GET /v1/cells — cells in resolved execution order, plus diagnostics.
func (h *Handler) listCells(w http.ResponseWriter, r *http.Request) {
	snap := h.loader.Snapshot()
	cells := make([]cellView, 0, len(snap.Order))
	for _, id := range snap.Order {
		c := snap.Cells[id]
		cells = append(cells, cellView{ID: c.ID, Dependencies: c.Dependencies})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document":    snap.Path,
		"title":       snap.Title,
		"order":       snap.Order,
		"cells":       cells,
		"diagnostics": snap.Diags,
	})
}

// POST /v1/run — simulate execution on a fresh parse of the document.
func (h *Handler) runDocument(w http.ResponseWriter, r *http.Request) {
	current := h.loader.Snapshot()

	// Every run starts from a fresh cell set; the shared snapshot's
	// executed flags are never touched.
	snap, err := document.Parse(current.Path, current.Content, h.opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rep, err := runner.New(nil).Run(snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// POST /v1/reload — re-parse the document from disk.
func (h *Handler) reloadDocument(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded":    true,
		"cells":       len(snap.Cells),
		"diagnostics": len(snap.Diags),
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestID tags a request for log correlation.
func requestID() string {
	return uuid.New().String()
}
