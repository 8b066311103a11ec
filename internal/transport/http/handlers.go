package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"ai-readiness-service/internal/app"
	"ai-readiness-service/internal/catalog"
	"ai-readiness-service/internal/domain"
)

// RESTHandler serves the non-streaming surface: catalog reads, state
// snapshots, and the responses-document download.
type RESTHandler struct {
	service *app.FormService
}

func NewRESTHandler(service *app.FormService) *RESTHandler {
	return &RESTHandler{service: service}
}

// Register wires the REST routes onto mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /forms/{form}", h.ServeCatalog)
	mux.HandleFunc("GET /forms/{form}/sessions/{session}/state", h.ServeState)
	mux.HandleFunc("GET /forms/{form}/sessions/{session}/export", h.ServeExport)
}

// ServeCatalog returns the question catalog plus the country picker entries.
func (h *RESTHandler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.service.Catalog(r.Context(), r.PathValue("form"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, struct {
		Catalog   domain.Catalog    `json:"catalog"`
		Countries []catalog.Country `json:"countries"`
	}{Catalog: cat, Countries: catalog.Countries()})
}

// ServeState returns the current answers and progress for a session.
func (h *RESTHandler) ServeState(w http.ResponseWriter, r *http.Request) {
	state, progress, err := h.service.Snapshot(r.Context(), r.PathValue("form"), r.PathValue("session"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, struct {
		State    domain.FormState      `json:"state"`
		Progress domain.ProgressUpdate `json:"progress"`
	}{State: state, Progress: progress})
}

// ServeExport streams the responses document. Available on demand once the
// form is complete; submission is not a prerequisite.
func (h *RESTHandler) ServeExport(w http.ResponseWriter, r *http.Request) {
	doc, filename, err := h.service.Export(r.Context(), r.PathValue("form"), r.PathValue("session"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(doc); err != nil {
		log.Printf("write export response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCatalogNotFound), errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrFormIncomplete):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
