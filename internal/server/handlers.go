package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veidar/munin/internal/apperr"
)

// Handler holds preview API route handlers.
type Handler struct {
	snap *Snapshot
}

// NewHandler creates a new Handler over the given snapshot.
func NewHandler(snap *Snapshot) *Handler {
	return &Handler{snap: snap}
}

// ListNotes handles GET /api/notes: note summaries in vault order.
func (h *Handler) ListNotes(w http.ResponseWriter, _ *http.Request) {
	summaries := h.snap.Summaries()
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": summaries,
		"total": len(summaries),
	})
}

// GetNote handles GET /api/notes/{id}: the full import record for one note.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	note, err := h.snap.Note(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("get note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// GetExport handles GET /api/export: the whole import document.
func (h *Handler) GetExport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.snap.Document())
}
