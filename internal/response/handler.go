package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"formlab/internal/app/apiresp"
	"formlab/internal/question"

	"github.com/go-chi/chi/v5"
)

// Handler serves the unauthenticated completion path: respondents load a
// form's questions and submit one answer per question.
type Handler struct {
	loader questionLoader
	svc    submitService
}

type submitService interface {
	SubmitResponses(ctx context.Context, formID string, responses []ClientResponse) error
}

type submitRequest struct {
	Responses []ClientResponse `json:"responses"`
}

func NewHandler(loader questionLoader, svc submitService) *Handler {
	return &Handler{loader: loader, svc: svc}
}

func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(chi.URLParam(r, "id"))
	if formID == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid form id")
		return
	}

	data, err := h.loader.LoadQuestionsPublic(r.Context(), formID)
	if err != nil {
		if errors.Is(err, question.ErrFormNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, "form not found")
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, data)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(chi.URLParam(r, "id"))
	if formID == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid form id")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SubmitResponses(r.Context(), formID, req.Responses); err != nil {
		switch {
		case errors.Is(err, question.ErrFormNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "form not found")
		case errors.Is(err, ErrCountMismatch):
			apiresp.WriteError(w, r, http.StatusUnprocessableEntity, "response count does not match question count")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "submitted"})
}
