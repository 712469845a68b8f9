package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"formlab/internal/app/apiresp"
	"formlab/internal/auth"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc formService
}

type formService interface {
	CreateForm(ctx context.Context, name string, ownerID int64) (*Form, error)
	ListForms(ctx context.Context, ownerID int64) ([]Form, error)
	RenameForm(ctx context.Context, formID string, ownerID int64, name string) error
	DeleteForm(ctx context.Context, formID string, ownerID int64) error
}

type upsertFormRequest struct {
	Name string `json:"name"`
}

func NewHandler(svc formService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req upsertFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	f, err := h.svc.CreateForm(r.Context(), req.Name, user.ID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			apiresp.WriteError(w, r, http.StatusBadRequest, "name is required")
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, f)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.svc.ListForms(r.Context(), user.ID)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, items)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(chi.URLParam(r, "id"))
	if formID == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid form id")
		return
	}

	var req upsertFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.RenameForm(r.Context(), formID, user.ID, req.Name); err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			apiresp.WriteError(w, r, http.StatusBadRequest, "name is required")
		case errors.Is(err, ErrFormNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "form not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "renamed"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(chi.URLParam(r, "id"))
	if formID == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid form id")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.DeleteForm(r.Context(), formID, user.ID); err != nil {
		if errors.Is(err, ErrFormNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, "form not found")
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
