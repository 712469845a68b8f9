package question

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"formlab/internal/app/apiresp"
	"formlab/internal/auth"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc questionService
}

type questionService interface {
	LoadQuestions(ctx context.Context, formID string, requestorID int64) (*FormQuestions, error)
	CreateQuestion(ctx context.Context, in CreateQuestionInput) (*Question, error)
	UpdateQuestion(ctx context.Context, in UpdateQuestionInput) error
	DeleteQuestion(ctx context.Context, kind Kind, questionID, ownerID int64) error
	AddChoiceOption(ctx context.Context, choiceID, ownerID int64, text string, orderIndex int) (*Option, error)
	DeleteChoiceOption(ctx context.Context, optionID, ownerID int64) error
	AddRankingOption(ctx context.Context, rankingID, ownerID int64, text string, orderIndex int) (*Option, error)
	DeleteRankingOption(ctx context.Context, optionID, ownerID int64) error
	ApplyReorder(ctx context.Context, formID string, requestorID int64, refs []QuestionRef) (*ReorderResult, error)
}

type createQuestionRequest struct {
	Kind         string   `json:"kind"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	RatingLevels int      `json:"rating_levels"`
	Required     bool     `json:"required"`
	OrderIndex   int      `json:"order_index"`
}

type updateQuestionRequest struct {
	Question     string   `json:"question"`
	Options      []Option `json:"options"`
	RatingLevels int      `json:"rating_levels"`
	Required     bool     `json:"required"`
	OrderIndex   int      `json:"order_index"`
}

type addOptionRequest struct {
	Text       string `json:"text"`
	OrderIndex int    `json:"order_index"`
}

type reorderRequest struct {
	Order []QuestionRef `json:"order"`
}

func NewHandler(svc questionService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
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

	data, err := h.svc.LoadQuestions(r.Context(), formID, user.ID)
	if err != nil {
		if errors.Is(err, ErrFormNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, "form not found")
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, data)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(chi.URLParam(r, "id"))
	if formID == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid form id")
		return
	}

	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, ok := ParseKind(req.Kind)
	if !ok {
		apiresp.WriteError(w, r, http.StatusBadRequest, "unknown question kind")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	q, err := h.svc.CreateQuestion(r.Context(), CreateQuestionInput{
		FormID:       formID,
		OwnerID:      user.ID,
		Kind:         kind,
		Text:         req.Question,
		Options:      req.Options,
		RatingLevels: req.RatingLevels,
		Required:     req.Required,
		OrderIndex:   req.OrderIndex,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownKind):
			apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrFormNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "form not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, q)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	kind, questionID, ok := questionParams(r)
	if !ok {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid question reference")
		return
	}

	var req updateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := h.svc.UpdateQuestion(r.Context(), UpdateQuestionInput{
		Kind:         kind,
		ID:           questionID,
		OwnerID:      user.ID,
		Text:         req.Question,
		OrderIndex:   req.OrderIndex,
		Required:     req.Required,
		RatingLevels: req.RatingLevels,
		Options:      req.Options,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownKind):
			apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrQuestionNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, questionID, ok := questionParams(r)
	if !ok {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid question reference")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.DeleteQuestion(r.Context(), kind, questionID, user.ID); err != nil {
		switch {
		case errors.Is(err, ErrUnknownKind):
			apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrQuestionNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AddOption(w http.ResponseWriter, r *http.Request) {
	h.addOption(w, r, "invalid choice id", h.svc.AddChoiceOption)
}

func (h *Handler) AddRankOption(w http.ResponseWriter, r *http.Request) {
	h.addOption(w, r, "invalid ranking id", h.svc.AddRankingOption)
}

func (h *Handler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	h.deleteOption(w, r, h.svc.DeleteChoiceOption)
}

func (h *Handler) DeleteRankOption(w http.ResponseWriter, r *http.Request) {
	h.deleteOption(w, r, h.svc.DeleteRankingOption)
}

func (h *Handler) addOption(w http.ResponseWriter, r *http.Request, badIDMsg string,
	add func(ctx context.Context, questionID, ownerID int64, text string, orderIndex int) (*Option, error)) {
	questionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || questionID <= 0 {
		apiresp.WriteError(w, r, http.StatusBadRequest, badIDMsg)
		return
	}

	var req addOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	opt, err := add(r.Context(), questionID, user.ID, req.Text, req.OrderIndex)
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, opt)
}

func (h *Handler) deleteOption(w http.ResponseWriter, r *http.Request,
	del func(ctx context.Context, optionID, ownerID int64) error) {
	optionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || optionID <= 0 {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid option id")
		return
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := del(r.Context(), optionID, user.ID); err != nil {
		if errors.Is(err, ErrOptionNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, "option not found")
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(chi.URLParam(r, "id"))
	if formID == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid form id")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, ref := range req.Order {
		if !ref.Kind.valid() {
			apiresp.WriteError(w, r, http.StatusBadRequest, "unknown question kind")
			return
		}
	}

	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		apiresp.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.svc.ApplyReorder(r.Context(), formID, user.ID, req.Order)
	if err != nil {
		if errors.Is(err, ErrFormNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, "form not found")
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, result)
}

func questionParams(r *http.Request) (Kind, int64, bool) {
	kind, ok := ParseKind(strings.TrimSpace(chi.URLParam(r, "kind")))
	if !ok {
		return "", 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return kind, id, true
}
