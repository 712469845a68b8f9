package question

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"formlab/internal/auth"

	"github.com/go-chi/chi/v5"
)

type mockQuestionService struct {
	loadQuestionsFn       func(ctx context.Context, formID string, requestorID int64) (*FormQuestions, error)
	createQuestionFn      func(ctx context.Context, in CreateQuestionInput) (*Question, error)
	updateQuestionFn      func(ctx context.Context, in UpdateQuestionInput) error
	deleteQuestionFn      func(ctx context.Context, kind Kind, questionID, ownerID int64) error
	addChoiceOptionFn     func(ctx context.Context, choiceID, ownerID int64, text string, orderIndex int) (*Option, error)
	deleteChoiceOptionFn  func(ctx context.Context, optionID, ownerID int64) error
	addRankingOptionFn    func(ctx context.Context, rankingID, ownerID int64, text string, orderIndex int) (*Option, error)
	deleteRankingOptionFn func(ctx context.Context, optionID, ownerID int64) error
	applyReorderFn        func(ctx context.Context, formID string, requestorID int64, refs []QuestionRef) (*ReorderResult, error)
}

func (m *mockQuestionService) LoadQuestions(ctx context.Context, formID string, requestorID int64) (*FormQuestions, error) {
	if m.loadQuestionsFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.loadQuestionsFn(ctx, formID, requestorID)
}

func (m *mockQuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*Question, error) {
	if m.createQuestionFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.createQuestionFn(ctx, in)
}

func (m *mockQuestionService) UpdateQuestion(ctx context.Context, in UpdateQuestionInput) error {
	if m.updateQuestionFn == nil {
		return errors.New("not implemented")
	}
	return m.updateQuestionFn(ctx, in)
}

func (m *mockQuestionService) DeleteQuestion(ctx context.Context, kind Kind, questionID, ownerID int64) error {
	if m.deleteQuestionFn == nil {
		return errors.New("not implemented")
	}
	return m.deleteQuestionFn(ctx, kind, questionID, ownerID)
}

func (m *mockQuestionService) AddChoiceOption(ctx context.Context, choiceID, ownerID int64, text string, orderIndex int) (*Option, error) {
	if m.addChoiceOptionFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.addChoiceOptionFn(ctx, choiceID, ownerID, text, orderIndex)
}

func (m *mockQuestionService) DeleteChoiceOption(ctx context.Context, optionID, ownerID int64) error {
	if m.deleteChoiceOptionFn == nil {
		return errors.New("not implemented")
	}
	return m.deleteChoiceOptionFn(ctx, optionID, ownerID)
}

func (m *mockQuestionService) AddRankingOption(ctx context.Context, rankingID, ownerID int64, text string, orderIndex int) (*Option, error) {
	if m.addRankingOptionFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.addRankingOptionFn(ctx, rankingID, ownerID, text, orderIndex)
}

func (m *mockQuestionService) DeleteRankingOption(ctx context.Context, optionID, ownerID int64) error {
	if m.deleteRankingOptionFn == nil {
		return errors.New("not implemented")
	}
	return m.deleteRankingOptionFn(ctx, optionID, ownerID)
}

func (m *mockQuestionService) ApplyReorder(ctx context.Context, formID string, requestorID int64, refs []QuestionRef) (*ReorderResult, error) {
	if m.applyReorderFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.applyReorderFn(ctx, formID, requestorID, refs)
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asOwner(r *http.Request, id int64) *http.Request {
	return r.WithContext(auth.ContextWithUser(r.Context(), &auth.User{ID: id, Username: "owner"}))
}

func TestLoadReturnsMergedQuestions(t *testing.T) {
	h := NewHandler(&mockQuestionService{
		loadQuestionsFn: func(ctx context.Context, formID string, requestorID int64) (*FormQuestions, error) {
			if formID != "f-1" || requestorID != 7 {
				t.Fatalf("unexpected args: %s %d", formID, requestorID)
			}
			return &FormQuestions{
				FormName: "Survey",
				Questions: []Question{
					{Kind: KindText, ID: 2, Text: "Why?", OrderIndex: 0},
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/f-1/questions", nil)
	req = withChiParam(req, "id", "f-1")
	req = asOwner(req, 7)
	w := httptest.NewRecorder()

	h.Load(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLoadUnknownFormIs404(t *testing.T) {
	h := NewHandler(&mockQuestionService{
		loadQuestionsFn: func(ctx context.Context, formID string, requestorID int64) (*FormQuestions, error) {
			return nil, ErrFormNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/nope/questions", nil)
	req = withChiParam(req, "id", "nope")
	req = asOwner(req, 7)
	w := httptest.NewRecorder()

	h.Load(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateQuestionPassesParsedKind(t *testing.T) {
	var got CreateQuestionInput
	h := NewHandler(&mockQuestionService{
		createQuestionFn: func(ctx context.Context, in CreateQuestionInput) (*Question, error) {
			got = in
			return &Question{Kind: in.Kind, ID: 11, Text: in.Text, Editable: true}, nil
		},
	})

	payload, _ := json.Marshal(createQuestionRequest{
		Kind:     "ranking",
		Question: "Rank these",
		Options:  []string{"a", "b"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/f-1/questions", bytes.NewReader(payload))
	req = withChiParam(req, "id", "f-1")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if got.Kind != KindRanking || got.FormID != "f-1" || got.OwnerID != 3 {
		t.Fatalf("unexpected input: %+v", got)
	}
	if len(got.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(got.Options))
	}
}

func TestCreateQuestionRejectsUnknownKind(t *testing.T) {
	called := false
	h := NewHandler(&mockQuestionService{
		createQuestionFn: func(ctx context.Context, in CreateQuestionInput) (*Question, error) {
			called = true
			return nil, nil
		},
	})

	payload := []byte(`{"kind":"matrix","question":"?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/f-1/questions", bytes.NewReader(payload))
	req = withChiParam(req, "id", "f-1")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if called {
		t.Fatalf("service should not be called for an unknown kind")
	}
}

func TestUpdateQuestionNotFound(t *testing.T) {
	h := NewHandler(&mockQuestionService{
		updateQuestionFn: func(ctx context.Context, in UpdateQuestionInput) error {
			return ErrQuestionNotFound
		},
	})

	payload := []byte(`{"question":"new text","order_index":1}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/questions/text/42", bytes.NewReader(payload))
	req = withChiParam(req, "kind", "text")
	req = withChiParam(req, "id", "42")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteQuestionInvalidRef(t *testing.T) {
	h := NewHandler(&mockQuestionService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/questions/text/abc", nil)
	req = withChiParam(req, "kind", "text")
	req = withChiParam(req, "id", "abc")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReorderReportsPartialFailure(t *testing.T) {
	h := NewHandler(&mockQuestionService{
		applyReorderFn: func(ctx context.Context, formID string, requestorID int64, refs []QuestionRef) (*ReorderResult, error) {
			if len(refs) != 2 {
				t.Fatalf("expected 2 refs, got %d", len(refs))
			}
			return &ReorderResult{Updated: 1, Failed: []QuestionRef{refs[1]}}, nil
		},
	})

	payload := []byte(`{"order":[{"kind":"choice","id":1},{"kind":"date","id":9}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/forms/f-1/order", bytes.NewReader(payload))
	req = withChiParam(req, "id", "f-1")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.Reorder(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var envelope struct {
		Data ReorderResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data.Updated != 1 || len(envelope.Data.Failed) != 1 {
		t.Fatalf("unexpected result: %+v", envelope.Data)
	}
}

func TestReorderRejectsUnknownKindInBody(t *testing.T) {
	called := false
	h := NewHandler(&mockQuestionService{
		applyReorderFn: func(ctx context.Context, formID string, requestorID int64, refs []QuestionRef) (*ReorderResult, error) {
			called = true
			return &ReorderResult{}, nil
		},
	})

	payload := []byte(`{"order":[{"kind":"matrix","id":1}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/forms/f-1/order", bytes.NewReader(payload))
	req = withChiParam(req, "id", "f-1")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.Reorder(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if called {
		t.Fatalf("service should not be called with an invalid kind")
	}
}

func TestAddRankOptionPassesArgs(t *testing.T) {
	h := NewHandler(&mockQuestionService{
		addRankingOptionFn: func(ctx context.Context, rankingID, ownerID int64, text string, orderIndex int) (*Option, error) {
			if rankingID != 8 || ownerID != 3 || text != "gamma" || orderIndex != 2 {
				t.Fatalf("unexpected args: %d %d %q %d", rankingID, ownerID, text, orderIndex)
			}
			return &Option{ID: 31, Text: text, OrderIndex: orderIndex}, nil
		},
	})

	payload := []byte(`{"text":"gamma","order_index":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rankings/8/options", bytes.NewReader(payload))
	req = withChiParam(req, "id", "8")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.AddRankOption(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
}

func TestDeleteRankOptionNotFound(t *testing.T) {
	h := NewHandler(&mockQuestionService{
		deleteRankingOptionFn: func(ctx context.Context, optionID, ownerID int64) error {
			return ErrOptionNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rank-options/31", nil)
	req = withChiParam(req, "id", "31")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.DeleteRankOption(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAddOptionNotOwner(t *testing.T) {
	h := NewHandler(&mockQuestionService{
		addChoiceOptionFn: func(ctx context.Context, choiceID, ownerID int64, text string, orderIndex int) (*Option, error) {
			return nil, ErrQuestionNotFound
		},
	})

	payload := []byte(`{"text":"maybe","order_index":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/choices/5/options", bytes.NewReader(payload))
	req = withChiParam(req, "id", "5")
	req = asOwner(req, 3)
	w := httptest.NewRecorder()

	h.AddOption(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
