package response

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"formlab/internal/question"

	"github.com/go-chi/chi/v5"
)

type mockLoader struct {
	loadFn func(ctx context.Context, formID string) (*question.FormQuestions, error)
}

func (m *mockLoader) LoadQuestionsPublic(ctx context.Context, formID string) (*question.FormQuestions, error) {
	return m.loadFn(ctx, formID)
}

type mockSubmitService struct {
	submitFn func(ctx context.Context, formID string, responses []ClientResponse) error
}

func (m *mockSubmitService) SubmitResponses(ctx context.Context, formID string, responses []ClientResponse) error {
	return m.submitFn(ctx, formID, responses)
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestLoadCompletionUnknownForm(t *testing.T) {
	h := NewHandler(&mockLoader{
		loadFn: func(ctx context.Context, formID string) (*question.FormQuestions, error) {
			return nil, question.ErrFormNotFound
		},
	}, &mockSubmitService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/completion/nope", nil)
	req = withChiParam(req, "id", "nope")
	w := httptest.NewRecorder()

	h.Load(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSubmitCountMismatchIs422(t *testing.T) {
	h := NewHandler(&mockLoader{}, &mockSubmitService{
		submitFn: func(ctx context.Context, formID string, responses []ClientResponse) error {
			return ErrCountMismatch
		},
	})

	payload := []byte(`{"responses":[{"kind":"text","question_id":1,"text":"hi"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/completion/f-1", bytes.NewReader(payload))
	req = withChiParam(req, "id", "f-1")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestSubmitAcceptsBatch(t *testing.T) {
	var got []ClientResponse
	h := NewHandler(&mockLoader{}, &mockSubmitService{
		submitFn: func(ctx context.Context, formID string, responses []ClientResponse) error {
			got = responses
			return nil
		},
	})

	payload := []byte(`{"responses":[
		{"kind":"choice","question_id":1,"option_id":10},
		{"kind":"ranking","question_id":2,"ranking":[21,20]}
	]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/completion/f-1", bytes.NewReader(payload))
	req = withChiParam(req, "id", "f-1")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(got) != 2 || got[1].Kind != question.KindRanking || len(got[1].Ranking) != 2 {
		t.Fatalf("unexpected decoded batch: %+v", got)
	}
}

func TestSubmitRejectsBadBody(t *testing.T) {
	called := false
	h := NewHandler(&mockLoader{}, &mockSubmitService{
		submitFn: func(ctx context.Context, formID string, responses []ClientResponse) error {
			called = true
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/completion/f-1", bytes.NewReader([]byte(`{"responses":`)))
	req = withChiParam(req, "id", "f-1")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if called {
		t.Fatalf("service should not be called for a malformed body")
	}
}
