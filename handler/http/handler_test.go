package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	handlerhttp "adminrag/handler/http"
	"adminrag/src/core/rag"
)

type fakeAnswerService struct {
	answer *rag.Answer
	err    error

	lastQuestion string
	lastK        int
	calls        int
}

func (f *fakeAnswerService) Answer(_ context.Context, question string, k int) (*rag.Answer, error) {
	f.calls++
	f.lastQuestion = question
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

type fakeIndex struct {
	count    int64
	countErr error
}

func (f *fakeIndex) Upsert(_ context.Context, _ []rag.IndexedChunk) error { return nil }

func (f *fakeIndex) Query(_ context.Context, _ []float32, _ int) ([]rag.Passage, error) {
	return nil, nil
}

func (f *fakeIndex) Count(_ context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func newTestRouter(svc handlerhttp.AnswerService, index rag.VectorIndex) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlerhttp.NewHandler(svc, index, nil).RegisterRoutes(r)
	return r
}

func postQuestion(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/question/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostQuestionValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{
			name:        "malformed json",
			body:        `{"question": `,
			wantMessage: "Format JSON invalide",
		},
		{
			name:        "missing question",
			body:        `{}`,
			wantMessage: "La question ne peut pas être vide",
		},
		{
			name:        "blank question",
			body:        `{"question": "   "}`,
			wantMessage: "La question ne peut pas être vide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAnswerService{answer: &rag.Answer{Text: "ok"}}
			w := postQuestion(t, newTestRouter(svc, &fakeIndex{}), tt.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}

			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if resp.Success {
				t.Error("success = true on a rejected request")
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if svc.calls != 0 {
				t.Errorf("pipeline invoked %d times on a rejected request", svc.calls)
			}
		})
	}
}

func TestPostQuestionResultCount(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		wantK int
	}{
		{
			name:  "absent defaults to three",
			body:  `{"question": "Comment obtenir un passeport ?"}`,
			wantK: 3,
		},
		{
			name:  "explicit value",
			body:  `{"question": "Comment obtenir un passeport ?", "n_resultats": 5}`,
			wantK: 5,
		},
		{
			name:  "zero falls back to default",
			body:  `{"question": "Comment obtenir un passeport ?", "n_resultats": 0}`,
			wantK: 3,
		},
		{
			name:  "negative falls back to default",
			body:  `{"question": "Comment obtenir un passeport ?", "n_resultats": -2}`,
			wantK: 3,
		},
		{
			name:  "non-integer falls back to default",
			body:  `{"question": "Comment obtenir un passeport ?", "n_resultats": 2.5}`,
			wantK: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAnswerService{answer: &rag.Answer{Text: "ok", Sources: []string{}, Passages: []rag.Passage{}}}
			w := postQuestion(t, newTestRouter(svc, &fakeIndex{}), tt.body)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
			}
			if svc.lastK != tt.wantK {
				t.Errorf("pipeline called with k = %d, want %d", svc.lastK, tt.wantK)
			}
		})
	}
}

func TestPostQuestionSuccess(t *testing.T) {
	svc := &fakeAnswerService{answer: &rag.Answer{
		Text:    "Le passeport se demande en mairie.",
		Sources: []string{"passeport.pdf"},
		Passages: []rag.Passage{
			{Text: "Le passeport se demande en mairie.", Source: "passeport.pdf", Distance: 0.12},
		},
	}}
	w := postQuestion(t, newTestRouter(svc, &fakeIndex{}), `{"question": "Comment obtenir un passeport ?"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Success   bool     `json:"success"`
		Question  string   `json:"question"`
		Reponse   string   `json:"reponse"`
		Sources   []string `json:"sources"`
		Contextes []struct {
			Texte    string  `json:"texte"`
			Source   string  `json:"source"`
			Distance float64 `json:"distance"`
		} `json:"contextes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Question != "Comment obtenir un passeport ?" {
		t.Errorf("question = %q", resp.Question)
	}
	if resp.Reponse != svc.answer.Text {
		t.Errorf("reponse = %q, want %q", resp.Reponse, svc.answer.Text)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "passeport.pdf" {
		t.Errorf("sources = %v", resp.Sources)
	}
	if len(resp.Contextes) != 1 {
		t.Fatalf("contextes count = %d, want 1", len(resp.Contextes))
	}
	if resp.Contextes[0].Source != "passeport.pdf" || resp.Contextes[0].Distance != 0.12 {
		t.Errorf("contexte = %+v", resp.Contextes[0])
	}
}

func TestPostQuestionDegradedAnswerStillOK(t *testing.T) {
	svc := &fakeAnswerService{answer: &rag.Answer{
		Text:     rag.NoContextAnswer,
		Sources:  []string{},
		Passages: []rag.Passage{},
	}}
	w := postQuestion(t, newTestRouter(svc, &fakeIndex{}), `{"question": "Question sans réponse ?"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), rag.NoContextAnswer) {
		t.Errorf("body missing fallback answer: %s", w.Body.String())
	}
}

func TestPostQuestionPipelineError(t *testing.T) {
	svc := &fakeAnswerService{err: errors.New("boom")}
	w := postQuestion(t, newTestRouter(svc, &fakeIndex{}), `{"question": "Comment obtenir un passeport ?"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "Erreur serveur") {
		t.Errorf("body missing server error message: %s", w.Body.String())
	}
}

func TestCheckHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := newTestRouter(&fakeAnswerService{}, &fakeIndex{count: 42})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var resp struct {
			Status string `json:"status"`
			Chunks int64  `json:"chunks"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp.Status != "ok" || resp.Chunks != 42 {
			t.Errorf("health = %+v, want ok with 42 chunks", resp)
		}
	})

	t.Run("index unreachable", func(t *testing.T) {
		r := newTestRouter(&fakeAnswerService{}, &fakeIndex{countErr: errors.New("down")})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}

func TestListDocumentsWithoutCatalog(t *testing.T) {
	r := newTestRouter(&fakeAnswerService{}, &fakeIndex{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
