package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/migcruzz/Ipma-Expert/internal/chat"
	"github.com/migcruzz/Ipma-Expert/internal/ipma"
)

type mockChatService struct {
	result  chat.Result
	err     error
	gotText string
	called  bool
}

func (m *mockChatService) HandleMessage(ctx context.Context, text string) (chat.Result, error) {
	m.called = true
	m.gotText = text
	if m.err != nil {
		return chat.Result{}, m.err
	}
	return m.result, nil
}

func postChat(t *testing.T, h *Handler, message string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("mensagem", message)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.PostChat(rec, req)
	return rec
}

// TestPostChat_Success verifies the structured result is returned as JSON.
func TestPostChat_Success(t *testing.T) {
	svc := &mockChatService{result: chat.Result{
		UserMessage: "tempo no Porto",
		Reply:       "Vai estar bom tempo no Porto.",
	}}
	h := NewHandler(svc, zap.NewNop(), 500, nil)

	rec := postChat(t, h, "tempo no Porto")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got chat.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Reply != svc.result.Reply {
		t.Errorf("reply = %q", got.Reply)
	}
	if svc.gotText != "tempo no Porto" {
		t.Errorf("service received %q", svc.gotText)
	}
}

// TestPostChat_EmptyMessage verifies an empty message still reaches the
// pipeline (the apology branch lives there, not in the handler).
func TestPostChat_EmptyMessage(t *testing.T) {
	svc := &mockChatService{result: chat.Result{Reply: "Desculpa, não recebi nenhuma mensagem. Podes tentar novamente?"}}
	h := NewHandler(svc, zap.NewNop(), 500, nil)

	rec := postChat(t, h, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !svc.called {
		t.Error("pipeline not invoked for empty message")
	}
	if svc.gotText != "" {
		t.Errorf("service received %q, want empty", svc.gotText)
	}
}

// TestPostChat_MessageTooLong verifies oversized input is rejected before the
// pipeline runs.
func TestPostChat_MessageTooLong(t *testing.T) {
	svc := &mockChatService{}
	h := NewHandler(svc, zap.NewNop(), 10, nil)

	rec := postChat(t, h, strings.Repeat("a", 11))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if svc.called {
		t.Error("pipeline invoked for invalid message")
	}
	if !strings.Contains(rec.Body.String(), "INVALID_MESSAGE") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

// TestPostChat_UpstreamFailure verifies pipeline errors map to 503.
func TestPostChat_UpstreamFailure(t *testing.T) {
	svc := &mockChatService{err: ipma.ErrUpstreamFailure}
	h := NewHandler(svc, zap.NewNop(), 500, nil)

	rec := postChat(t, h, "tempo no Porto")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "UPSTREAM_UNAVAILABLE") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

// TestPostChat_Timeout verifies deadline errors map to 504.
func TestPostChat_Timeout(t *testing.T) {
	svc := &mockChatService{err: context.DeadlineExceeded}
	h := NewHandler(svc, zap.NewNop(), 500, nil)

	rec := postChat(t, h, "tempo no Porto")
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
}

// TestGetHealth covers healthy, degraded and shutting-down states.
func TestGetHealth(t *testing.T) {
	tests := []struct {
		name       string
		ping       func(ctx context.Context) error
		shutdown   bool
		wantStatus string
		wantCode   int
	}{
		{
			name:       "healthy",
			ping:       func(ctx context.Context) error { return nil },
			wantStatus: "healthy",
			wantCode:   http.StatusOK,
		},
		{
			name:       "degraded when upstream unreachable",
			ping:       func(ctx context.Context) error { return errors.New("connection refused") },
			wantStatus: "degraded",
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name:       "shutting down",
			ping:       func(ctx context.Context) error { return nil },
			shutdown:   true,
			wantStatus: "shutting-down",
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&mockChatService{}, zap.NewNop(), 500, tc.ping)
			h.SetShuttingDown(tc.shutdown)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			h.GetHealth(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tc.wantCode)
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tc.wantStatus)
			}
		})
	}
}

// TestCorrelationIDMiddleware verifies id propagation and generation.
func TestCorrelationIDMiddleware(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.Context().Value("correlation_id"); v != nil {
			seen = v.(string)
		}
	})
	mw := CorrelationIDMiddleware(zap.NewNop())(inner)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if seen != "abc-123" {
		t.Errorf("inbound id not propagated, got %q", seen)
	}
	if rec.Header().Get("X-Correlation-ID") != "abc-123" {
		t.Error("id not echoed in response header")
	}

	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("no id generated when absent")
	}
}
