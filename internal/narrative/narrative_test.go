package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/migcruzz/Ipma-Expert/internal/models"
)

var testDay = models.DaySummary{
	Date:        "2026-08-25",
	TempMin:     "17.2",
	TempMax:     "26.9",
	WindDir:     "NW",
	WeatherDesc: "Céu limpo",
	PrecipDesc:  "Sem dados",
	PrecipProb:  "0",
	Emoji:       "☀️",
}

// TestBuildPrompt verifies every summary field lands in the prompt along with
// the fixed instruction line.
func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Porto", testDay)

	for _, want := range []string{
		"Cidade: Porto",
		"Data: 2026-08-25",
		"Tempo: Céu limpo ☀️",
		"Tª min: 17.2°C",
		"Tª max: 26.9°C",
		"Vento: NW",
		"Precipitação: Sem dados",
		"Prob.: 0%",
		"Responde em português europeu, de forma simpática.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

// TestDescribe verifies request payload, response parsing and trimming.
func TestDescribe(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  Vai estar um dia bonito no Porto!  \n"})
	}))
	defer srv.Close()

	g, err := NewGenerator(srv.URL, "mistral", 2*time.Second)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	got, err := g.Describe(context.Background(), "Porto", testDay)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got != "Vai estar um dia bonito no Porto!" {
		t.Errorf("Describe = %q, want trimmed prose", got)
	}
	if gotReq.Model != "mistral" {
		t.Errorf("request model = %q", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("request stream = true, want false")
	}
	if !strings.Contains(gotReq.Prompt, "Cidade: Porto") {
		t.Errorf("request prompt missing city: %q", gotReq.Prompt)
	}
}

// TestDescribe_BackendFailure verifies non-200 responses propagate as
// ErrBackendFailure with no local recovery.
func TestDescribe_BackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g, err := NewGenerator(srv.URL, "mistral", 2*time.Second)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	_, err = g.Describe(context.Background(), "Porto", testDay)
	if !errors.Is(err, ErrBackendFailure) {
		t.Fatalf("err = %v, want ErrBackendFailure", err)
	}
}

// TestNewGenerator_Validation verifies constructor preconditions.
func TestNewGenerator_Validation(t *testing.T) {
	if _, err := NewGenerator("", "mistral", time.Second); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := NewGenerator("http://localhost:11434/api/generate", "", time.Second); err == nil {
		t.Error("expected error for empty model")
	}
}
