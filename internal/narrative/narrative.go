// Package narrative turns a day summary into conversational Portuguese prose
// via a local generative text backend (Ollama-compatible API).
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/migcruzz/Ipma-Expert/internal/models"
	"github.com/migcruzz/Ipma-Expert/internal/observability"
)

// Backend produces prose for a resolved single-location forecast.
type Backend interface {
	Describe(ctx context.Context, city string, today models.DaySummary) (string, error)
}

// ErrBackendFailure marks a failed narrative call. It is not recovered
// locally; the whole request fails as upstream-unavailable.
var ErrBackendFailure = errors.New("narrative backend failure")

// Generator calls an Ollama-style /api/generate endpoint.
type Generator struct {
	url     string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewGenerator returns a Generator posting to url with the given model name.
func NewGenerator(url, model string, timeout time.Duration) (*Generator, error) {
	if url == "" {
		return nil, fmt.Errorf("narrative: URL is required")
	}
	if model == "" {
		return nil, fmt.Errorf("narrative: model name is required")
	}
	return &Generator{
		url:     url,
		model:   model,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Describe builds the prompt for today's summary and returns the trimmed
// backend response.
func (g *Generator) Describe(ctx context.Context, city string, today models.DaySummary) (string, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Model:  g.model,
		Prompt: BuildPrompt(city, today),
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		observability.NarrativeCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		observability.NarrativeCallsTotal.WithLabelValues("error").Inc()
		observability.NarrativeDuration.Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}
	defer resp.Body.Close()

	observability.NarrativeDuration.Observe(time.Since(start).Seconds())
	if resp.StatusCode != http.StatusOK {
		observability.NarrativeCallsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: HTTP %d", ErrBackendFailure, resp.StatusCode)
	}
	observability.NarrativeCallsTotal.WithLabelValues("success").Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", ErrBackendFailure, err)
	}
	return strings.TrimSpace(out.Response), nil
}

// BuildPrompt renders the fixed single-language prompt for one day summary.
func BuildPrompt(city string, d models.DaySummary) string {
	return fmt.Sprintf(
		"Cidade: %s\n"+
			"Data: %s\n"+
			"Tempo: %s %s\n"+
			"Tª min: %s°C\n"+
			"Tª max: %s°C\n"+
			"Vento: %s\n"+
			"Precipitação: %s\n"+
			"Prob.: %s%%\n\n"+
			"Responde em português europeu, de forma simpática.",
		city, d.Date, d.WeatherDesc, d.Emoji, d.TempMin, d.TempMax,
		d.WindDir, d.PrecipDesc, d.PrecipProb,
	)
}
