// Package embed turns text into embedding vectors through an Ollama-style
// HTTP endpoint.
package embed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/hammamikhairi/ottomart/internal/logger"
)

const defaultTimeout = 30 * time.Second

// OllamaEmbedder calls POST {BaseURL}/api/embed.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
	log     *logger.Logger
}

// NewOllamaEmbedder creates an embedder. A non-positive timeout uses 30s.
func NewOllamaEmbedder(baseURL, model string, timeout time.Duration, log *logger.Logger) *OllamaEmbedder {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OllamaEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns one vector per input text, in order.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	start := time.Now()

	body, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Error("embed call failed after %s: %v", time.Since(start), err)
		return nil, fmt.Errorf("calling embedder: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedder returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(out.Embeddings), len(texts))
	}

	e.log.Debug("embedded %d texts with %s in %s", len(texts), e.model, time.Since(start))
	return out.Embeddings, nil
}

// Model returns the embedding model name.
func (e *OllamaEmbedder) Model() string {
	return e.model
}
