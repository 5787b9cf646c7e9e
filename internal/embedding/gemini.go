package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GeminiProvider is a client for the Gemini embedContent API.
type GeminiProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewGeminiProvider creates a new Gemini embedding client.
func NewGeminiProvider(baseURL, apiKey, model string) *GeminiProvider {
	return &GeminiProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// embedContentRequest represents the request payload for the embedContent API.
type embedContentRequest struct {
	Content embedContentParts `json:"content"`
}

type embedContentParts struct {
	Parts []embedContentPart `json:"parts"`
}

type embedContentPart struct {
	Text string `json:"text"`
}

// embedContentResponse represents the response from the embedContent API.
type embedContentResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Embed generates the embedding vector for a single text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:embedContent?key=%s", p.BaseURL, p.Model, p.APIKey)

	payload := embedContentRequest{
		Content: embedContentParts{
			Parts: []embedContentPart{{Text: text}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embedResp embedContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	values := embedResp.Embedding.Values
	if len(values) != Dimension {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(values), Dimension)
	}

	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimension returns the vector size produced by the embedding model.
func (p *GeminiProvider) Dimension() int {
	return Dimension
}
