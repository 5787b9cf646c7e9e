package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"graphrag/internal/contextutil"
)

const promptTemplate = `You are an expert test case designer. Using the provided context, generate comprehensive test cases for the user query.

Generate 5-8 test cases covering different scenarios and test types:
- Generic test cases (high-level, unstructured definitions)
- Functional test cases (detailed steps)
- Edge cases and boundary conditions
- Error handling scenarios
- Integration scenarios (if applicable)

Generic cases carry a description and no steps. Structured cases carry steps with actions, data and expected results.

Return only a valid JSON object matching this exact schema:
{
  "query": "the user query",
  "test_cases": [
    {
      "title": "Descriptive test case title",
      "summary": "What this test validates",
      "test_type": "generic|functional|integration|api|ui|performance|security",
      "priority": "high|medium|low",
      "preconditions": "Setup requirements, omit if none",
      "description": "Unstructured definition for generic tests, omit otherwise",
      "labels": ["label1"],
      "steps": [
        {"action": "Step description", "data": "Input data", "expected_result": "What should happen"}
      ],
      "expected_result": "Overall expected outcome, omit for generic tests",
      "components": ["component1"]
    }
  ],
  "total_count": 0
}

Context from documentation:
%s

User Query: %s`

// Generator produces test suites from retrieved context via the Gemini
// generateContent API. An empty API key puts the generator in offline mode,
// answering every query with the template suite.
type Generator struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewGenerator creates a new test suite generator.
func NewGenerator(baseURL, apiKey, model string) *Generator {
	return &Generator{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// generateRequest represents the request payload for the generateContent API.
type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

// generateResponse represents the response from the generateContent API.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate produces a test suite for the query grounded in contextBlock.
// Model failures degrade to the deterministic template suite so callers
// always receive a usable answer; only context cancellation is an error.
func (g *Generator) Generate(ctx context.Context, query, contextBlock string) (TestSuite, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if g.APIKey == "" {
		logger.InfoContext(ctx, "no generation API key configured, using template suite")
		return templateSuite(query), nil
	}

	text, err := g.generateContent(ctx, fmt.Sprintf(promptTemplate, contextBlock, query))
	if err != nil {
		if ctx.Err() != nil {
			return TestSuite{}, ctx.Err()
		}
		logger.WarnContext(ctx, "generation call failed, using template suite", "error", err)
		return templateSuite(query), nil
	}

	suite, err := parseSuite(query, text)
	if err != nil {
		logger.WarnContext(ctx, "failed to parse generated suite, using template suite", "error", err)
		return templateSuite(query), nil
	}

	logger.InfoContext(ctx, "test suite generated",
		"query", query,
		"test_cases", suite.TotalCount,
	)
	return suite, nil
}

// generateContent calls the Gemini generateContent endpoint and returns the
// first candidate's text.
func (g *Generator) generateContent(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.APIKey)

	payload := generateRequest{
		Contents: []requestContent{
			{Parts: []requestPart{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}
