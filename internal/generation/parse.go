package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanResponse strips markdown code fences and trims the text to the
// outermost JSON object. Models regularly wrap JSON in ```json fences or
// lead with prose before the object.
func cleanResponse(text string) (string, error) {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	if before, ok := strings.CutSuffix(strings.TrimSpace(text), "```"); ok {
		text = before
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return text[start : end+1], nil
}

// parseSuite decodes a model response into a test suite. The query is
// stamped onto the suite regardless of what the model echoed back.
func parseSuite(query, text string) (TestSuite, error) {
	cleaned, err := cleanResponse(text)
	if err != nil {
		return TestSuite{}, err
	}

	var suite TestSuite
	if err := json.Unmarshal([]byte(cleaned), &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to decode test suite: %w", err)
	}
	if len(suite.TestCases) == 0 {
		return TestSuite{}, fmt.Errorf("response contains no test cases")
	}

	suite.Query = query
	suite.normalize()
	return suite, nil
}
