// Package generation turns retrieved documentation context into structured
// test suites via the Gemini generateContent API, with a deterministic
// template suite covering offline and malformed-response paths.
package generation

// TestType classifies a generated test case.
type TestType string

const (
	TestTypeFunctional  TestType = "functional"
	TestTypeIntegration TestType = "integration"
	TestTypeAPI         TestType = "api"
	TestTypeUI          TestType = "ui"
	TestTypePerformance TestType = "performance"
	TestTypeSecurity    TestType = "security"
	TestTypeGeneric     TestType = "generic"
)

// valid reports whether the value is one of the known test types.
func (t TestType) valid() bool {
	switch t {
	case TestTypeFunctional, TestTypeIntegration, TestTypeAPI, TestTypeUI,
		TestTypePerformance, TestTypeSecurity, TestTypeGeneric:
		return true
	}
	return false
}

// Priority ranks a test case.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TestStep is one step of a structured test case. Data holds the step's
// input and may be a string or a JSON object, whichever the model chose.
type TestStep struct {
	Action         string `json:"action"`
	Data           any    `json:"data,omitempty"`
	ExpectedResult string `json:"expected_result"`
}

// TestCase is a single generated test. Generic cases carry a free-form
// Description and no Steps; structured cases carry Steps and an overall
// ExpectedResult.
type TestCase struct {
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	TestType       TestType   `json:"test_type"`
	Priority       Priority   `json:"priority"`
	Preconditions  string     `json:"preconditions,omitempty"`
	Description    string     `json:"description,omitempty"`
	Labels         []string   `json:"labels"`
	Steps          []TestStep `json:"steps,omitempty"`
	ExpectedResult string     `json:"expected_result,omitempty"`
	Components     []string   `json:"components"`
}

// TestSuite is the full generation result for one query.
type TestSuite struct {
	Query      string     `json:"query"`
	TestCases  []TestCase `json:"test_cases"`
	TotalCount int        `json:"total_count"`
}

// normalize repairs the fields a model response commonly gets wrong:
// unknown enum values degrade to generic/medium and TotalCount is aligned
// with the actual case count.
func (s *TestSuite) normalize() {
	for i := range s.TestCases {
		if !s.TestCases[i].TestType.valid() {
			s.TestCases[i].TestType = TestTypeGeneric
		}
		if !s.TestCases[i].Priority.valid() {
			s.TestCases[i].Priority = PriorityMedium
		}
		if s.TestCases[i].Labels == nil {
			s.TestCases[i].Labels = []string{}
		}
		if s.TestCases[i].Components == nil {
			s.TestCases[i].Components = []string{}
		}
	}
	s.TotalCount = len(s.TestCases)
}
