package generation

import "fmt"

// templateSuite builds the deterministic suite used when the model is
// unavailable or returned something unusable. Same query, same suite.
func templateSuite(query string) TestSuite {
	cases := []TestCase{
		{
			Title:    fmt.Sprintf("Generic Test Case for: %s", query),
			Summary:  "High-level validation of the queried functionality",
			TestType: TestTypeGeneric,
			Priority: PriorityMedium,
			Description: fmt.Sprintf("Validate the functionality described in the query: %s. "+
				"Refine with specific scenarios and validation criteria from the requirements.", query),
			Labels:     []string{"generic", "template"},
			Components: []string{},
		},
		{
			Title:         fmt.Sprintf("Functional Test: %s", query),
			Summary:       "Basic functional validation",
			TestType:      TestTypeFunctional,
			Priority:      PriorityHigh,
			Preconditions: "System is accessible",
			Labels:        []string{"functional", "template"},
			Steps: []TestStep{
				{
					Action:         "Initialize test environment",
					Data:           "Basic test setup",
					ExpectedResult: "Environment ready",
				},
				{
					Action:         "Execute main functionality",
					Data:           query,
					ExpectedResult: "Functionality works as expected",
				},
			},
			ExpectedResult: "Feature functions correctly",
			Components:     []string{"core"},
		},
		{
			Title:         fmt.Sprintf("Error Handling: %s", query),
			Summary:       "Error handling validation",
			TestType:      TestTypeGeneric,
			Priority:      PriorityMedium,
			Preconditions: "System in normal state",
			Description: fmt.Sprintf("Test error handling for %s. "+
				"Verify the system handles invalid inputs and error conditions gracefully.", query),
			Labels:     []string{"error-handling", "template"},
			Components: []string{},
		},
	}

	return TestSuite{
		Query:      query,
		TestCases:  cases,
		TotalCount: len(cases),
	}
}
