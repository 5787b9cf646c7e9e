package document

import "strings"

// Document type labels attached to every chunk so retrieval can tell a
// requirements doc from an API spec.
const (
	DocTypePRD          = "PRD"
	DocTypeHLD          = "HLD"
	DocTypeLLD          = "LLD"
	DocTypeAPISpec      = "API_SPEC"
	DocTypeArchitecture = "ARCHITECTURE"
	DocTypeOther        = "OTHER"
)

// docTypeRules maps filename substrings to document types. Order matters:
// the first match wins, so "api_hld.md" classifies as PRD/HLD/LLD before
// API_SPEC would get a chance.
var docTypeRules = []struct {
	substr  string
	docType string
}{
	{"prd", DocTypePRD},
	{"hld", DocTypeHLD},
	{"lld", DocTypeLLD},
	{"api", DocTypeAPISpec},
	{"architecture", DocTypeArchitecture},
}

// DocTypeFor classifies a document by filename substring, case-insensitive.
func DocTypeFor(fileName string) string {
	lower := strings.ToLower(fileName)
	for _, rule := range docTypeRules {
		if strings.Contains(lower, rule.substr) {
			return rule.docType
		}
	}
	return DocTypeOther
}
