package retrieval

import (
	"fmt"
	"strings"
)

// ContextBlock renders retrieved chunks as prompt context. Each chunk
// becomes a Source/Section/Content block; blocks are joined by blank lines.
func ContextBlock(chunks []RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		blocks = append(blocks, fmt.Sprintf("Source: %s\nSection: %s\nContent: %s",
			chunk.FileName, chunk.SectionTitle, chunk.Text))
	}
	return strings.Join(blocks, "\n\n")
}
