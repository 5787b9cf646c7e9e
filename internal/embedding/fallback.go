package embedding

import "crypto/sha256"

// FallbackVector derives a deterministic vector from the text itself. The
// digest chain expands SHA-256 output to Dimension bytes, each mapped into
// [0, 1]. The vectors carry no semantic signal, but identical text always
// produces the identical vector in every process, which keeps re-ingestion
// idempotent while the embedding service is down.
func FallbackVector(text string) []float32 {
	vec := make([]float32, Dimension)

	block := sha256.Sum256([]byte(text))
	i := 0
	for i < Dimension {
		for _, b := range block {
			vec[i] = float32(b) / 255.0
			i++
			if i == Dimension {
				break
			}
		}
		block = sha256.Sum256(block[:])
	}

	return vec
}
