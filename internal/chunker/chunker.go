// Package chunker splits section text into embeddable pieces.
package chunker

import (
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// encodingName is the tokenizer used to bound chunk sizes.
	encodingName = "cl100k_base"
	// DefaultMaxTokens bounds a chunk when the tokenizer is available.
	DefaultMaxTokens = 800
	// fallbackWindow is the word-count bound when the tokenizer is not
	// available. Word windows are joined with single spaces, so the
	// fallback is deterministic across processes.
	fallbackWindow = 500
)

// Chunker splits text into token-bounded pieces, degrading to fixed word
// windows when the tokenizer cannot be initialized.
type Chunker struct {
	maxTokens int
	enc       *tiktoken.Tiktoken
}

// New creates a chunker. maxTokens <= 0 selects DefaultMaxTokens. Tokenizer
// initialization failure is logged once here; every later Split uses the
// word-window fallback.
func New(maxTokens int, logger *slog.Logger) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		logger.Warn("tokenizer unavailable, using word-window chunking",
			"encoding", encodingName, "error", err)
		enc = nil
	}

	return &Chunker{
		maxTokens: maxTokens,
		enc:       enc,
	}
}

// Split breaks text into chunks. Every returned chunk is non-empty after
// trimming; empty input returns nil.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if c.enc != nil {
		return c.splitTokens(text)
	}
	return c.splitWords(text)
}

func (c *Chunker) splitTokens(text string) []string {
	tokens := c.enc.Encode(text, nil, nil)

	var chunks []string
	for start := 0; start < len(tokens); start += c.maxTokens {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		piece := strings.TrimSpace(c.enc.Decode(tokens[start:end]))
		if piece == "" {
			continue
		}
		chunks = append(chunks, piece)
	}
	return chunks
}

func (c *Chunker) splitWords(text string) []string {
	words := strings.Fields(text)

	var chunks []string
	for start := 0; start < len(words); start += fallbackWindow {
		end := start + fallbackWindow
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
