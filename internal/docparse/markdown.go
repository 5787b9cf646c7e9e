// Package docparse turns markdown source into ordered document sections.
package docparse

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"graphrag/internal/document"
)

// Parser extracts heading-delimited sections from markdown documents.
// Plain text documents go through the same path: their heading-style lines
// become section boundaries and everything else is body text.
type Parser struct {
	md goldmark.Markdown
}

// New creates a section parser.
func New() *Parser {
	return &Parser{
		md: goldmark.New(),
	}
}

// ExtractFile reads a document from disk and splits it into sections.
func (p *Parser) ExtractFile(path string) ([]document.Section, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return p.Extract(filepath.Base(path), raw), nil
}

// Extract splits document content into sections with positional IDs.
// Content before the first heading becomes a synthesized "Introduction"
// section; a document with no headings at all becomes a single section
// titled with the file name. Whitespace-only content yields no sections.
func (p *Parser) Extract(fileName string, raw []byte) []document.Section {
	src := normalizeLineEndings(raw)
	if len(bytes.TrimSpace(src)) == 0 {
		return nil
	}

	headings := p.findHeadings(src)
	if len(headings) == 0 {
		return []document.Section{
			newSection(0, fileName, strings.TrimSpace(string(src))),
		}
	}

	var sections []document.Section
	if preamble := strings.TrimSpace(string(src[:headings[0].offset])); preamble != "" {
		sections = append(sections, newSection(len(sections), "Introduction", preamble))
	}

	for i, h := range headings {
		end := len(src)
		if i+1 < len(headings) {
			end = headings[i+1].offset
		}
		// The heading line stays in the content so a retitled section
		// fingerprints as modified.
		content := strings.TrimSpace(string(src[h.offset:end]))
		if content == "" {
			continue
		}
		title := h.title
		if title == "" {
			title = "Untitled Section"
		}
		sections = append(sections, newSection(len(sections), title, content))
	}

	return sections
}

// headingMark is a section boundary: the byte offset of a heading's line
// start and its extracted title text.
type headingMark struct {
	offset int
	title  string
}

// findHeadings parses the source and records every top-level heading.
// Walking the AST instead of scanning lines keeps hash-prefixed lines inside
// fenced code blocks from being mistaken for section boundaries.
func (p *Parser) findHeadings(src []byte) []headingMark {
	reader := text.NewReader(src)
	doc := p.md.Parser().Parse(reader)

	var marks []headingMark
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		if heading.Lines().Len() == 0 {
			// No source segment to anchor a boundary on.
			continue
		}
		seg := heading.Lines().At(0)
		marks = append(marks, headingMark{
			offset: lineStart(src, seg.Start),
			title:  headingText(heading, src),
		})
	}
	return marks
}

func newSection(id int, title, content string) document.Section {
	return document.Section{
		ID:         id,
		Title:      title,
		Content:    content,
		Hash:       document.Fingerprint(content),
		Paragraphs: SplitParagraphs(content),
	}
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// SplitParagraphs splits section content on blank lines, dropping pieces
// that are empty after trimming.
func SplitParagraphs(content string) []string {
	var paragraphs []string
	for _, part := range blankLine.Split(content, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		paragraphs = append(paragraphs, part)
	}
	return paragraphs
}

// lineStart returns the offset of the first byte of the line containing off.
func lineStart(src []byte, off int) int {
	if off > len(src) {
		off = len(src)
	}
	return bytes.LastIndexByte(src[:off], '\n') + 1
}

// headingText extracts the plain text of a heading node.
func headingText(n ast.Node, src []byte) string {
	var sb strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

func normalizeLineEndings(raw []byte) []byte {
	return bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
}
