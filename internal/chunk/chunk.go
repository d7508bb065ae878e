// Package chunk cuts text into overlapping bounded-length slices for the
// enrichment collaborator.
package chunk

import (
	"strings"

	"taskdigest/internal/domain"
)

// EventChunk is one slice of an event card's raw text.
type EventChunk struct {
	Kind domain.EventKind
	Src  string
	ID   int
	Text string
}

// DocChunk is one slice of a generic document.
type DocChunk struct {
	DocName string
	ID      int
	Text    string
}

// Split cuts text into trimmed slices of at most maxChars characters, each
// overlapping the previous by overlap characters.
func Split(text string, maxChars, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxChars <= 0 {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	var out []string

	start := 0
	for start < n {
		end := start + maxChars
		if end > n {
			end = n
		}
		if part := strings.TrimSpace(string(runes[start:end])); part != "" {
			out = append(out, part)
		}
		if end >= n {
			break
		}
		next := end - overlap
		if next <= start {
			// overlap >= maxChars would stall; fall back to contiguous slices
			next = end
		}
		start = next
	}

	return out
}

// FromCards chunks each card's raw text, numbering chunks per card in order.
func FromCards(cards []domain.EventCard, maxChars, overlap int) []EventChunk {
	var out []EventChunk
	for _, c := range cards {
		raw := strings.TrimSpace(c.RawText)
		if c.Src == "" || c.Kind == "" || raw == "" {
			continue
		}
		for i, part := range Split(raw, maxChars, overlap) {
			out = append(out, EventChunk{Kind: c.Kind, Src: c.Src, ID: i, Text: part})
		}
	}
	return out
}

// FromDocuments chunks generic documents, numbering chunks per document.
func FromDocuments(docs []domain.Document, maxChars, overlap int) []DocChunk {
	var out []DocChunk
	for _, d := range docs {
		for i, part := range Split(d.Text, maxChars, overlap) {
			out = append(out, DocChunk{DocName: d.Name, ID: i, Text: part})
		}
	}
	return out
}
