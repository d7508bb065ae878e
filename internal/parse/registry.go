// Package parse segments classified documents into ordered event cards.
package parse

import (
	"fmt"

	"taskdigest/internal/detect"
	"taskdigest/internal/domain"
)

// Parser captures a single format strategy (standup, slack, email).
type Parser interface {
	Format() detect.Format
	Parse(text, docName string) []domain.EventCard
}

// Registry keeps a mapping from document formats to their parsers.
type Registry struct {
	parsers map[detect.Format]Parser
}

// NewRegistry builds a registry with all event parsers installed.
func NewRegistry() *Registry {
	r := &Registry{parsers: map[detect.Format]Parser{}}
	r.Register(StandupParser{})
	r.Register(SlackParser{})
	r.Register(EmailParser{})
	return r
}

// Register adds or replaces a parser implementation.
func (r *Registry) Register(p Parser) {
	if r.parsers == nil {
		r.parsers = map[detect.Format]Parser{}
	}
	r.parsers[p.Format()] = p
}

// Resolve returns a parser by format or an error if none is registered.
func (r *Registry) Resolve(f detect.Format) (Parser, error) {
	if p, ok := r.parsers[f]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no parser registered for format %s", f)
}
