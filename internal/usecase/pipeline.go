package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdigest/internal/aggregate"
	"taskdigest/internal/chunk"
	"taskdigest/internal/detect"
	"taskdigest/internal/domain"
	"taskdigest/internal/parse"
	"taskdigest/internal/ports"
	"taskdigest/internal/report"
)

// PipelineDeps wires all collaborators into the digest pipeline. Source,
// Registry, Aggregator and Builder are required; everything else is
// optional and nil-safe.
type PipelineDeps struct {
	Source     ports.DocumentSource
	Extractor  ports.Extractor
	Summarizer ports.Summarizer
	Renderer   ports.Renderer
	Artifacts  ports.ArtifactStore
	Repository ports.ReportRepository
	Notifier   ports.Notifier

	Registry   *parse.Registry
	Aggregator *aggregate.Aggregator
	Builder    *report.Builder

	MaxChars    int
	Overlap     int
	SkipExtract bool

	Logger *slog.Logger
}

// Pipeline implements the full ingest-to-digest workflow.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.MaxChars <= 0 {
		deps.MaxChars = 1200
	}
	if deps.Overlap < 0 {
		deps.Overlap = 0
	}
	return &Pipeline{deps: deps}
}

// Run executes one full digest pass. The only fatal error is a failed
// document load; every collaborator failure degrades and the run continues.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.Report, error) {
	d := p.deps

	docs, err := d.Source.Load(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load documents: %w", err)
	}
	p.debug("documents loaded", "count", len(docs))

	standupCards := make([]domain.EventCard, 0)
	slackCards := make([]domain.EventCard, 0)
	emailCards := make([]domain.EventCard, 0)
	var genericDocs []domain.Document

	for _, doc := range docs {
		format := detect.Detect(doc.Text)
		if format == detect.FormatGeneric {
			genericDocs = append(genericDocs, doc)
			continue
		}
		parser, err := d.Registry.Resolve(format)
		if err != nil {
			p.warn("no parser for document", "doc", doc.Name, "format", format)
			genericDocs = append(genericDocs, doc)
			continue
		}
		cards := parser.Parse(doc.Text, doc.Name)
		switch format {
		case detect.FormatStandup:
			standupCards = append(standupCards, cards...)
		case detect.FormatSlack:
			slackCards = append(slackCards, cards...)
		case detect.FormatEmail:
			emailCards = append(emailCards, cards...)
		}
	}
	p.debug("events parsed",
		"standups", len(standupCards), "slack", len(slackCards), "emails", len(emailCards),
		"generic_docs", len(genericDocs))

	allCards := make([]domain.EventCard, 0, len(standupCards)+len(slackCards)+len(emailCards))
	allCards = append(allCards, standupCards...)
	allCards = append(allCards, slackCards...)
	allCards = append(allCards, emailCards...)

	notesBySrc := p.collectNotes(ctx, allCards)

	items := make([]domain.Item, 0, len(allCards))
	for _, c := range allCards {
		items = append(items, d.Aggregator.Item(c, notesBySrc[c.Src]))
	}

	items = append(items, p.extractFromDocs(ctx, genericDocs)...)

	summary := p.summarize(ctx, items)

	rep := d.Builder.Build(items, uuid.NewString(), now.Format("2006-01-02T15:04:05"), summary)

	p.persistArtifacts(rep, standupCards, slackCards, emailCards, items)

	if d.Repository != nil {
		if err := d.Repository.SaveRun(ctx, rep); err != nil {
			p.warn("saving run audit failed", "error", err)
		}
	}

	if d.Notifier != nil && d.Renderer != nil {
		if err := d.Notifier.PublishDigest(ctx, d.Renderer.Markdown(rep)); err != nil {
			p.warn("publishing digest failed", "error", err)
		}
	}

	return rep, nil
}

// collectNotes runs the enrichment collaborator over every event chunk and
// groups the returned texts by event src. Each chunk is attempted exactly
// once; failures degrade to zero notes.
func (p *Pipeline) collectNotes(ctx context.Context, cards []domain.EventCard) map[string][]string {
	notes := map[string][]string{}
	if p.deps.Extractor == nil || p.deps.SkipExtract || len(cards) == 0 {
		return notes
	}

	for _, ch := range chunk.FromCards(cards, p.deps.MaxChars, p.deps.Overlap) {
		source := ch.Src + ":chunk" + strconv.Itoa(ch.ID)
		extracted, err := p.deps.Extractor.ExtractItems(ctx, ch.Text, source)
		if err != nil {
			p.warn("enrichment failed", "source", source, "error", err)
			continue
		}
		for _, it := range extracted {
			if txt := strings.TrimSpace(it.Text); txt != "" {
				notes[ch.Src] = append(notes[ch.Src], txt)
			}
		}
	}
	return notes
}

// extractFromDocs turns generic-document chunks into candidate items
// directly. The chunk's own attribution id always wins over whatever source
// the collaborator echoed back.
func (p *Pipeline) extractFromDocs(ctx context.Context, docs []domain.Document) []domain.Item {
	var out []domain.Item
	if p.deps.Extractor == nil || p.deps.SkipExtract {
		return out
	}

	for _, ch := range chunk.FromDocuments(docs, p.deps.MaxChars, p.deps.Overlap) {
		source := ch.DocName + ":chunk" + strconv.Itoa(ch.ID)
		extracted, err := p.deps.Extractor.ExtractItems(ctx, ch.Text, source)
		if err != nil {
			p.warn("extraction failed", "source", source, "error", err)
			continue
		}
		for _, it := range extracted {
			it.Source = source
			out = append(out, it)
		}
	}
	return out
}

func (p *Pipeline) summarize(ctx context.Context, items []domain.Item) []string {
	if p.deps.Summarizer != nil {
		lines, err := p.deps.Summarizer.Summarize(ctx, items)
		if err != nil {
			p.warn("summarization failed", "error", err)
		} else if len(lines) > 0 {
			return lines
		}
	}
	return fallbackSummary()
}

// fallbackSummary is the fixed disclosure substituted when no usable
// manager summary is produced.
func fallbackSummary() []string {
	return []string{
		"LLM is disabled or unavailable.",
		"Report contains all extracted items sorted by deterministic priority policy.",
		"Run with --llm ollama to generate a manager summary (no API keys required).",
	}
}

func (p *Pipeline) persistArtifacts(rep domain.Report, standups, slack, emails []domain.EventCard, items []domain.Item) {
	d := p.deps
	if d.Artifacts == nil {
		return
	}

	write := func(name string, fn func() error) {
		if err := fn(); err != nil {
			p.warn("writing artifact failed", "artifact", name, "error", err)
		}
	}

	write("standups.json", func() error { return d.Artifacts.WriteJSON("standups.json", standups) })
	write("slack_events.json", func() error { return d.Artifacts.WriteJSON("slack_events.json", slack) })
	write("email_events.json", func() error { return d.Artifacts.WriteJSON("email_events.json", emails) })
	write("items.json", func() error { return d.Artifacts.WriteJSON("items.json", items) })
	write("report.json", func() error { return d.Artifacts.WriteJSON("report.json", rep) })

	if d.Renderer == nil {
		return
	}
	write("report.md", func() error { return d.Artifacts.WriteText("report.md", d.Renderer.Markdown(rep)) })
	write("report.html", func() error {
		html, err := d.Renderer.HTML(rep)
		if err != nil {
			return err
		}
		return d.Artifacts.WriteText("report.html", html)
	})
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Debug(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Warn(msg, args...)
	}
}
