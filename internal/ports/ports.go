package ports

import (
	"context"
	"time"

	"taskdigest/internal/domain"
)

// DocumentSource supplies the ordered raw documents for a run.
type DocumentSource interface {
	Load(ctx context.Context) ([]domain.Document, error)
}

// Extractor is the optional enrichment collaborator. It receives one text
// chunk plus the attribution id the returned items must echo; the pipeline
// overwrites a mismatched source with its own canonical id.
type Extractor interface {
	ExtractItems(ctx context.Context, chunkText, source string) ([]domain.Item, error)
}

// Summarizer produces the manager summary lines from the flattened item
// list. Failures degrade to a fixed fallback, never abort the run.
type Summarizer interface {
	Summarize(ctx context.Context, items []domain.Item) ([]string, error)
}

// ArtifactStore persists the per-run debug artifacts and rendered views.
type ArtifactStore interface {
	WriteJSON(name string, v any) error
	WriteText(name, text string) error
}

// Renderer turns a finished report into its presentation forms. Pure
// presentation, no business logic.
type Renderer interface {
	Markdown(report domain.Report) string
	HTML(report domain.Report) (string, error)
}

// ReportRepository records finished runs for audit and history.
type ReportRepository interface {
	SaveRun(ctx context.Context, report domain.Report) error
}

// Notifier pushes the rendered digest to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
