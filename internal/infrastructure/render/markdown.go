// Package render turns a finished report into its presentation forms and
// persists run artifacts. No business logic lives here.
package render

import (
	"fmt"
	"strings"

	"taskdigest/internal/domain"
	"taskdigest/internal/ports"
)

const maxSummaryLines = 8

var tierOrder = []string{domain.PriorityP0, domain.PriorityP1, domain.PriorityP2}

// Compact renders the digest in its compact prose and markup forms.
type Compact struct{}

var _ ports.Renderer = Compact{}

// Markdown renders the compact prose view.
func (Compact) Markdown(rep domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", rep.App)
	fmt.Fprintf(&b, "_Generated: %s_\n\n", rep.Generated)

	if len(rep.ManagerSummary) > 0 {
		b.WriteString("## Manager Summary\n")
		for i, line := range rep.ManagerSummary {
			if i >= maxSummaryLines {
				break
			}
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	for _, tier := range tierOrder {
		fmt.Fprintf(&b, "## %s\n", tierHeader(tier))
		items := rep.Groups[tier]
		if len(items) == 0 {
			b.WriteString("_None_\n\n")
			continue
		}
		for _, it := range items {
			fmt.Fprintf(&b, "- **[%s]** %s  _(src: %s)_\n",
				domain.ChannelLabel(it.Channel), it.Text, it.Source)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func tierHeader(tier string) string {
	switch tier {
	case domain.PriorityP0:
		return "🔥 HIGH / P0"
	case domain.PriorityP1:
		return "🟡 MEDIUM / P1"
	default:
		return "🟢 LOW / P2"
	}
}
