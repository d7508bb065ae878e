// Package report sanitizes, deduplicates, sorts and groups candidate items
// into the final digest structure.
package report

import (
	"fmt"
	"sort"
	"strings"

	"taskdigest/internal/domain"
	"taskdigest/internal/policy"
)

var eventPrefixes = []string{"standup_", "slack_", "email_"}

// Builder assembles reports; the policy engine finalizes every priority.
type Builder struct {
	engine *policy.Engine
}

// NewBuilder wires the policy engine used during sanitization.
func NewBuilder(engine *policy.Engine) *Builder {
	return &Builder{engine: engine}
}

// Build runs the full pipeline tail: sanitize, per-source dedup, global
// dedup, deterministic sort, grouping. Summary lines fall back to the
// per-tier counts when none are supplied.
func (b *Builder) Build(items []domain.Item, runID, generated string, summary []string) domain.Report {
	var clean []domain.Item
	for _, it := range items {
		if out, ok := b.sanitize(it); ok {
			clean = append(clean, out)
		}
	}

	clean = dedupePerSource(clean)
	clean = dedupeGlobal(clean)

	sort.SliceStable(clean, func(i, j int) bool {
		a, c := clean[i], clean[j]
		if ra, rc := domain.PriorityRank(a.Priority), domain.PriorityRank(c.Priority); ra != rc {
			return ra < rc
		}
		if la, lc := domain.ChannelLabel(a.Channel), domain.ChannelLabel(c.Channel); la != lc {
			return la < lc
		}
		return a.Text < c.Text
	})

	groups := map[string][]domain.Item{
		domain.PriorityP0: {},
		domain.PriorityP1: {},
		domain.PriorityP2: {},
	}
	for _, it := range clean {
		groups[it.Priority] = append(groups[it.Priority], it)
	}

	if len(summary) == 0 {
		summary = countLines(groups)
	}

	return domain.Report{
		App:            domain.AppTitle,
		RunID:          runID,
		Generated:      generated,
		ManagerSummary: summary,
		Groups:         groups,
		All:            clean,
	}
}

// sanitize normalizes one candidate item and finalizes its priority.
// Empty-text items are dropped silently.
func (b *Builder) sanitize(it domain.Item) (domain.Item, bool) {
	it.Text = strings.TrimSpace(it.Text)
	if it.Text == "" {
		return domain.Item{}, false
	}

	it.Type = strings.ToLower(strings.TrimSpace(it.Type))
	if it.Type == "" {
		it.Type = "info"
	}

	external := domain.NormalizePriority(it.Priority)

	it.Source = strings.TrimSpace(it.Source)
	if it.Source == "" {
		it.Source = "—"
	}

	ch := strings.ToLower(strings.TrimSpace(it.Channel))
	switch ch {
	case "email", "slack", "standup", "doc":
	default:
		ch = domain.ChannelFromSource(it.Source)
	}
	it.Channel = ch

	if it.Flags == nil || !it.Flags.Any() {
		flags := b.engine.InferFlags(it)
		it.Flags = &flags
	}

	policyTier, reason := b.engine.Classify(it)
	final := policy.Fuse(policyTier, external)

	it.Priority = final
	it.PriorityReason = &domain.PriorityReason{
		External:     external,
		Policy:       policyTier,
		PolicyReason: reason,
		Final:        final,
	}

	// flags steer classification only, they are not report payload
	it.Flags = nil
	return it, true
}

// dedupePerSource keeps only the first item per event source id. Items whose
// source does not carry an event prefix pass through untouched.
func dedupePerSource(items []domain.Item) []domain.Item {
	seen := map[string]struct{}{}
	var out []domain.Item
	for _, it := range items {
		if hasEventPrefix(it.Source) {
			if _, dup := seen[it.Source]; dup {
				continue
			}
			seen[it.Source] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}

// dedupeGlobal drops items repeating an earlier (priority, channel, text)
// triple, text compared lower-trimmed.
func dedupeGlobal(items []domain.Item) []domain.Item {
	type key struct{ priority, channel, text string }
	seen := map[key]struct{}{}
	var out []domain.Item
	for _, it := range items {
		k := key{it.Priority, it.Channel, strings.ToLower(strings.TrimSpace(it.Text))}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

func hasEventPrefix(source string) bool {
	for _, p := range eventPrefixes {
		if strings.HasPrefix(source, p) {
			return true
		}
	}
	return false
}

func countLines(groups map[string][]domain.Item) []string {
	return []string{
		fmt.Sprintf("P0 - %d tasks", len(groups[domain.PriorityP0])),
		fmt.Sprintf("P1 - %d tasks", len(groups[domain.PriorityP1])),
		fmt.Sprintf("P2 - %d tasks", len(groups[domain.PriorityP2])),
	}
}
