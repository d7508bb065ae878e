// Package aggregate collapses each event card plus its enrichment notes
// into exactly one report item.
package aggregate

import (
	"fmt"
	"regexp"
	"strings"

	"taskdigest/internal/domain"
)

const joinCap = 5

var (
	wsRe          = regexp.MustCompile(`\s+`)
	fingerprintRe = regexp.MustCompile(`[^\p{L}\p{N}_\s:+#-]`)
)

// Aggregator renders cards into items, honoring per-kind note caps.
type Aggregator struct {
	standupNotes int
	slackNotes   int
	emailNotes   int
}

// New builds an aggregator; non-positive caps fall back to the originals
// (3 standup, 4 slack, 5 email).
func New(standupNotes, slackNotes, emailNotes int) *Aggregator {
	if standupNotes <= 0 {
		standupNotes = 3
	}
	if slackNotes <= 0 {
		slackNotes = 4
	}
	if emailNotes <= 0 {
		emailNotes = 5
	}
	return &Aggregator{standupNotes: standupNotes, slackNotes: slackNotes, emailNotes: emailNotes}
}

// Item produces the single report item for a card. The notes slice holds
// enrichment texts already attributed to this card's src.
func (a *Aggregator) Item(card domain.EventCard, notes []string) domain.Item {
	switch card.Kind {
	case domain.KindSlack:
		return a.slackItem(card, notes)
	case domain.KindEmail:
		return a.emailItem(card, notes)
	default:
		return a.standupItem(card, notes)
	}
}

func (a *Aggregator) standupItem(card domain.EventCard, notes []string) domain.Item {
	team := card.Team
	if team == "" {
		team = "Standup"
	}
	src := card.Src
	if src == "" {
		src = domain.StandupSrc(card.Date, team)
	}

	// one fingerprint set spans every section and the notes, so a bullet
	// repeated across sections survives only in its first section
	seen := map[string]struct{}{}
	done := uniq(card.Sections[domain.SectionDone], seen)
	inProgress := uniq(card.Sections[domain.SectionInProgress], seen)
	blockers := uniq(card.Sections[domain.SectionBlockers], seen)
	risks := uniq(card.Sections[domain.SectionRisks], seen)
	questions := uniq(card.Sections[domain.SectionQuestions], seen)

	kept := filterNotes(notes, seen, a.standupNotes, "standup:", "standup ")

	title := "STANDUP: " + team
	if card.Date != "" {
		title += " (" + card.Date + ")"
	}

	// actionable content renders before completed work
	parts := []string{title}
	parts = appendSection(parts, "IN_PROGRESS", inProgress, joinCap)
	parts = appendSection(parts, "BLOCKERS", blockers, joinCap)
	parts = appendSection(parts, "RISKS", risks, joinCap)
	parts = appendSection(parts, "QUESTIONS", questions, joinCap)
	parts = appendSection(parts, "DONE", done, joinCap)
	parts = appendSection(parts, "NOTES", kept, joinCap)

	return domain.Item{
		Type:    "standup",
		Text:    strings.Join(parts, " | "),
		Channel: "standup",
		Source:  src,
		Due:     card.Date,
		Flags:   &domain.Flags{ManagerAttention: true},
	}
}

func (a *Aggregator) slackItem(card domain.EventCard, notes []string) domain.Item {
	src := card.Src
	if src == "" {
		src = "slack_unknown"
	}
	timeHM := card.Time
	if timeHM == "" {
		timeHM = "??:??"
	}
	name := card.Author
	if name == "" {
		name = "Unknown"
	}
	root := strings.TrimSpace(card.Root)

	seen := map[string]struct{}{}
	if root != "" {
		seen[fingerprint(root)] = struct{}{}
	}
	// a note echoing the synthetic header adds nothing
	kept := filterNotes(notes, seen, a.slackNotes, "slack")

	parts := []string{fmt.Sprintf("SLACK: [%s] %s", timeHM, name)}
	if root != "" {
		parts = append(parts, "ROOT: "+root)
	}
	parts = appendSection(parts, "NOTES", kept, a.slackNotes)

	return domain.Item{
		Type:    "slack",
		Text:    strings.Join(parts, " | "),
		Channel: "slack",
		Source:  src,
		Flags:   &domain.Flags{ManagerAttention: true},
	}
}

func (a *Aggregator) emailItem(card domain.EventCard, notes []string) domain.Item {
	src := card.Src
	if src == "" {
		src = "email_no_subject"
	}
	subject := card.Subject
	body := strings.TrimSpace(card.Body)

	seen := map[string]struct{}{}
	if subject != "" {
		seen[fingerprint(subject)] = struct{}{}
	}
	kept := filterNotes(notes, seen, a.emailNotes, "subject:")

	title := "EMAIL"
	if subject != "" {
		title = "EMAIL: " + subject
	}
	parts := []string{title}
	if card.From != "" {
		parts = append(parts, "FROM: "+card.From)
	}
	if len(kept) > 0 {
		parts = appendSection(parts, "NOTES", kept, a.emailNotes)
	} else if body != "" {
		// keep a short excerpt so an unenriched email still carries signal
		excerpt := strings.TrimSpace(truncate(wsRe.ReplaceAllString(body, " "), 240))
		parts = append(parts, "EXCERPT: "+excerpt)
	}

	return domain.Item{
		Type:    "email",
		Text:    strings.Join(parts, " | "),
		Channel: "email",
		Source:  src,
		Flags:   &domain.Flags{ManagerAttention: true},
	}
}

// fingerprint normalizes text for dedup: lowercase, collapsed whitespace,
// punctuation stripped.
func fingerprint(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = wsRe.ReplaceAllString(s, " ")
	return fingerprintRe.ReplaceAllString(s, "")
}

func uniq(bullets []string, seen map[string]struct{}) []string {
	var out []string
	for _, b := range bullets {
		k := fingerprint(b)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, b)
	}
	return out
}

// filterNotes keeps at most max enrichment notes that neither duplicate
// already-included content nor echo the event header.
func filterNotes(notes []string, seen map[string]struct{}, max int, echoPrefixes ...string) []string {
	var out []string
	for _, n := range notes {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		k := fingerprint(n)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		if hasAnyPrefix(k, echoPrefixes) {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
		if len(out) >= max {
			break
		}
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func appendSection(parts []string, label string, bullets []string, max int) []string {
	joined := joinBullets(bullets, max)
	if joined == "" {
		return parts
	}
	return append(parts, label+": "+joined)
}

func joinBullets(bullets []string, max int) string {
	var b []string
	for _, x := range bullets {
		if s := strings.TrimSpace(x); s != "" {
			b = append(b, s)
		}
	}
	if len(b) == 0 {
		return ""
	}
	if len(b) > max {
		extra := len(b) - max
		b = append(b[:max:max], fmt.Sprintf("(+%d more)", extra))
	}
	return strings.Join(b, "; ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
