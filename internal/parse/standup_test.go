package parse

import (
	"testing"

	"taskdigest/internal/domain"
)

func TestParsePlainStandup(t *testing.T) {
	t.Parallel()

	text := "STANDUP: Payments\n" +
		"DATE: 2024-01-05\n" +
		"DONE:\n" +
		"- shipped payout retries\n" +
		"- none\n" +
		"IN_PROGRESS:\n" +
		"- reconciling ledger totals\n" +
		"BLOCKERS:\n" +
		"- no production access to dashboard\n" +
		"stray line without bullet\n"

	cards := StandupParser{}.Parse(text, "standup.txt")
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}

	c := cards[0]
	if c.Src != "standup_2024-01-05:payments" {
		t.Fatalf("unexpected src: %s", c.Src)
	}
	if c.Team != "Payments" || c.Date != "2024-01-05" {
		t.Fatalf("unexpected team/date: %s/%s", c.Team, c.Date)
	}
	if got := c.Sections[domain.SectionDone]; len(got) != 1 || got[0] != "shipped payout retries" {
		t.Fatalf("placeholder bullet should be dropped, got %v", got)
	}
	if got := c.Sections[domain.SectionBlockers]; len(got) != 1 || got[0] != "no production access to dashboard" {
		t.Fatalf("unexpected blockers: %v", got)
	}
	if len(c.Sections[domain.SectionRisks]) != 0 {
		t.Fatalf("risks should be empty, got %v", c.Sections[domain.SectionRisks])
	}
}

func TestParsePlainStandupMultipleTeams(t *testing.T) {
	t.Parallel()

	text := "STANDUP: Payments\nDONE:\n- a\n\nSTANDUP: Risk\nDONE:\n- b\n"

	cards := StandupParser{}.Parse(text, "standup.txt")
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Team != "Payments" || cards[1].Team != "Risk" {
		t.Fatalf("order not preserved: %s, %s", cards[0].Team, cards[1].Team)
	}
}

func TestParsePlainStandupTruncatesAtSeparator(t *testing.T) {
	t.Parallel()

	text := "STANDUP: Payments\nDONE:\n- kept\n---\n[09:12] Nadia: accidental slack tail\n"

	cards := StandupParser{}.Parse(text, "mixed.txt")
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if got := cards[0].RawText; got != "STANDUP: Payments\nDONE:\n- kept" {
		t.Fatalf("separator tail not discarded: %q", got)
	}
}

func TestParseMarkdownStandup(t *testing.T) {
	t.Parallel()

	text := "preamble\n" +
		"# Daily Standup – Risk Team\n" +
		"## Done\n- closed audit items\n" +
		"## In Progress\n- chargeback review\n" +
		"## Risks / Concerns\n- latency spiking on checkout\n" +
		"## Questions\n- n/a\n"

	cards := StandupParser{}.Parse(text, "standup.md")
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}

	c := cards[0]
	if c.Src != "standup_no_date:risk_team" {
		t.Fatalf("unexpected src: %s", c.Src)
	}
	if c.Date != "" {
		t.Fatalf("markdown form has no date, got %q", c.Date)
	}
	if got := c.Sections[domain.SectionRisks]; len(got) != 1 || got[0] != "latency spiking on checkout" {
		t.Fatalf("unexpected risks: %v", got)
	}
	if len(c.Sections[domain.SectionQuestions]) != 0 {
		t.Fatalf("placeholder question should be dropped, got %v", c.Sections[domain.SectionQuestions])
	}
}

func TestStandupSrcDeterministic(t *testing.T) {
	t.Parallel()

	text := "STANDUP: Payments Core\nDATE: 2024-01-05\nDONE:\n- x\n"
	first := StandupParser{}.Parse(text, "a.txt")
	second := StandupParser{}.Parse(text, "b.txt")
	if first[0].Src != second[0].Src {
		t.Fatalf("src not deterministic: %s vs %s", first[0].Src, second[0].Src)
	}
	if first[0].Src != "standup_2024-01-05:payments_core" {
		t.Fatalf("unexpected src: %s", first[0].Src)
	}
}
