package aggregate

import (
	"strings"
	"testing"

	"taskdigest/internal/domain"
)

func standupCard() domain.EventCard {
	return domain.EventCard{
		Kind: domain.KindStandup,
		Src:  "standup_2024-01-05:payments",
		Team: "Payments",
		Date: "2024-01-05",
		Sections: map[domain.Section][]string{
			domain.SectionDone:       {"shipped payout retries"},
			domain.SectionInProgress: {"reconciling ledger totals"},
			domain.SectionBlockers:   {"no production access to dashboard"},
		},
	}
}

func TestStandupItemSectionOrder(t *testing.T) {
	t.Parallel()

	it := New(0, 0, 0).Item(standupCard(), nil)

	if it.Source != "standup_2024-01-05:payments" {
		t.Fatalf("unexpected source: %s", it.Source)
	}
	if it.Due != "2024-01-05" {
		t.Fatalf("unexpected due: %s", it.Due)
	}
	if it.Flags == nil || !it.Flags.ManagerAttention {
		t.Fatalf("standup items always carry manager attention")
	}

	text := it.Text
	if !strings.HasPrefix(text, "STANDUP: Payments (2024-01-05)") {
		t.Fatalf("unexpected header: %q", text)
	}
	// actionable sections render before DONE
	inProg := strings.Index(text, "IN_PROGRESS:")
	blockers := strings.Index(text, "BLOCKERS:")
	done := strings.Index(text, "DONE:")
	if inProg < 0 || blockers < 0 || done < 0 {
		t.Fatalf("missing sections in %q", text)
	}
	if !(inProg < blockers && blockers < done) {
		t.Fatalf("section order wrong in %q", text)
	}
	if !strings.Contains(text, "BLOCKERS: no production access to dashboard") {
		t.Fatalf("blockers content missing: %q", text)
	}
}

func TestStandupNotesDedupAgainstBullets(t *testing.T) {
	t.Parallel()

	notes := []string{
		"Reconciling ledger totals",       // duplicates a bullet, dropped
		"STANDUP: Payments extra context", // echoes the header, dropped
		"chargeback spike under review",
		"chargeback   spike under review.", // same after normalization
		"second distinct note",
		"third distinct note",
		"fourth distinct note", // over the cap of 3
	}

	it := New(3, 4, 5).Item(standupCard(), notes)

	if !strings.Contains(it.Text, "NOTES: chargeback spike under review; second distinct note; third distinct note") {
		t.Fatalf("unexpected notes section: %q", it.Text)
	}
	if strings.Contains(it.Text, "fourth distinct note") {
		t.Fatalf("notes cap not applied: %q", it.Text)
	}
}

func TestSlackItem(t *testing.T) {
	t.Parallel()

	card := domain.EventCard{
		Kind:   domain.KindSlack,
		Src:    "slack_09:12:Nadia",
		Time:   "09:12",
		Author: "Nadia",
		Root:   "team sync",
	}
	notes := []string{
		"team sync",              // duplicates the root
		"Slack thread recap",     // echoes the header, dropped
		"decision: move standup", // kept
	}

	it := New(0, 0, 0).Item(card, notes)

	if it.Text != "SLACK: [09:12] Nadia | ROOT: team sync | NOTES: decision: move standup" {
		t.Fatalf("unexpected text: %q", it.Text)
	}
	if it.Channel != "slack" || it.Type != "slack" {
		t.Fatalf("unexpected channel/type: %s/%s", it.Channel, it.Type)
	}
}

func TestEmailItemExcerptFallback(t *testing.T) {
	t.Parallel()

	card := domain.EventCard{
		Kind:    domain.KindEmail,
		Src:     "email_Settlement mismatch",
		Subject: "Settlement mismatch",
		From:    "ops@example.com",
		Body:    "ledger totals differ from payout batch\nby 200 USD, please confirm before EOD",
	}

	it := New(0, 0, 0).Item(card, nil)

	want := "EMAIL: Settlement mismatch | FROM: ops@example.com | " +
		"EXCERPT: ledger totals differ from payout batch by 200 USD, please confirm before EOD"
	if it.Text != want {
		t.Fatalf("unexpected text: %q", it.Text)
	}
}

func TestEmailItemNotesSuppressExcerpt(t *testing.T) {
	t.Parallel()

	card := domain.EventCard{
		Kind:    domain.KindEmail,
		Src:     "email_Settlement mismatch",
		Subject: "Settlement mismatch",
		Body:    "body stays out when notes exist",
	}
	notes := []string{"Subject: Settlement mismatch", "confirm totals with finance"}

	it := New(0, 0, 0).Item(card, notes)

	if !strings.Contains(it.Text, "NOTES: confirm totals with finance") {
		t.Fatalf("note missing: %q", it.Text)
	}
	if strings.Contains(it.Text, "EXCERPT:") {
		t.Fatalf("excerpt should be suppressed when notes exist: %q", it.Text)
	}
	if strings.Contains(it.Text, "Subject: Settlement mismatch") {
		t.Fatalf("subject echo should be dropped: %q", it.Text)
	}
}

func TestJoinBulletsCap(t *testing.T) {
	t.Parallel()

	got := joinBullets([]string{"a", "b", "c", "d", "e", "f", "g"}, 5)
	if got != "a; b; c; d; e; (+2 more)" {
		t.Fatalf("unexpected join: %q", got)
	}
}

func TestDistinctNonLatinBulletsSurvive(t *testing.T) {
	t.Parallel()

	card := domain.EventCard{
		Kind: domain.KindStandup,
		Src:  "standup_2024-01-05:payments",
		Team: "Payments",
		Date: "2024-01-05",
		Sections: map[domain.Section][]string{
			domain.SectionBlockers: {"проверить выплаты", "согласовать доступ"},
		},
	}

	it := New(0, 0, 0).Item(card, nil)

	if !strings.Contains(it.Text, "проверить выплаты") {
		t.Fatalf("first bullet missing: %q", it.Text)
	}
	if !strings.Contains(it.Text, "согласовать доступ") {
		t.Fatalf("distinct bullet dropped as duplicate: %q", it.Text)
	}
}

func TestFingerprintKeepsNonLatinLetters(t *testing.T) {
	t.Parallel()

	if got := fingerprint("Проверить   выплаты!"); got != "проверить выплаты" {
		t.Fatalf("unexpected fingerprint: %q", got)
	}
}
