package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdigest/internal/domain"
)

func TestClassifyRules(t *testing.T) {
	t.Parallel()

	eng := New(Keywords{})

	cases := []struct {
		name       string
		item       domain.Item
		wantTier   string
		wantReason string
	}{
		{
			name:       "settlement mismatch",
			item:       domain.Item{Text: "ledger totals differ, settlement batch mismatch of 200 USD"},
			wantTier:   domain.PriorityP0,
			wantReason: ReasonSettlementMismatch,
		},
		{
			name:       "sla risk",
			item:       domain.Item{Text: "checkout latency spiking past the SLA"},
			wantTier:   domain.PriorityP1,
			wantReason: ReasonSLA,
		},
		{
			name:       "fraud risk",
			item:       domain.Item{Text: "suspicious affiliate signups over the weekend"},
			wantTier:   domain.PriorityP1,
			wantReason: ReasonFraud,
		},
		{
			name:       "blocked by access",
			item:       domain.Item{Text: "BLOCKERS: no production access to dashboard"},
			wantTier:   domain.PriorityP1,
			wantReason: ReasonBlocked,
		},
		{
			name:       "blocker type",
			item:       domain.Item{Type: "blocker", Text: "waiting on schema change"},
			wantTier:   domain.PriorityP1,
			wantReason: ReasonBlocked,
		},
		{
			name:       "planning",
			item:       domain.Item{Text: "final QA pass and UI copy updates"},
			wantTier:   domain.PriorityP2,
			wantReason: ReasonPlanning,
		},
		{
			name:       "informational type",
			item:       domain.Item{Type: "done", Text: "shipped the widget"},
			wantTier:   domain.PriorityP2,
			wantReason: ReasonInformational,
		},
		{
			name:       "default",
			item:       domain.Item{Text: "misc note"},
			wantTier:   domain.PriorityP2,
			wantReason: ReasonDefault,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tier, reason := eng.Classify(tc.item)
			assert.Equal(t, tc.wantTier, tier)
			assert.Equal(t, tc.wantReason, reason)
		})
	}
}

func TestClassifyHonoursExternalFlags(t *testing.T) {
	t.Parallel()

	eng := New(Keywords{})
	it := domain.Item{
		Text:  "totals mismatch across the nightly batch in the merchant ledger",
		Flags: &domain.Flags{FinancialRisk: true},
	}
	tier, reason := eng.Classify(it)
	require.Equal(t, domain.PriorityP0, tier)
	require.Equal(t, ReasonSettlementMismatch, reason)
}

func TestFuseIsMonotonic(t *testing.T) {
	t.Parallel()

	// policy may raise, never lower
	assert.Equal(t, domain.PriorityP0, Fuse(domain.PriorityP0, domain.PriorityP2))
	assert.Equal(t, domain.PriorityP0, Fuse(domain.PriorityP2, domain.PriorityP0))
	assert.Equal(t, domain.PriorityP1, Fuse(domain.PriorityP1, domain.PriorityP2))
	assert.Equal(t, domain.PriorityP1, Fuse(domain.PriorityP2, domain.PriorityP1))
	assert.Equal(t, domain.PriorityP2, Fuse(domain.PriorityP2, domain.PriorityP2))

	// final is never less severe than either input
	tiers := []string{domain.PriorityP0, domain.PriorityP1, domain.PriorityP2}
	for _, p := range tiers {
		for _, ext := range tiers {
			final := Fuse(p, ext)
			assert.LessOrEqual(t, domain.Severity(ext), domain.Severity(final),
				"external %s, policy %s", ext, p)
			assert.LessOrEqual(t, min(domain.Severity(p), domain.Severity(ext)), domain.Severity(final))
		}
	}
}

func TestInferFlags(t *testing.T) {
	t.Parallel()

	eng := New(Keywords{})

	flags := eng.InferFlags(domain.Item{Text: "please confirm the payout batch totals", Channel: "doc"})
	assert.True(t, flags.RequiresAction)
	assert.True(t, flags.FinancialRisk)
	assert.True(t, flags.ManagerAttention)
	assert.False(t, flags.Blocking)

	// event channels always get manager attention
	flags = eng.InferFlags(domain.Item{Text: "nothing remarkable", Channel: "slack"})
	assert.True(t, flags.ManagerAttention)
	assert.False(t, flags.FinancialRisk)

	flags = eng.InferFlags(domain.Item{Type: "done", Text: "released", Channel: "doc"})
	assert.True(t, flags.Informational)
	assert.False(t, flags.ManagerAttention)
}

func TestKeywordOverrides(t *testing.T) {
	t.Parallel()

	eng := New(Keywords{SLA: []string{"p99 regression"}})

	tier, reason := eng.Classify(domain.Item{Text: "p99 regression on the auth path"})
	assert.Equal(t, domain.PriorityP1, tier)
	assert.Equal(t, ReasonSLA, reason)

	// untouched lists keep their defaults
	tier, _ = eng.Classify(domain.Item{Text: "suspicious affiliate pattern"})
	assert.Equal(t, domain.PriorityP1, tier)
}
