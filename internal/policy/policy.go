// Package policy maps items to severity tiers with a deterministic keyword
// rule set and fuses the result with any externally supplied tier.
package policy

import (
	"regexp"
	"strings"

	"taskdigest/internal/domain"
)

// Reason strings attached to each policy verdict.
const (
	ReasonSettlementMismatch = "settlement/ledger mismatch"
	ReasonPaymentsPressure   = "payments risk with time pressure"
	ReasonSLA                = "SLA risk"
	ReasonFraud              = "fraud/abuse risk"
	ReasonBlocked            = "investigation blocked"
	ReasonPlanning           = "planning/routine"
	ReasonInformational      = "informational update"
	ReasonDefault            = "default"
)

// Engine evaluates the priority rules over a keyword table.
type Engine struct {
	kw       Keywords
	urgentRe *regexp.Regexp
}

// New builds an engine; empty keyword lists fall back to the defaults.
func New(kw Keywords) *Engine {
	kw = kw.merged()
	return &Engine{
		kw:       kw,
		urgentRe: regexp.MustCompile(`\b(?:` + strings.Join(quoteAll(kw.UrgentWords), "|") + `)\b`),
	}
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return out
}

// Classify returns the policy tier and its reason, first matching rule wins.
func (e *Engine) Classify(it domain.Item) (string, string) {
	text := strings.ToLower(it.Text)
	typ := strings.ToLower(it.Type)

	var flags domain.Flags
	if it.Flags != nil {
		flags = *it.Flags
	}

	financial := flags.FinancialRisk || containsAny(text, e.kw.Financial)
	mismatch := containsAny(text, e.kw.Mismatch)
	paymentsCore := containsAny(text, e.kw.PaymentsCore)
	urgent := e.urgentRe.MatchString(text) || containsAny(text, e.kw.UrgentPhrases)
	blocking := flags.Blocking || typ == "blocker" ||
		containsAny(text, e.kw.NoAccess) || strings.Contains(text, "blockers:")

	switch {
	case financial && mismatch && paymentsCore:
		return domain.PriorityP0, ReasonSettlementMismatch
	case financial && paymentsCore && urgent && mismatch:
		return domain.PriorityP0, ReasonPaymentsPressure
	case containsAny(text, e.kw.SLA):
		return domain.PriorityP1, ReasonSLA
	case containsAny(text, e.kw.Fraud):
		return domain.PriorityP1, ReasonFraud
	case blocking:
		return domain.PriorityP1, ReasonBlocked
	case containsAny(text, e.kw.Planning):
		return domain.PriorityP2, ReasonPlanning
	case flags.Informational || typ == "done" || typ == "info":
		return domain.PriorityP2, ReasonInformational
	}
	return domain.PriorityP2, ReasonDefault
}

// Fuse combines the policy tier with an externally supplied one: the policy
// may raise severity above the external claim, never lower it. External
// signals act as a ceiling-raising hint, not a suppressing authority.
func Fuse(policy, external string) string {
	if domain.Severity(policy) > domain.Severity(external) {
		return policy
	}
	return external
}

// InferFlags derives the operational flags from text and type when no
// external source supplied any.
func (e *Engine) InferFlags(it domain.Item) domain.Flags {
	text := strings.ToLower(it.Text)
	typ := strings.ToLower(it.Type)

	financial := containsAny(text, e.kw.Financial)
	requiresAction := containsAny(text, e.kw.RequiresAction)
	blocking := typ == "blocker" || containsAny(text, e.kw.NoAccess) || strings.Contains(text, "blockers:")
	informational := (typ == "done" || typ == "info") && !requiresAction && !blocking

	// these channels always need visibility regardless of content
	eventChannel := it.Channel == "standup" || it.Channel == "email" || it.Channel == "slack"

	return domain.Flags{
		RequiresAction:   requiresAction,
		ManagerAttention: financial || blocking || requiresAction || eventChannel,
		FinancialRisk:    financial,
		Blocking:         blocking,
		Informational:    informational,
	}
}

func containsAny(text string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
