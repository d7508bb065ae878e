package domain

import "strings"

// Severity tiers, most severe first.
const (
	PriorityP0 = "P0"
	PriorityP1 = "P1"
	PriorityP2 = "P2"
)

// Flags are operational booleans attached to an item before sanitization.
// They steer the priority policy and are dropped from the report payload.
type Flags struct {
	RequiresAction   bool `json:"requires_action"`
	ManagerAttention bool `json:"manager_attention"`
	FinancialRisk    bool `json:"financial_risk"`
	Blocking         bool `json:"blocking"`
	Informational    bool `json:"informational"`
}

// Any reports whether at least one flag is set.
func (f Flags) Any() bool {
	return f.RequiresAction || f.ManagerAttention || f.FinancialRisk || f.Blocking || f.Informational
}

// PriorityReason records how the final tier was chosen.
type PriorityReason struct {
	External     string `json:"external"`
	Policy       string `json:"policy"`
	PolicyReason string `json:"policy_reason"`
	Final        string `json:"final"`
}

// Item is the unit of report output: one per event, or one per extracted
// finding from a generic document chunk.
type Item struct {
	Type           string          `json:"type"`
	Text           string          `json:"text"`
	Channel        string          `json:"channel"`
	Source         string          `json:"source"`
	Owner          string          `json:"owner,omitempty"`
	Due            string          `json:"due,omitempty"`
	Priority       string          `json:"priority"`
	PriorityReason *PriorityReason `json:"priority_reason,omitempty"`

	// present on items entering the report builder; sanitize consumes and
	// clears it, so report artifacts never carry flags
	Flags *Flags `json:"flags,omitempty"`
}

// NormalizePriority folds arbitrary external values onto P0/P1/P2,
// defaulting to P2 for anything unrecognized.
func NormalizePriority(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	switch {
	case strings.Contains(p, PriorityP0):
		return PriorityP0
	case strings.Contains(p, PriorityP1):
		return PriorityP1
	default:
		return PriorityP2
	}
}

// PriorityRank orders tiers for sorting, most severe first.
func PriorityRank(p string) int {
	switch p {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	default:
		return 2
	}
}

// Severity orders tiers for fusion, higher is more severe.
func Severity(p string) int {
	switch p {
	case PriorityP0:
		return 2
	case PriorityP1:
		return 1
	default:
		return 0
	}
}

// ChannelFromSource infers a channel from the source id naming convention.
func ChannelFromSource(source string) string {
	n := strings.ToLower(source)
	switch {
	case strings.Contains(n, "standup_"):
		return "standup"
	case strings.Contains(n, "slack_"):
		return "slack"
	case strings.Contains(n, "email_"):
		return "email"
	case strings.Contains(n, "slack"):
		return "slack"
	case strings.Contains(n, "email"), strings.Contains(n, "inbox"), strings.Contains(n, "mail"):
		return "email"
	}
	return "doc"
}

// ChannelLabel renders a channel for display and for the report sort key.
func ChannelLabel(ch string) string {
	switch strings.ToLower(ch) {
	case "email":
		return "Email"
	case "slack":
		return "Slack"
	case "standup":
		return "Standup"
	default:
		return "Doc"
	}
}
