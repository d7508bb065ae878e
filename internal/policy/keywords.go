package policy

// Keywords is the configurable vocabulary behind the deterministic priority
// policy. Lists are matched as lowercase substrings except UrgentWords,
// which match on word boundaries.
type Keywords struct {
	Financial      []string `yaml:"financial"`
	Mismatch       []string `yaml:"mismatch"`
	PaymentsCore   []string `yaml:"paymentsCore"`
	UrgentWords    []string `yaml:"urgentWords"`
	UrgentPhrases  []string `yaml:"urgentPhrases"`
	Fraud          []string `yaml:"fraud"`
	SLA            []string `yaml:"sla"`
	NoAccess       []string `yaml:"noAccess"`
	Planning       []string `yaml:"planning"`
	RequiresAction []string `yaml:"requiresAction"`
}

// DefaultKeywords returns the built-in policy table.
func DefaultKeywords() Keywords {
	return Keywords{
		Financial: []string{
			"aed", "usd", "settlement", "ledger", "payout", "payment",
			"chargeback", "refund", "batch", "merchant",
		},
		Mismatch: []string{
			"mismatch", "difference", "reconcile", "reconciliation",
			"ledger totals", "missing-row", "doesn't match", "does not match",
		},
		PaymentsCore:  []string{"settlement", "ledger", "payout", "merchant", "batch"},
		UrgentWords:   []string{"urgent", "eod", "deadline", "today"},
		UrgentPhrases: []string{"before eod", "may delay", "delay"},
		Fraud: []string{
			"abnormal", "suspicious", "fraud", "abuse", "incentive",
			"affiliate", "chargeback spike", "chargeback spikes",
		},
		SLA: []string{"latency", "spiking", "sla", "response times"},
		NoAccess: []string{
			"no production access", "no access", "cannot access",
			"can't access", "unable to access", "no dashboard",
		},
		Planning: []string{
			"ui copy", "final qa", "move release", "release to friday",
			"planning", "fee breakdown", "proposal",
		},
		RequiresAction: []string{
			"confirm", "investigate", "review", "pause", "escalate", "fix",
			"follow up", "need a quick review", "ok to", "who owns",
		},
	}
}

// merged fills any empty list from the defaults so a partial config override
// never silences a whole rule.
func (k Keywords) merged() Keywords {
	d := DefaultKeywords()
	pick := func(v, def []string) []string {
		if len(v) > 0 {
			return v
		}
		return def
	}
	return Keywords{
		Financial:      pick(k.Financial, d.Financial),
		Mismatch:       pick(k.Mismatch, d.Mismatch),
		PaymentsCore:   pick(k.PaymentsCore, d.PaymentsCore),
		UrgentWords:    pick(k.UrgentWords, d.UrgentWords),
		UrgentPhrases:  pick(k.UrgentPhrases, d.UrgentPhrases),
		Fraud:          pick(k.Fraud, d.Fraud),
		SLA:            pick(k.SLA, d.SLA),
		NoAccess:       pick(k.NoAccess, d.NoAccess),
		Planning:       pick(k.Planning, d.Planning),
		RequiresAction: pick(k.RequiresAction, d.RequiresAction),
	}
}
