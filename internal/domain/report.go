package domain

// AppTitle names the produced digest.
const AppTitle = "TaskDigest"

// Report is the terminal artifact of a run.
type Report struct {
	App            string            `json:"app"`
	RunID          string            `json:"run_id"`
	Generated      string            `json:"generated"`
	ManagerSummary []string          `json:"manager_summary"`
	Groups         map[string][]Item `json:"groups"`
	All            []Item            `json:"followups_all"`
}
