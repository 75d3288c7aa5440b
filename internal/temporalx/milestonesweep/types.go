package milestonesweep

import "time"

const (
	WorkflowName  = "milestone_sweep"
	ActivitySweep = "milestone_sweep_run"
)

// Input pins the sweep to a date. A zero AsOf uses the workflow start time.
type Input struct {
	AsOf time.Time `json:"as_of,omitempty"`
}

type Result struct {
	AsOf                 time.Time `json:"as_of"`
	ContractsScanned     int       `json:"contracts_scanned"`
	NotificationsEmitted int       `json:"notifications_emitted"`
}
