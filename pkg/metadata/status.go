package metadata

import "fmt"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

func NewRunStatus(value string) (RunStatus, error) {
	status := RunStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid run status: %s", value)
	}
	return status, nil
}

func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether a run can no longer change state.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

type RequirementStatus string

const (
	RequirementStatusShortage   RequirementStatus = "shortage"
	RequirementStatusSufficient RequirementStatus = "sufficient"
)

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusReleased  OrderStatus = "released"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)
