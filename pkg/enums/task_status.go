package enums

import "fmt"

// TaskStatus tracks a setup task's progress.
type TaskStatus string

const (
	TaskStatusScheduled  TaskStatus = "SCHEDULED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusScheduled,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// String implements fmt.Stringer.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TaskStatus.
func (s TaskStatus) IsValid() bool {
	for _, candidate := range validTaskStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTaskStatus converts raw input into a TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, error) {
	for _, candidate := range validTaskStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task status %q", value)
}
