package enums

import "fmt"

// TaskPriority ranks setup tasks for field crews.
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "LOW"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityCritical TaskPriority = "CRITICAL"
)

var validTaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

// String implements fmt.Stringer.
func (s TaskPriority) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TaskPriority.
func (s TaskPriority) IsValid() bool {
	for _, candidate := range validTaskPriorities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTaskPriority converts raw input into a TaskPriority.
func ParseTaskPriority(value string) (TaskPriority, error) {
	for _, candidate := range validTaskPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task priority %q", value)
}
