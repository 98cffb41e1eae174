package enums

import "fmt"

// TaskType identifies one of the fixed farm setup activities.
type TaskType string

const (
	TaskTypeSoilPreparation   TaskType = "SOIL_PREPARATION"
	TaskTypePolyhouseSetup    TaskType = "POLYHOUSE_SETUP"
	TaskTypeIrrigationInstall TaskType = "IRRIGATION_INSTALL"
	TaskTypePlanting          TaskType = "PLANTING"
	TaskTypeInitialCare       TaskType = "INITIAL_CARE"
)

var validTaskTypes = []TaskType{
	TaskTypeSoilPreparation,
	TaskTypePolyhouseSetup,
	TaskTypeIrrigationInstall,
	TaskTypePlanting,
	TaskTypeInitialCare,
}

// String implements fmt.Stringer.
func (s TaskType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TaskType.
func (s TaskType) IsValid() bool {
	for _, candidate := range validTaskTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTaskType converts raw input into a TaskType.
func ParseTaskType(value string) (TaskType, error) {
	for _, candidate := range validTaskTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q", value)
}
