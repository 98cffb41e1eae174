package enums

import "fmt"

// FarmStatus is a lifecycle label; any label may follow any other.
type FarmStatus string

const (
	FarmStatusSetup     FarmStatus = "SETUP"
	FarmStatusPlanting  FarmStatus = "PLANTING"
	FarmStatusGrowing   FarmStatus = "GROWING"
	FarmStatusProducing FarmStatus = "PRODUCING"
	FarmStatusInactive  FarmStatus = "INACTIVE"
)

var validFarmStatuses = []FarmStatus{
	FarmStatusSetup,
	FarmStatusPlanting,
	FarmStatusGrowing,
	FarmStatusProducing,
	FarmStatusInactive,
}

// String implements fmt.Stringer.
func (s FarmStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known FarmStatus.
func (s FarmStatus) IsValid() bool {
	for _, candidate := range validFarmStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseFarmStatus converts raw input into a FarmStatus.
func ParseFarmStatus(value string) (FarmStatus, error) {
	for _, candidate := range validFarmStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid farm status %q", value)
}
