package domain

import "strings"

// EnergyState is the user's self-reported capacity level.
type EnergyState string

const (
	EnergyHigh EnergyState = "HIGH"
	EnergyMed  EnergyState = "MED"
	EnergyLow  EnergyState = "LOW"
)

// DefaultEnergyState is used until the user picks one.
const DefaultEnergyState = EnergyMed

// AllEnergyStates returns all valid energy states, highest first.
func AllEnergyStates() []EnergyState {
	return []EnergyState{EnergyHigh, EnergyMed, EnergyLow}
}

// ParseEnergyState parses a user-supplied energy state.
// Matching is case-insensitive and accepts "medium" for MED.
func ParseEnergyState(s string) (EnergyState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH", "H":
		return EnergyHigh, nil
	case "MED", "MEDIUM", "M":
		return EnergyMed, nil
	case "LOW", "L":
		return EnergyLow, nil
	default:
		return "", ErrInvalidEnergy
	}
}

// IsValid returns true if the state is one of HIGH, MED or LOW.
func (e EnergyState) IsValid() bool {
	switch e {
	case EnergyHigh, EnergyMed, EnergyLow:
		return true
	default:
		return false
	}
}

// Admits reports whether a PENDING job of the given type is shown at this
// energy level. Unknown states admit everything.
func (e EnergyState) Admits(t JobType) bool {
	switch e {
	case EnergyHigh:
		return true
	case EnergyMed:
		return t == JobTypeAnchor || t == JobTypeQuickWin
	case EnergyLow:
		return t == JobTypeQuickWin
	default:
		return true
	}
}

// Display returns a human-readable representation of the energy state.
func (e EnergyState) Display() string {
	switch e {
	case EnergyHigh:
		return "High"
	case EnergyMed:
		return "Medium"
	case EnergyLow:
		return "Low"
	default:
		return string(e)
	}
}
