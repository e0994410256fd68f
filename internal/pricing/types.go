// Package pricing implements the modular-construction estimation engine.
//
// Compute maps a Selection to an estimate: cost per square metre, total cost,
// a traditional-construction baseline, savings, build durations and the CO2
// saved. All constants live in an immutable Table that callers pass in; the
// package performs no I/O and keeps no state between calls.
package pricing

import (
	"fmt"
	"strings"
)

// BuildingType is the kind of structure being priced.
type BuildingType string

const (
	SingleFamily   BuildingType = "singleFamily"
	MultiUnit      BuildingType = "multiUnit"
	Commercial     BuildingType = "commercial"
	Superstructure BuildingType = "superstructure"
)

// BuildingTypes lists the building types in display order.
func BuildingTypes() []BuildingType {
	return []BuildingType{SingleFamily, MultiUnit, Commercial, Superstructure}
}

// Valid reports whether b is a known building type.
func (b BuildingType) Valid() bool {
	switch b {
	case SingleFamily, MultiUnit, Commercial, Superstructure:
		return true
	default:
		return false
	}
}

// InsulationGrade is the thermal insulation package.
type InsulationGrade string

const (
	Standard InsulationGrade = "standard"
	Premium  InsulationGrade = "premium"
	Eco      InsulationGrade = "eco"
)

// InsulationGrades lists the insulation grades in display order.
func InsulationGrades() []InsulationGrade {
	return []InsulationGrade{Standard, Premium, Eco}
}

// Valid reports whether g is a known insulation grade.
func (g InsulationGrade) Valid() bool {
	switch g {
	case Standard, Premium, Eco:
		return true
	default:
		return false
	}
}

// FinishingLevel is how complete the delivered building is.
type FinishingLevel string

const (
	Shell     FinishingLevel = "shell"
	Developer FinishingLevel = "developer"
	Turnkey   FinishingLevel = "turnkey"
)

// FinishingLevels lists the finishing levels in display order.
func FinishingLevels() []FinishingLevel {
	return []FinishingLevel{Shell, Developer, Turnkey}
}

// Valid reports whether f is a known finishing level.
func (f FinishingLevel) Valid() bool {
	switch f {
	case Shell, Developer, Turnkey:
		return true
	default:
		return false
	}
}

// ParseBuildingType resolves s to a BuildingType. Matching ignores case and
// accepts kebab and snake spellings such as "single-family" or "multi_unit".
func ParseBuildingType(s string) (BuildingType, error) {
	for _, v := range BuildingTypes() {
		if sameTag(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBuildingType, s)
}

// ParseInsulationGrade resolves s to an InsulationGrade.
func ParseInsulationGrade(s string) (InsulationGrade, error) {
	for _, v := range InsulationGrades() {
		if sameTag(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInsulation, s)
}

// ParseFinishingLevel resolves s to a FinishingLevel.
func ParseFinishingLevel(s string) (FinishingLevel, error) {
	for _, v := range FinishingLevels() {
		if sameTag(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFinishing, s)
}

func sameTag(input, canonical string) bool {
	return foldTag(input) == foldTag(canonical)
}

func foldTag(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
