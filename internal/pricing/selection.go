package pricing

import (
	"errors"
	"fmt"
)

// Bounds of the numeric Selection fields.
const (
	MinFloorAreaM2 = 50
	MaxFloorAreaM2 = 500
	MinStoreys     = 1
	MaxStoreys     = 3
)

// Selection is one set of construction parameters chosen by a user.
// Locale only picks the display currency and number format; it is carried
// through to the Result untouched.
type Selection struct {
	BuildingType    BuildingType    `json:"buildingType"    yaml:"building_type"`
	FloorAreaM2     int             `json:"floorAreaM2"     yaml:"floor_area_m2"`
	Storeys         int             `json:"storeys"         yaml:"storeys"`
	InsulationGrade InsulationGrade `json:"insulationGrade" yaml:"insulation_grade"`
	SelfBuild       bool            `json:"selfBuild"       yaml:"self_build"`
	FinishingLevel  FinishingLevel  `json:"finishingLevel"  yaml:"finishing_level"`
	Locale          string          `json:"locale"          yaml:"locale"`
}

// DefaultSelection is the calculator's initial state.
func DefaultSelection() Selection {
	return Selection{
		BuildingType:    SingleFamily,
		FloorAreaM2:     150,
		Storeys:         1,
		InsulationGrade: Standard,
		SelfBuild:       false,
		FinishingLevel:  Developer,
		Locale:          "en",
	}
}

// Validate reports every contract violation in s, joined with errors.Join.
// It returns nil for a valid Selection. Locale is not checked here.
func (s Selection) Validate() error {
	var errs []error
	if !s.BuildingType.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownBuildingType, s.BuildingType))
	}
	if s.FloorAreaM2 < MinFloorAreaM2 || s.FloorAreaM2 > MaxFloorAreaM2 {
		errs = append(errs, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrFloorAreaOutOfRange, s.FloorAreaM2, MinFloorAreaM2, MaxFloorAreaM2))
	}
	if s.Storeys < MinStoreys || s.Storeys > MaxStoreys {
		errs = append(errs, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrStoreysOutOfRange, s.Storeys, MinStoreys, MaxStoreys))
	}
	if !s.InsulationGrade.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownInsulation, s.InsulationGrade))
	}
	if !s.FinishingLevel.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownFinishing, s.FinishingLevel))
	}
	return errors.Join(errs...)
}

// Canonical rewrites enum spellings accepted by the Parse functions
// ("multi-unit", "ECO") to their canonical tags. Values that do not parse
// are left as they are.
func (s Selection) Canonical() Selection {
	if v, err := ParseBuildingType(string(s.BuildingType)); err == nil {
		s.BuildingType = v
	}
	if v, err := ParseInsulationGrade(string(s.InsulationGrade)); err == nil {
		s.InsulationGrade = v
	}
	if v, err := ParseFinishingLevel(string(s.FinishingLevel)); err == nil {
		s.FinishingLevel = v
	}
	return s
}

// Normalize returns a copy of s with floor area and storeys clamped into
// range. Unknown enum values are kept; they price with a neutral modifier.
func (s Selection) Normalize() Selection {
	s.FloorAreaM2 = clamp(s.FloorAreaM2, MinFloorAreaM2, MaxFloorAreaM2)
	s.Storeys = clamp(s.Storeys, MinStoreys, MaxStoreys)
	return s
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
