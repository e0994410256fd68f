// Package greenops turns the CO2 saved by building modular into relatable
// equivalencies such as tree seedlings grown or miles not driven.
package greenops

import (
	"errors"
	"fmt"
)

// Kind is a category of CO2 equivalency.
type Kind int

const (
	// TreeSeedlings is seedlings grown for ten years.
	TreeSeedlings Kind = iota
	// MilesDriven is miles in an average passenger car.
	MilesDriven
	// HomeDays is days of average household electricity use.
	HomeDays
)

// String returns the stable identifier used in JSON output.
func (k Kind) String() string {
	switch k {
	case TreeSeedlings:
		return "tree_seedlings"
	case MilesDriven:
		return "miles_driven"
	case HomeDays:
		return "home_days"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{TreeSeedlings, MilesDriven, HomeDays} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return errors.New("unknown equivalency kind: " + string(text))
}

// Equivalency is one computed equivalency.
type Equivalency struct {
	Kind           Kind    `json:"kind"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formatted_value"`
	Label          string  `json:"label"`
}

// Output holds every equivalency for one CO2 figure.
type Output struct {
	SavedKg float64       `json:"saved_kg"`
	Results []Equivalency `json:"results"`

	// DisplayText is the sentence shown under the CO2 card.
	DisplayText string `json:"display_text"`
	// CompactText is the short form used in tables.
	CompactText string `json:"compact_text"`

	IsEmpty bool `json:"-"`
}
