package greenops

import (
	"context"
	"fmt"
	"math"

	"github.com/combstruct/combstruct/internal/logging"
)

// Calculate translates savedKg of CO2 into equivalencies.
//
// Savings below MinEquivalencyThresholdKg give an empty Output and no error.
// Negative input returns ErrNegativeValue; NaN or infinite input returns
// ErrCalculationOverflow.
func Calculate(savedKg float64) (Output, error) {
	if math.IsNaN(savedKg) || math.IsInf(savedKg, 0) {
		return Output{IsEmpty: true}, ErrCalculationOverflow
	}
	if savedKg < 0 {
		return Output{IsEmpty: true}, ErrNegativeValue
	}
	if savedKg < MinEquivalencyThresholdKg {
		return Output{SavedKg: savedKg, IsEmpty: true}, nil
	}

	trees := savedKg / EPATreeSeedlingFactor
	miles := savedKg / EPAMilesDrivenFactor
	days := savedKg / EPAHomeDayFactor

	results := []Equivalency{
		{Kind: TreeSeedlings, Value: trees, FormattedValue: FormatLarge(trees), Label: "tree seedlings grown for 10 years"},
		{Kind: MilesDriven, Value: miles, FormattedValue: FormatLarge(miles), Label: "miles driven"},
		{Kind: HomeDays, Value: days, FormattedValue: FormatLarge(days), Label: "days of home electricity"},
	}

	return Output{
		SavedKg: savedKg,
		Results: results,
		DisplayText: fmt.Sprintf("Like growing ~%s tree seedlings for 10 years or not driving ~%s miles",
			results[0].FormattedValue, results[1].FormattedValue),
		CompactText: fmt.Sprintf("(≈ %s trees, %s mi)", results[0].FormattedValue, results[1].FormattedValue),
	}, nil
}

// CalculateOrEmpty is Calculate for display paths: failures are logged and
// yield an empty Output.
func CalculateOrEmpty(ctx context.Context, savedKg float64) Output {
	out, err := Calculate(savedKg)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "greenops").
			Err(err).
			Float64("saved_kg", savedKg).
			Msg("equivalency calculation failed")
		return Output{IsEmpty: true}
	}
	return out
}
