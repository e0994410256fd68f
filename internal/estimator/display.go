package estimator

import (
	"fmt"

	"github.com/combstruct/combstruct/internal/locale"
	"github.com/combstruct/combstruct/internal/pricing"
)

// Display holds the formatted figures of an estimate.
type Display struct {
	CostPerM2       string `json:"costPerM2"`
	TotalCost       string `json:"totalCost"`
	TraditionalCost string `json:"traditionalCost"`
	Savings         string `json:"savings"`
	SavingsPercent  string `json:"savingsPercent"`
	BuildTime       string `json:"buildTime"`
	TraditionalTime string `json:"traditionalTime"`
	CO2Saved        string `json:"co2Saved"`

	// ComparisonBarPercent is the width of the modular bar against a full
	// traditional bar, in [0, 100].
	ComparisonBarPercent int `json:"comparisonBarPercent"`

	Disclaimer string `json:"disclaimer"`
}

// NewDisplay formats r for profile.
func NewDisplay(profile locale.Profile, r pricing.Result) Display {
	return Display{
		CostPerM2:            profile.FormatMoney(r.CostPerM2) + " / m²",
		TotalCost:            profile.FormatMoney(r.TotalCost),
		TraditionalCost:      profile.FormatMoney(r.TraditionalCost),
		Savings:              profile.FormatMoney(r.Savings),
		SavingsPercent:       fmt.Sprintf("%d%%", r.SavingsPercent),
		BuildTime:            plural(r.BuildWeeks, "week"),
		TraditionalTime:      plural(r.TraditionalMonths, "month"),
		CO2Saved:             profile.FormatNumber(r.CO2SavedKg) + " kg",
		ComparisonBarPercent: ComparisonBarPercent(r.SavingsPercent),
		Disclaimer:           Disclaimer,
	}
}

// ComparisonBarPercent is 100 minus the savings percentage, clamped to [0, 100].
func ComparisonBarPercent(savingsPercent int) int {
	return min(max(100-savingsPercent, 0), 100)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
