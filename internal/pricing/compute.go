package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// ReferenceCurrency is the currency every Table price is expressed in.
const ReferenceCurrency = "PLN"

// Conversion turns reference-currency amounts into a display currency.
type Conversion struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// Reference is the identity conversion.
var Reference = Conversion{Currency: ReferenceCurrency, Rate: 1}

// Result is one estimate. Monetary fields are in Currency and rounded to
// whole units after conversion.
type Result struct {
	CostPerM2         int64  `json:"costPerM2"`
	TotalCost         int64  `json:"totalCost"`
	TraditionalCost   int64  `json:"traditionalCost"`
	Savings           int64  `json:"savings"`
	SavingsPercent    int    `json:"savingsPercent"`
	BuildWeeks        int    `json:"buildWeeks"`
	TraditionalMonths int    `json:"traditionalMonths"`
	CO2SavedKg        int64  `json:"co2SavedKg"`
	Currency          string `json:"currency"`
	Locale            string `json:"locale"`
}

// figures are the unrounded reference-currency amounts.
type figures struct {
	costPerM2       float64
	totalCost       float64
	traditionalCost float64
	savings         float64
}

// Compute prices sel against table and converts money with conv. It never
// fails: floor area and storeys are clamped and unknown enum values price
// neutrally. Use Selection.Validate to reject bad input first.
func Compute(table Table, sel Selection, conv Conversion) Result {
	sel = sel.Normalize()
	f := referenceFigures(table, sel)

	savingsPercent := 0
	if f.traditionalCost != 0 {
		savingsPercent = int(roundHalfUp(f.savings / f.traditionalCost * 100))
	}

	area := float64(sel.FloorAreaM2)
	co2 := (table.CO2TraditionalPerM2 - table.CO2ModularPerM2) * area

	return Result{
		CostPerM2:         roundHalfUp(f.costPerM2 * conv.Rate),
		TotalCost:         roundHalfUp(f.totalCost * conv.Rate),
		TraditionalCost:   roundHalfUp(f.traditionalCost * conv.Rate),
		Savings:           roundHalfUp(f.savings * conv.Rate),
		SavingsPercent:    savingsPercent,
		BuildWeeks:        int(math.Ceil(area/50)) + (sel.Storeys - 1),
		TraditionalMonths: int(math.Ceil(area/20)) + sel.Storeys*2,
		CO2SavedKg:        roundHalfUp(co2),
		Currency:          conv.Currency,
		Locale:            sel.Locale,
	}
}

// referenceFigures applies the modifiers in a fixed order; floating-point
// results depend on it.
func referenceFigures(table Table, sel Selection) figures {
	finishing := table.FinishingModifier(sel.FinishingLevel)

	cost := table.BaseCostPerM2
	cost *= 1 + table.BuildingTypeModifier(sel.BuildingType)
	cost *= 1 + float64(sel.Storeys-1)*table.StoreyLoading
	cost *= 1 + table.InsulationModifier(sel.InsulationGrade)
	cost *= 1 + finishing
	if sel.SelfBuild {
		cost *= table.SelfBuildFactor
	}

	area := float64(sel.FloorAreaM2)
	total := cost * area
	traditional := table.TraditionalCostPerM2 * area * (1 + finishing)

	return figures{
		costPerM2:       cost,
		totalCost:       total,
		traditionalCost: traditional,
		savings:         traditional - total,
	}
}

var half = decimal.NewFromFloat(0.5)

// roundHalfUp rounds to the nearest integer with ties going toward +Inf.
func roundHalfUp(x float64) int64 {
	return decimal.NewFromFloat(x).Add(half).Floor().IntPart()
}
