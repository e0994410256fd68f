package estimator

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combstruct/combstruct/internal/locale"
	"github.com/combstruct/combstruct/internal/logging"
	"github.com/combstruct/combstruct/internal/pricing"
)

func plainSpaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

func TestService_EstimateDefaultEnglish(t *testing.T) {
	svc := New()

	est, err := svc.Estimate(context.Background(), pricing.DefaultSelection())
	require.NoError(t, err)

	assert.Equal(t, "en", est.Selection.Locale)
	assert.Equal(t, "USD", est.Result.Currency)
	assert.Equal(t, int64(97500), est.Result.TotalCost)
	assert.Equal(t, "$97,500", est.Display.TotalCost)
	assert.Equal(t, "$650 / m²", est.Display.CostPerM2)
	assert.Equal(t, "$180,000", est.Display.TraditionalCost)
	assert.Equal(t, "$82,500", est.Display.Savings)
	assert.Equal(t, "46%", est.Display.SavingsPercent)
	assert.Equal(t, "3 weeks", est.Display.BuildTime)
	assert.Equal(t, "10 months", est.Display.TraditionalTime)
	assert.Equal(t, "78,750 kg", est.Display.CO2Saved)
	assert.Equal(t, 54, est.Display.ComparisonBarPercent)
	assert.Equal(t, Disclaimer, est.Display.Disclaimer)
	assert.Nil(t, est.Equivalencies)
	assert.Empty(t, est.Warnings)
	assert.Equal(t, "en", est.Profile().Tag)
}

func TestService_EstimatePolish(t *testing.T) {
	sel := pricing.DefaultSelection()
	sel.Locale = "pl"

	est, err := New().Estimate(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, "PLN", est.Result.Currency)
	assert.Equal(t, "390 000 zł", plainSpaces(est.Display.TotalCost))
	assert.Equal(t, "720 000 zł", plainSpaces(est.Display.TraditionalCost))
	assert.Equal(t, "2600 zł / m²", est.Display.CostPerM2)
}

func TestService_EmptyLocaleUsesDefault(t *testing.T) {
	sel := pricing.DefaultSelection()
	sel.Locale = ""

	est, err := New().Estimate(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, "en", est.Result.Locale)
}

func TestService_StrictRejects(t *testing.T) {
	svc := New()

	tests := []struct {
		name    string
		mutate  func(*pricing.Selection)
		wantErr error
	}{
		{"area", func(s *pricing.Selection) { s.FloorAreaM2 = 10 }, pricing.ErrFloorAreaOutOfRange},
		{"storeys", func(s *pricing.Selection) { s.Storeys = 4 }, pricing.ErrStoreysOutOfRange},
		{"building type", func(s *pricing.Selection) { s.BuildingType = "castle" }, pricing.ErrUnknownBuildingType},
		{"locale", func(s *pricing.Selection) { s.Locale = "fr" }, locale.ErrUnknownLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := pricing.DefaultSelection()
			tt.mutate(&sel)

			est, err := svc.Estimate(context.Background(), sel)
			assert.Nil(t, est)
			require.ErrorIs(t, err, ErrInvalidSelection)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_LenientAdjusts(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerWithWriter(&buf, logging.Config{Level: "warn", Format: logging.FormatJSON})
	ctx := logger.WithContext(context.Background())

	sel := pricing.Selection{
		BuildingType:    "castle",
		FloorAreaM2:     900,
		Storeys:         0,
		InsulationGrade: "straw",
		FinishingLevel:  pricing.Turnkey,
		Locale:          "fr",
	}

	est, err := New(WithStrict(false)).Estimate(ctx, sel)
	require.NoError(t, err)

	assert.Equal(t, pricing.SingleFamily, est.Selection.BuildingType)
	assert.Equal(t, pricing.MaxFloorAreaM2, est.Selection.FloorAreaM2)
	assert.Equal(t, pricing.MinStoreys, est.Selection.Storeys)
	assert.Equal(t, pricing.Standard, est.Selection.InsulationGrade)
	assert.Equal(t, pricing.Turnkey, est.Selection.FinishingLevel)
	assert.Equal(t, "en", est.Selection.Locale)
	assert.Len(t, est.Warnings, 5)
	assert.Contains(t, buf.String(), "selection outside contract")

	want := pricing.Compute(pricing.DefaultTable(), est.Selection, pricing.Conversion{Currency: "USD", Rate: 0.25})
	assert.Equal(t, want, est.Result)
}

func TestService_Equivalencies(t *testing.T) {
	est, err := New(WithEquivalencies(true)).Estimate(context.Background(), pricing.DefaultSelection())
	require.NoError(t, err)
	require.NotNil(t, est.Equivalencies)
	assert.InDelta(t, 78750.0, est.Equivalencies.SavedKg, 0)
	assert.Len(t, est.Equivalencies.Results, 3)
}

func TestService_CustomTable(t *testing.T) {
	table := pricing.DefaultTable()
	table.BaseCostPerM2 = 3000

	svc := New(WithTable(table))
	assert.InDelta(t, 3000.0, svc.Table().BaseCostPerM2, 0)
	assert.True(t, svc.Strict())

	sel := pricing.DefaultSelection()
	sel.Locale = "pl"
	est, err := svc.Estimate(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), est.Result.CostPerM2)
}

func TestComparisonBarPercent(t *testing.T) {
	assert.Equal(t, 54, ComparisonBarPercent(46))
	assert.Equal(t, 100, ComparisonBarPercent(0))
	assert.Equal(t, 100, ComparisonBarPercent(-12))
	assert.Equal(t, 0, ComparisonBarPercent(130))
}

func TestNewDisplay_Singular(t *testing.T) {
	d := NewDisplay(locale.Default().DefaultProfile(), pricing.Result{BuildWeeks: 1, TraditionalMonths: 1})
	assert.Equal(t, "1 week", d.BuildTime)
	assert.Equal(t, "1 month", d.TraditionalTime)
}

func BenchmarkService_Estimate(b *testing.B) {
	svc := New(WithEquivalencies(true))
	ctx := context.Background()
	sel := pricing.DefaultSelection()
	for b.Loop() {
		_, _ = svc.Estimate(ctx, sel)
	}
}
