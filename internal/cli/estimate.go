package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/combstruct/combstruct/internal/config"
	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/logging"
	"github.com/combstruct/combstruct/internal/pricing"
	"github.com/combstruct/combstruct/internal/tui"
)

// EstimateParams holds the flags of the estimate command.
// Exported for testing.
type EstimateParams struct {
	BuildingType  string
	Area          int
	Storeys       int
	Insulation    string
	SelfBuild     bool
	Finishing     string
	Locale        string
	Output        string
	Equivalencies bool
}

// NewEstimateCmd creates the estimate command.
func NewEstimateCmd() *cobra.Command {
	var params EstimateParams
	defaults := pricing.DefaultSelection()

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate one modular building",
		Long: `Prices a modular building and compares it with traditional construction.

Every flag has a default, so "combstruct estimate" prices a 150 m² single-storey
single-family house with standard insulation in developer state.`,
		Example: `  # Defaults
  combstruct estimate

  # Multi-unit, premium insulation, self-build, priced in PLN
  combstruct estimate --building-type multi-unit --insulation premium --self-build --locale pl

  # JSON with CO2 equivalencies
  combstruct estimate --area 320 --storeys 3 --output json --equivalencies`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEstimate(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.BuildingType, "building-type", string(defaults.BuildingType),
		"Building type (singleFamily, multiUnit, commercial, superstructure)")
	cmd.Flags().IntVar(&params.Area, "area", defaults.FloorAreaM2,
		fmt.Sprintf("Floor area in m² (%d-%d)", pricing.MinFloorAreaM2, pricing.MaxFloorAreaM2))
	cmd.Flags().IntVar(&params.Storeys, "storeys", defaults.Storeys,
		fmt.Sprintf("Number of storeys (%d-%d)", pricing.MinStoreys, pricing.MaxStoreys))
	cmd.Flags().StringVar(&params.Insulation, "insulation", string(defaults.InsulationGrade),
		"Insulation grade (standard, premium, eco)")
	cmd.Flags().BoolVar(&params.SelfBuild, "self-build", defaults.SelfBuild, "Owner performs part of the assembly")
	cmd.Flags().StringVar(&params.Finishing, "finishing", string(defaults.FinishingLevel),
		"Finishing level (shell, developer, turnkey)")
	cmd.Flags().StringVar(&params.Locale, "locale", "", "Locale tag (default from configuration)")
	cmd.Flags().StringVar(&params.Output, "output", "", "Output format (table, json, ndjson)")
	cmd.Flags().BoolVar(&params.Equivalencies, "equivalencies", false, "Include CO2 equivalencies")

	return cmd
}

// BuildSelection turns flag values into a Selection. Enum spellings are
// case-insensitive and accept kebab or snake case. Unknown values are kept
// as typed so the estimator can reject them in strict mode or price them
// neutrally in lenient mode. Exported for testing.
func BuildSelection(params EstimateParams) pricing.Selection {
	return pricing.Selection{
		BuildingType:    pricing.BuildingType(params.BuildingType),
		FloorAreaM2:     params.Area,
		Storeys:         params.Storeys,
		InsulationGrade: pricing.InsulationGrade(params.Insulation),
		SelfBuild:       params.SelfBuild,
		FinishingLevel:  pricing.FinishingLevel(params.Finishing),
		Locale:          params.Locale,
	}.Canonical()
}

func executeEstimate(cmd *cobra.Command, params EstimateParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	start := time.Now()

	format, err := resolveFormat(params.Output)
	if err != nil {
		return err
	}
	if params.Locale == "" {
		params.Locale = config.GetGlobalConfig().Output.DefaultLocale
	}

	sel := BuildSelection(params)

	log.Debug().Ctx(ctx).
		Str("operation", "estimate").
		Str("building_type", string(sel.BuildingType)).
		Int("floor_area_m2", sel.FloorAreaM2).
		Str("locale", sel.Locale).
		Str("format", format).
		Msg("starting estimate")

	est, err := newService(params.Equivalencies).Estimate(ctx, sel)
	if err != nil {
		return err
	}

	if err = renderEstimate(cmd.OutOrStdout(), format, est); err != nil {
		return err
	}

	log.Info().Ctx(ctx).
		Str("operation", "estimate").
		Dur("duration_ms", time.Since(start)).
		Msg("estimate complete")
	return nil
}

func renderEstimate(w io.Writer, format string, est *estimator.Estimate) error {
	switch format {
	case outputFormatJSON:
		return writeJSON(w, est)
	case outputFormatNDJSON:
		return writeNDJSON(w, []*estimator.Estimate{est})
	default:
		renderEstimateTable(w, est)
		return nil
	}
}

func renderEstimateTable(w io.Writer, est *estimator.Estimate) {
	sel := est.Selection
	d := est.Display
	p := est.Profile()

	fmt.Fprintln(w, titleStyle.Render("Modular Build Estimate"))
	fmt.Fprintln(w, strings.Repeat("=", len("Modular Build Estimate")))
	fmt.Fprintln(w)

	writeLine(w, "Building type", tui.OptionLabel(string(sel.BuildingType)))
	writeLine(w, "Floor area", fmt.Sprintf("%d m² over %s", sel.FloorAreaM2, storeyLabel(sel.Storeys)))
	writeLine(w, "Insulation", tui.OptionLabel(string(sel.InsulationGrade)))
	writeLine(w, "Finishing", tui.OptionLabel(string(sel.FinishingLevel)))
	writeLine(w, "Self-build", yesNo(sel.SelfBuild))
	writeLine(w, "Locale", fmt.Sprintf("%s (%s)", p.Name, p.Currency))
	fmt.Fprintln(w)

	writeLine(w, "Cost per m²", d.CostPerM2)
	writeLine(w, "Total cost", d.TotalCost)
	writeLine(w, "Traditional cost", d.TraditionalCost)
	writeLine(w, "Savings", savingsStyle.Render(fmt.Sprintf("%s (%s)", d.Savings, d.SavingsPercent)))
	writeLine(w, "Build time", fmt.Sprintf("%s (traditional: %s)", d.BuildTime, d.TraditionalTime))
	writeLine(w, "CO2 saved", savingsStyle.Render(d.CO2Saved))
	writeLine(w, "Cost vs traditional", fmt.Sprintf("%s %d%%",
		tui.RenderComparisonBar(d.ComparisonBarPercent, 20), d.ComparisonBarPercent))

	if est.Equivalencies != nil {
		writeLine(w, "Equivalent to", est.Equivalencies.DisplayText)
	}

	if len(est.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warnStyle.Render("Adjusted input:"))
		for _, warning := range est.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle.Render(d.Disclaimer))
}

func storeyLabel(n int) string {
	if n == 1 {
		return "1 storey"
	}
	return fmt.Sprintf("%d storeys", n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
