package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/combstruct/combstruct/internal/pricing"
	"github.com/combstruct/combstruct/internal/tui"
)

// NewOptionsCmd lists every selectable value with its cost modifier.
func NewOptionsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List building options and their cost modifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(output)
			if err != nil {
				return err
			}
			dims := newService(false).Table().Dimensions()
			return renderOptions(cmd.OutOrStdout(), format, dims)
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output format (table, json, ndjson)")
	return cmd
}

func renderOptions(w io.Writer, format string, dims []pricing.Dimension) error {
	switch format {
	case outputFormatJSON:
		return writeJSON(w, dims)
	case outputFormatNDJSON:
		return writeNDJSON(w, dims)
	}

	var rows [][]string
	for _, d := range dims {
		for _, o := range d.Options {
			rows = append(rows, []string{d.Name, o.Value, tui.OptionLabel(o.Value), formatModifier(o.Modifier)})
		}
	}
	rows = append(rows,
		[]string{"floorAreaM2", fmt.Sprintf("%d-%d", pricing.MinFloorAreaM2, pricing.MaxFloorAreaM2), "Floor area in m²", "-"},
		[]string{"storeys", fmt.Sprintf("%d-%d", pricing.MinStoreys, pricing.MaxStoreys), "Storeys", "-"},
	)
	return renderTable(w, []string{"Dimension", "Value", "Label", "Modifier"}, rows)
}

// formatModifier renders an additive modifier as a signed percentage.
func formatModifier(m float64) string {
	return fmt.Sprintf("%+d%%", int(math.Round(m*100)))
}
