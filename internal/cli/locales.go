package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/combstruct/combstruct/internal/locale"
)

// NewLocalesCmd lists the registered locales.
func NewLocalesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List supported locales and currencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(output)
			if err != nil {
				return err
			}
			return renderLocales(cmd.OutOrStdout(), format, newService(false).Locales())
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output format (table, json, ndjson)")
	return cmd
}

type localeOutput struct {
	locale.Profile
	Default bool `json:"default"`
}

func renderLocales(w io.Writer, format string, reg *locale.Registry) error {
	def := reg.DefaultProfile().Tag
	profiles := reg.Profiles()
	out := make([]localeOutput, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, localeOutput{Profile: p, Default: p.Tag == def})
	}

	switch format {
	case outputFormatJSON:
		return writeJSON(w, out)
	case outputFormatNDJSON:
		return writeNDJSON(w, out)
	}

	rows := make([][]string, 0, len(out))
	for _, o := range out {
		mark := ""
		if o.Default {
			mark = "*"
		}
		rows = append(rows, []string{
			o.Tag, o.Name, o.Currency, o.FormatMoney(1000),
			strconv.FormatFloat(o.Rate, 'f', -1, 64), mark,
		})
	}
	return renderTable(w, []string{"Tag", "Name", "Currency", "Example", "Rate from PLN", "Default"}, rows)
}
