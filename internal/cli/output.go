package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/combstruct/combstruct/internal/config"
)

const (
	outputFormatTable  = config.FormatTable
	outputFormatJSON   = config.FormatJSON
	outputFormatNDJSON = config.FormatNDJSON
)

//nolint:gochecknoglobals // Shared CLI styles.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	savingsStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	headerCell   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	bodyCell     = lipgloss.NewStyle().Padding(0, 1)
)

// resolveFormat returns the --output value, or the configured default when
// the flag is empty.
func resolveFormat(flag string) (string, error) {
	format := flag
	if format == "" {
		format = config.GetGlobalConfig().Output.DefaultFormat
	}
	switch format {
	case outputFormatTable, outputFormatJSON, outputFormatNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (valid: table, json, ndjson)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// renderTable draws headers and rows with a normal border.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(labelStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeLine prints a padded label and its value.
func writeLine(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label+":")), value)
}
