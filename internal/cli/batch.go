package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/combstruct/combstruct/internal/batch"
	"github.com/combstruct/combstruct/internal/logging"
)

// ExitCodeBatchFailures is returned when at least one scenario failed.
const ExitCodeBatchFailures = 2

// BatchExitError carries the process exit code for a batch with failed rows.
type BatchExitError struct {
	ExitCode int
	Reason   string
}

func (e *BatchExitError) Error() string {
	return e.Reason
}

// BatchParams holds the flags of the batch command.
type BatchParams struct {
	File          string
	Concurrency   int
	Output        string
	Equivalencies bool
}

// NewBatchCmd estimates every scenario in a YAML file.
func NewBatchCmd() *cobra.Command {
	var params BatchParams

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Estimate every scenario in a YAML file",
		Long: `Reads a YAML file with a top-level "scenarios" list and estimates each entry
concurrently. Results are printed in input order. Invalid scenarios are
reported per row and make the command exit with code 2.`,
		Example: `  combstruct batch --file scenarios.yaml
  combstruct batch --file scenarios.yaml --concurrency 8 --output ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeBatch(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.File, "file", "f", "", "Scenario file (YAML)")
	cmd.Flags().IntVar(&params.Concurrency, "concurrency", batch.DefaultConcurrency,
		fmt.Sprintf("Scenarios estimated in parallel (1-%d)", batch.MaxConcurrency))
	cmd.Flags().StringVar(&params.Output, "output", "", "Output format (table, json, ndjson)")
	cmd.Flags().BoolVar(&params.Equivalencies, "equivalencies", false, "Include CO2 equivalencies")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func executeBatch(cmd *cobra.Command, params BatchParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := resolveFormat(params.Output)
	if err != nil {
		return err
	}

	scenarios, err := batch.LoadScenarios(params.File)
	if err != nil {
		return err
	}

	proc, err := batch.NewProcessor(newService(params.Equivalencies), params.Concurrency)
	if err != nil {
		return err
	}
	proc.WithProgressCallback(func(s batch.ProgressSnapshot) {
		log.Debug().Ctx(ctx).
			Int("processed", s.Processed).
			Int("total", s.Total).
			Float64("percent", s.PercentComplete).
			Msg("batch progress")
	})

	report, err := proc.Run(ctx, scenarios)
	if err != nil {
		return err
	}

	if err = renderBatch(cmd.OutOrStdout(), format, report); err != nil {
		return err
	}

	if report.Failed > 0 {
		return &BatchExitError{
			ExitCode: ExitCodeBatchFailures,
			Reason:   fmt.Sprintf("%d of %d scenarios failed", report.Failed, len(report.Rows)),
		}
	}
	return nil
}

// batchRow is the JSON form of a batch.Row.
type batchRow struct {
	batch.Row
	Error string `json:"error,omitempty"`
}

func batchRows(report *batch.Report) []batchRow {
	rows := make([]batchRow, 0, len(report.Rows))
	for _, r := range report.Rows {
		row := batchRow{Row: r}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

func renderBatch(w io.Writer, format string, report *batch.Report) error {
	switch format {
	case outputFormatJSON:
		return writeJSON(w, struct {
			Rows   []batchRow `json:"rows"`
			Failed int        `json:"failed"`
		}{Rows: batchRows(report), Failed: report.Failed})
	case outputFormatNDJSON:
		return writeNDJSON(w, batchRows(report))
	}

	rows := make([][]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		if r.Failed() {
			rows = append(rows, []string{strconv.Itoa(r.Index + 1), r.Name, "-", "-", "-", "-", "-", "error: " + r.Err.Error()})
			continue
		}
		e := r.Estimate
		rows = append(rows, []string{
			strconv.Itoa(r.Index + 1),
			r.Name,
			string(e.Selection.BuildingType),
			strconv.Itoa(e.Selection.FloorAreaM2),
			e.Display.TotalCost,
			e.Display.Savings + " (" + e.Display.SavingsPercent + ")",
			e.Display.CO2Saved,
			"ok",
		})
	}

	if err := renderTable(w, []string{"#", "Scenario", "Type", "m²", "Total", "Savings", "CO2 saved", "Status"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d scenarios, %d failed, %s\n", len(report.Rows), report.Failed, report.Duration.Round(time.Millisecond))
	return err
}
