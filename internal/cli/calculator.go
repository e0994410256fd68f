package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/combstruct/combstruct/internal/config"
	"github.com/combstruct/combstruct/internal/logging"
	"github.com/combstruct/combstruct/internal/pricing"
	"github.com/combstruct/combstruct/internal/tui"
)

// ErrNotTerminal is returned when the calculator is started without a TTY.
var ErrNotTerminal = errors.New("calculator requires an interactive terminal; use \"combstruct estimate\" instead")

// NewCalculatorCmd starts the interactive calculator.
func NewCalculatorCmd() *cobra.Command {
	var localeTag string

	cmd := &cobra.Command{
		Use:   "calculator",
		Short: "Interactive cost calculator",
		Long: `Opens a terminal calculator. Every change to the building is priced
immediately. Use the arrow keys to move and adjust, enter to type a floor
area, r to reset and q to quit. The final estimate is printed on exit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}
			return runCalculator(cmd, localeTag)
		},
	}
	cmd.Flags().StringVar(&localeTag, "locale", "", "Locale tag (default from configuration)")
	return cmd
}

func runCalculator(cmd *cobra.Command, localeTag string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	sel := pricing.DefaultSelection()
	sel.Locale = localeTag
	if sel.Locale == "" {
		sel.Locale = config.GetGlobalConfig().Output.DefaultLocale
	}

	model := tui.NewCalculatorModel(ctx, newService(true), sel)
	log.Debug().Ctx(ctx).Str("locale", sel.Locale).Msg("launching calculator")

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running calculator: %w", err)
	}

	m, ok := final.(*tui.CalculatorModel)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}
	if est := m.Estimate(); est != nil {
		renderEstimateTable(cmd.OutOrStdout(), est)
	}
	return nil
}
