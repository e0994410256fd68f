package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/pricing"
)

func TestRenderComparisonBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		filled  int
	}{
		{name: "typical", percent: 54, width: 10, filled: 5},
		{name: "rounds half up", percent: 55, width: 10, filled: 6},
		{name: "full", percent: 100, width: 30, filled: 30},
		{name: "empty", percent: 0, width: 30, filled: 0},
		{name: "clamps high", percent: 150, width: 10, filled: 10},
		{name: "clamps low", percent: -20, width: 10, filled: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := RenderComparisonBar(tt.percent, tt.width)
			assert.Equal(t, tt.filled, strings.Count(bar, barFull))
			assert.Equal(t, tt.width-tt.filled, strings.Count(bar, barEmpty))
		})
	}

	assert.Empty(t, RenderComparisonBar(50, 0))
}

func TestRenderResultCard(t *testing.T) {
	m := NewCalculatorModel(t.Context(), estimator.New(estimator.WithEquivalencies(true)), pricing.DefaultSelection())
	card := RenderResultCard(m.Estimate())

	for _, want := range []string{"$650 / m²", "$97,500", "$180,000", "$82,500 (46%)", "3 weeks", "10 months", "78,750 kg", "tree seedlings", estimator.Disclaimer} {
		assert.Contains(t, card, want)
	}

	assert.Contains(t, RenderResultCard(nil), "No estimate yet.")
}

func TestCalculatorView(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "Modular Build Cost Calculator")
	assert.Contains(t, view, "Single-family house")
	assert.Contains(t, view, "150 m²")
	assert.Contains(t, view, IconUnticked)
	assert.Contains(t, view, "quit")

	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Contains(t, m.View(), "Your estimate")
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "Turnkey", OptionLabel("turnkey"))
	assert.Equal(t, "mystery", OptionLabel("mystery"))
}
