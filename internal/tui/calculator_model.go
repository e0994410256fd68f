package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/logging"
	"github.com/combstruct/combstruct/internal/pricing"
)

// Field is one row of the input surface.
type Field int

const (
	FieldBuildingType Field = iota
	FieldFloorArea
	FieldStoreys
	FieldInsulation
	FieldSelfBuild
	FieldFinishing
	FieldLocale

	fieldCount
)

// CalculatorState is the mode the calculator is in.
type CalculatorState int

const (
	// StateEditing is navigating and adjusting fields.
	StateEditing CalculatorState = iota
	// StateTyping is entering a floor area by hand.
	StateTyping
	// StateQuitting means the program is exiting.
	StateQuitting
)

const (
	areaStep    = 10
	areaBigStep = 50

	defaultWidth  = 80
	defaultHeight = 24
)

var errAreaNotNumber = errors.New("floor area must be a whole number of square metres")

// CalculatorModel is the Bubble Tea model of the cost calculator. Every
// change to the selection recomputes the estimate synchronously.
type CalculatorModel struct {
	ctx context.Context
	svc *estimator.Service

	keys  keyMap
	help  help.Model
	input textinput.Model

	initial  pricing.Selection
	sel      pricing.Selection
	focused  Field
	state    CalculatorState
	estimate *estimator.Estimate
	err      error

	width  int
	height int
}

// NewCalculatorModel starts the calculator at sel and computes its estimate.
func NewCalculatorModel(ctx context.Context, svc *estimator.Service, sel pricing.Selection) *CalculatorModel {
	if svc == nil {
		svc = estimator.New()
	}

	in := textinput.New()
	in.Placeholder = strconv.Itoa(pricing.DefaultSelection().FloorAreaM2)
	in.CharLimit = 3
	in.Width = 6

	m := &CalculatorModel{
		ctx:     ctx,
		svc:     svc,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   in,
		initial: sel,
		sel:     sel,
		state:   StateEditing,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.recalculate()
	return m
}

// Init implements tea.Model.
func (m *CalculatorModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.state == StateTyping {
			return m.handleTypingKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *CalculatorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = StateQuitting
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.focused = (m.focused + fieldCount - 1) % fieldCount

	case key.Matches(msg, m.keys.Down):
		m.focused = (m.focused + 1) % fieldCount

	case key.Matches(msg, m.keys.Prev):
		m.adjust(-1, areaStep)

	case key.Matches(msg, m.keys.Next):
		m.adjust(1, areaStep)

	case key.Matches(msg, m.keys.BigPrev):
		m.adjust(-1, areaBigStep)

	case key.Matches(msg, m.keys.BigNext):
		m.adjust(1, areaBigStep)

	case key.Matches(msg, m.keys.Toggle):
		if m.focused == FieldSelfBuild {
			m.sel.SelfBuild = !m.sel.SelfBuild
			m.recalculate()
		}

	case key.Matches(msg, m.keys.Edit):
		if m.focused == FieldFloorArea {
			m.state = StateTyping
			m.input.SetValue(strconv.Itoa(m.sel.FloorAreaM2))
			m.input.CursorEnd()
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Reset):
		m.sel = m.initial
		m.recalculate()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

//nolint:exhaustive // Only keys that finish or cancel typing are handled here.
func (m *CalculatorModel) handleTypingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.state = StateQuitting
		return m, tea.Quit

	case tea.KeyEnter:
		m.state = StateEditing
		m.input.Blur()
		area, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.err = errAreaNotNumber
			return m, nil
		}
		m.sel.FloorAreaM2 = clamp(area, pricing.MinFloorAreaM2, pricing.MaxFloorAreaM2)
		m.recalculate()
		return m, nil

	case tea.KeyEsc:
		m.state = StateEditing
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// adjust moves the focused field dir steps; step only applies to the area.
func (m *CalculatorModel) adjust(dir, step int) {
	switch m.focused {
	case FieldBuildingType:
		m.sel.BuildingType = cycle(pricing.BuildingTypes(), m.sel.BuildingType, dir)
	case FieldFloorArea:
		m.sel.FloorAreaM2 = clamp(m.sel.FloorAreaM2+dir*step, pricing.MinFloorAreaM2, pricing.MaxFloorAreaM2)
	case FieldStoreys:
		m.sel.Storeys = clamp(m.sel.Storeys+dir, pricing.MinStoreys, pricing.MaxStoreys)
	case FieldInsulation:
		m.sel.InsulationGrade = cycle(pricing.InsulationGrades(), m.sel.InsulationGrade, dir)
	case FieldSelfBuild:
		m.sel.SelfBuild = !m.sel.SelfBuild
	case FieldFinishing:
		m.sel.FinishingLevel = cycle(pricing.FinishingLevels(), m.sel.FinishingLevel, dir)
	case FieldLocale:
		m.sel.Locale = cycle(m.svc.Locales().Tags(), m.sel.Locale, dir)
	default:
		return
	}
	m.recalculate()
}

func (m *CalculatorModel) recalculate() {
	est, err := m.svc.Estimate(m.ctx, m.sel)
	if err != nil {
		logging.FromContext(m.ctx).Debug().
			Ctx(m.ctx).
			Str("component", "tui").
			Err(err).
			Msg("calculator selection rejected")
		m.err = fmt.Errorf("cannot estimate: %w", err)
		return
	}
	m.err = nil
	m.estimate = est
	m.sel.Locale = est.Selection.Locale
}

// Selection returns the current selection.
func (m *CalculatorModel) Selection() pricing.Selection { return m.sel }

// Estimate returns the latest successful estimate.
func (m *CalculatorModel) Estimate() *estimator.Estimate { return m.estimate }

// Focused returns the focused field.
func (m *CalculatorModel) Focused() Field { return m.focused }

// State returns the current state.
func (m *CalculatorModel) State() CalculatorState { return m.state }

// Err returns the last error shown to the user, if any.
func (m *CalculatorModel) Err() error { return m.err }

// cycle steps through values with wrap-around. A current value that is not
// in values starts from the first entry.
func cycle[T comparable](values []T, current T, dir int) T {
	if len(values) == 0 {
		return current
	}
	idx := -1
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return values[0]
	}
	n := len(values)
	return values[((idx+dir)%n+n)%n]
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
