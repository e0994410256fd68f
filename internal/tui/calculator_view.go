package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/pricing"
)

const (
	fieldLabelWidth  = 18
	resultLabelWidth = 14
	barWidth         = 30
	sideBySideWidth  = 100
)

var fieldLabels = [fieldCount]string{
	FieldBuildingType: "Building type",
	FieldFloorArea:    "Floor area",
	FieldStoreys:      "Storeys",
	FieldInsulation:   "Insulation",
	FieldSelfBuild:    "Self-build",
	FieldFinishing:    "Finishing",
	FieldLocale:       "Language",
}

var optionLabels = map[string]string{
	string(pricing.SingleFamily):   "Single-family house",
	string(pricing.MultiUnit):      "Multi-unit residential",
	string(pricing.Commercial):     "Commercial",
	string(pricing.Superstructure): "Superstructure",
	string(pricing.Standard):       "Standard",
	string(pricing.Premium):        "Premium",
	string(pricing.Eco):            "Eco",
	string(pricing.Shell):          "Shell",
	string(pricing.Developer):      "Developer state",
	string(pricing.Turnkey):        "Turnkey",
}

// OptionLabel returns the human-readable name of an option value.
func OptionLabel(value string) string {
	if l, ok := optionLabels[value]; ok {
		return l
	}
	return value
}

// View implements tea.Model.
func (m *CalculatorModel) View() string {
	if m.state == StateQuitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Modular Build Cost Calculator"))
	sb.WriteString("\n\n")

	inputs := m.renderFields()
	results := RenderResultCard(m.estimate)
	if m.width >= sideBySideWidth {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, inputs, "  ", results))
	} else {
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, inputs, "", results))
	}
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(ErrorStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *CalculatorModel) renderFields() string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("Your building"))
	sb.WriteString("\n")

	for f := Field(0); f < fieldCount; f++ {
		focused := f == m.focused
		indicator := "  "
		if focused {
			indicator = FocusStyle.Render(IconFocus) + " "
		}
		sb.WriteString(indicator)
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", fieldLabelWidth, fieldLabels[f])))
		sb.WriteString(m.renderValue(f, focused))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *CalculatorModel) renderValue(f Field, focused bool) string {
	style := ValueStyle
	if focused {
		style = FocusStyle
	}

	switch f {
	case FieldBuildingType:
		return renderChoice(OptionLabel(string(m.sel.BuildingType)), style, focused)
	case FieldFloorArea:
		if m.state == StateTyping {
			return m.input.View() + LabelStyle.Render(" m²")
		}
		return renderChoice(fmt.Sprintf("%d m²", m.sel.FloorAreaM2), style, focused)
	case FieldStoreys:
		return renderChoice(strconv.Itoa(m.sel.Storeys), style, focused)
	case FieldInsulation:
		return renderChoice(OptionLabel(string(m.sel.InsulationGrade)), style, focused)
	case FieldSelfBuild:
		box := IconUnticked
		if m.sel.SelfBuild {
			box = IconChecked
		}
		return style.Render(box)
	case FieldFinishing:
		return renderChoice(OptionLabel(string(m.sel.FinishingLevel)), style, focused)
	case FieldLocale:
		p := m.svc.Locales().Resolve(m.sel.Locale)
		return renderChoice(fmt.Sprintf("%s (%s)", p.Name, p.Currency), style, focused)
	default:
		return ""
	}
}

func renderChoice(label string, style lipgloss.Style, focused bool) string {
	if !focused {
		return style.Render(label)
	}
	return MutedStyle.Render(IconArrowL+" ") + style.Render(label) + MutedStyle.Render(" "+IconArrowR)
}

// RenderResultCard renders the figures of est in a bordered card.
func RenderResultCard(est *estimator.Estimate) string {
	if est == nil {
		return CardStyle.Render(MutedStyle.Render("No estimate yet."))
	}
	d := est.Display

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("Your estimate"))
	sb.WriteString("\n")
	writeResultLine(&sb, "Cost per m²", ValueStyle.Render(d.CostPerM2))
	writeResultLine(&sb, "Total cost", ValueStyle.Render(d.TotalCost))
	writeResultLine(&sb, "Traditional", LabelStyle.Render(d.TraditionalCost))
	writeResultLine(&sb, "You save", SavingsStyle.Render(fmt.Sprintf("%s (%s)", d.Savings, d.SavingsPercent)))
	writeResultLine(&sb, "Build time", ValueStyle.Render(d.BuildTime)+LabelStyle.Render(" vs "+d.TraditionalTime))
	writeResultLine(&sb, "CO2 saved", SavingsStyle.Render(d.CO2Saved))

	if est.Equivalencies != nil {
		sb.WriteString(MutedStyle.Render(est.Equivalencies.DisplayText))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", resultLabelWidth, "Modular")))
	sb.WriteString(SavingsStyle.Render(RenderComparisonBar(d.ComparisonBarPercent, barWidth)))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", resultLabelWidth, "Traditional")))
	sb.WriteString(WarningStyle.Render(RenderComparisonBar(100, barWidth)))
	sb.WriteString("\n")

	for _, w := range est.Warnings {
		sb.WriteString(WarningStyle.Render("! " + w))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(MutedStyle.Render(d.Disclaimer))

	return CardStyle.Render(sb.String())
}

func writeResultLine(sb *strings.Builder, label, value string) {
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", resultLabelWidth, label)))
	sb.WriteString(value)
	sb.WriteString("\n")
}

// RenderComparisonBar draws a bar width cells wide, percent of it filled.
// percent is clamped to [0, 100].
func RenderComparisonBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = clamp(percent, 0, 100)
	filled := (percent*width + 50) / 100
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled)
}
