package main

import (
	"fmt"
	"strings"
)

var fieldLabels = [fieldCount]string{
	FieldTickers:    "Tickers",
	FieldMode:       "Mode",
	FieldPeriod:     "Period",
	FieldStart:      "Start",
	FieldEnd:        "End",
	FieldInterval:   "Interval",
	FieldActions:    "Actions",
	FieldAutoAdjust: "Auto adjust",
	FieldOutDir:     "Output folder",
}

var modeLabels = map[string]string{
	"range":  "Date range (start/end)",
	"period": "Duration (period)",
	"max":    "Maximum available (max)",
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Himada · Historical Market Data"))
	s.WriteString("\n\n")

	for field := range fieldCount {
		s.WriteString(m.fieldView(field))
		s.WriteString("\n")
	}

	s.WriteString("\n")

	switch {
	case m.alert != nil:
		s.WriteString(ErrorStyle.Render(m.alert.Title))
		s.WriteString("  ")
		s.WriteString(m.alert.Message)
	case m.running:
		s.WriteString("Downloading...")
	default:
		s.WriteString(HelpStyle.Render("Ready"))
	}

	s.WriteString("\n\n")
	s.WriteString(TitleStyle.Render("Log"))
	s.WriteString("\n")
	s.WriteString(m.logView.View())
	s.WriteString("\n")

	download := "ctrl+d: download"
	if m.running {
		download = DisabledStyle.Render(download)
	}

	s.WriteString(HelpStyle.Render(fmt.Sprintf("%s | tab: next field | ←/→: change | space: toggle | ctrl+l: clear log | esc: quit", download)))

	return s.String()
}

func (m Model) fieldView(field int) string {
	label := LabelStyle.Render(fieldLabels[field])

	var value string

	switch field {
	case FieldMode:
		value = choice(modeLabels[m.values.Mode.String()])
	case FieldPeriod:
		value = choice(m.values.Period)
	case FieldInterval:
		value = choice(m.values.Interval.String())
	case FieldActions:
		value = checkbox(m.values.Actions) + " Dividends and stock splits"
	case FieldAutoAdjust:
		value = checkbox(m.values.AutoAdjust) + " Adjust prices"
	default:
		value = m.inputs[field].View()
	}

	switch {
	case !m.enabled(field):
		return "  " + DisabledStyle.Render(fieldLabels[field]+"  "+stripChoice(value))
	case field == m.focus:
		return FocusedStyle.Render("> ") + FocusedStyle.Render(LabelStyle.Render(fieldLabels[field])) + value
	default:
		return "  " + label + value
	}
}

// stripChoice renders a disabled choice without its arrows.
func stripChoice(value string) string {
	return strings.TrimSuffix(strings.TrimPrefix(value, "‹ "), " ›")
}
