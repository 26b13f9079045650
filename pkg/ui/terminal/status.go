package terminal

import (
	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/pterm/pterm"
)

// StatusStyle returns the pterm style for a hook status
func StatusStyle(status hooks.Status) *pterm.Style {
	switch status {
	case hooks.StatusCompleted:
		return pterm.NewStyle(pterm.FgGreen)
	case hooks.StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case hooks.StatusSkipped:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// StatusBadge renders a status as an inverted badge, used for progress
// lines
func StatusBadge(status hooks.Status) string {
	var style *pterm.Style
	switch status {
	case hooks.StatusCompleted:
		style = pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case hooks.StatusFailed:
		style = pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case hooks.StatusSkipped:
		style = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	default:
		style = pterm.NewStyle(pterm.BgGray, pterm.FgWhite)
	}
	return style.Sprint(" " + string(status) + " ")
}
