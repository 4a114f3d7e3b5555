package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/segap/segap/pkg/scoring"
)

// TerminalRenderer renders a Report as a fixed-width table with one colored
// tier label per scenario.
type TerminalRenderer struct {
	// ForceColor keeps tier colors when w is not a terminal. NO_COLOR wins.
	ForceColor bool
}

const (
	ruleWidth     = 82
	scenarioWidth = 48
	tierWidth     = 12
)

// TierColors maps every tier to its foreground color.
var TierColors = map[scoring.Tier]lipgloss.Color{
	scoring.TierCritical: lipgloss.Color("#FF0000"),
	scoring.TierHigh:     lipgloss.Color("#FF5500"),
	scoring.TierMedium:   lipgloss.Color("#FFAA00"),
	scoring.TierLow:      lipgloss.Color("#00AA00"),
}

func (r *TerminalRenderer) Render(w io.Writer, report *scoring.Report) error {
	lg := lipgloss.NewRenderer(w)
	switch {
	case noColor():
		lg.SetColorProfile(termenv.Ascii)
	case r.ForceColor:
		lg.SetColorProfile(termenv.TrueColor)
	}

	bold := lg.NewStyle().Bold(true)
	rule := strings.Repeat("═", ruleWidth)

	var sb strings.Builder
	sb.WriteString(bold.Render(Title) + "\n\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("%-*s %10s %20s\n", scenarioWidth, "Social engineering scenario", "Pnd", "Risk level"))
	sb.WriteString(rule + "\n")

	for _, e := range report.Entries {
		label := lg.NewStyle().
			Foreground(TierColors[e.Tier]).
			Bold(true).
			Width(tierWidth).
			Align(lipgloss.Center).
			Render(string(e.Tier))
		sb.WriteString(fmt.Sprintf("%-*s %9.4f     %s\n", scenarioWidth, e.Scenario.Name, e.NonDetection, label))
	}

	sb.WriteString(rule + "\n")

	counts := report.TierCounts()
	parts := make([]string, 0, len(scoring.Tiers))
	for _, t := range scoring.Tiers {
		if counts[t] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], strings.ToLower(string(t))))
	}
	if len(parts) > 0 {
		sb.WriteString(lg.NewStyle().Faint(true).Render(strings.Join(parts, " / ")) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
