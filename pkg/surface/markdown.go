package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/segap/segap/pkg/scoring"
)

// MarkdownRenderer renders a Report as a Markdown summary with a table.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *scoring.Report) error {
	_, err := io.WriteString(w, BuildMarkdownSummary(report))
	return err
}

// BuildMarkdownSummary returns the Markdown body for a report.
func BuildMarkdownSummary(report *scoring.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s\n\n", Title))
	sb.WriteString(fmt.Sprintf("Highest risk: %s **%s**\n\n", tierIcon(report.Highest()), report.Highest()))

	sb.WriteString("| Scenario | Detection | Pnd | Risk |\n")
	sb.WriteString("|----------|----------:|----:|------|\n")
	for _, e := range report.Entries {
		sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %s %s |\n",
			e.Scenario.Name, e.Detection, e.NonDetection, tierIcon(e.Tier), e.Tier))
	}
	sb.WriteString("\n")

	counts := report.TierCounts()
	sb.WriteString("### Tier counts\n\n")
	for _, t := range scoring.Tiers {
		sb.WriteString(fmt.Sprintf("- %s %s: %d\n", tierIcon(t), t, counts[t]))
	}

	return sb.String()
}

func tierIcon(t scoring.Tier) string {
	switch t {
	case scoring.TierCritical:
		return ":red_circle:"
	case scoring.TierHigh:
		return ":orange_circle:"
	case scoring.TierMedium:
		return ":yellow_circle:"
	default:
		return ":green_circle:"
	}
}
