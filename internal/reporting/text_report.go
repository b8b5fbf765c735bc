package reporting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/learning-intelligence/backend/internal/models"
)

// Terminal color escapes for the text report. The web layer strips these
// with StripANSI before persisting.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes terminal color escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// GenerateTextReport renders the results as a human-readable terminal report
// with ANSI colors.
func (g *InsightGenerator) GenerateTextReport(results *models.Results) string {
	var b strings.Builder
	rule := strings.Repeat("=", 72)

	fmt.Fprintf(&b, "%s%s%s\n", ansiBold, rule, ansiReset)
	fmt.Fprintf(&b, "%sLEARNING INTELLIGENCE ANALYSIS REPORT%s\n", ansiBold, ansiReset)
	fmt.Fprintf(&b, "%s%s%s\n\n", ansiBold, rule, ansiReset)

	fmt.Fprintf(&b, "%sSummary%s\n", ansiCyan, ansiReset)
	for _, key := range []string{"total_students", "total_chapters", "total_records", "high_risk_count", "avg_score", "avg_completion_rate"} {
		if v, ok := results.SummaryStats[key]; ok {
			fmt.Fprintf(&b, "  %-22s %v\n", key+":", v)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%sHigh-Risk Students%s\n", ansiRed, ansiReset)
	if len(results.HighRiskStudents) == 0 {
		b.WriteString("  none identified\n")
	}
	for i, s := range results.HighRiskStudents {
		fmt.Fprintf(&b, "  %2d. %-16s risk=%.2f  avg_score=%.1f  completion=%.0f%%\n",
			i+1, s.StudentID, s.RiskScore, s.AvgScore, s.CompletionRate*100)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%sDifficult Chapters%s\n", ansiYellow, ansiReset)
	for i, c := range results.DifficultChapters {
		fmt.Fprintf(&b, "  %2d. %-24s difficulty=%.2f  avg_score=%.1f  completion=%.0f%%\n",
			i+1, c.Chapter, c.DifficultyIndex, c.AvgScore, c.CompletionRate*100)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%sCompletion Feature Importance%s\n", ansiCyan, ansiReset)
	for _, f := range results.CompletionFeatureImportance {
		fmt.Fprintf(&b, "  %-22s %5.1f%%\n", f.Feature+":", f.Importance*100)
	}

	return b.String()
}
