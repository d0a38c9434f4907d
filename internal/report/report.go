// Package report renders cycle aggregates as a terminal clinical summary:
// a metric table across severities, guideline-style recommendations per
// grade, waveform charts, and a healthy-versus-diseased comparison.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/valveflow/internal/metrics"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#88aadd"))

	gradeStyles = map[metrics.Grade]lipgloss.Style{
		metrics.GradeNormal:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		metrics.GradeMild:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ccff00")),
		metrics.GradeModerate: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		metrics.GradeSevere:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")),
	}
)

func styledGrade(g metrics.Grade) string {
	if style, ok := gradeStyles[g]; ok {
		return style.Render(string(g))
	}
	return string(g)
}

// Recommendation maps a severity grade to its management guidance, following
// the ACC/AHA follow-up intervals for aortic stenosis.
func Recommendation(g metrics.Grade) string {
	switch g {
	case metrics.GradeSevere:
		return "Refer for valve replacement evaluation (surgical AVR or TAVR)."
	case metrics.GradeModerate:
		return "Echocardiographic follow-up every 1-2 years; monitor symptoms."
	case metrics.GradeMild:
		return "Echocardiographic follow-up every 3-5 years."
	default:
		return "No intervention indicated; routine clinical follow-up."
	}
}

// SummaryTable renders one row of cycle metrics per severity.
func SummaryTable(aggs []metrics.Aggregate) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEVERITY\tPEAK VEL (cm/s)\tMEAN GRAD (mmHg)\tEOA (cm²)\tCO (L/min)\tGRADE")
	for _, a := range aggs {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.2f\t%.1f\t%s\n",
			a.Severity, a.PeakVelocity, a.MeanGradient, a.MaxEOA, a.CardiacOutput, styledGrade(a.Grade))
	}
	w.Flush()
	return sb.String()
}

// Waveform plots a metric trace as an ASCII chart.
func Waveform(caption string, values []float64) string {
	if len(values) < 2 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// Comparison summarizes a diseased valve against the healthy baseline as
// relative changes.
func Comparison(healthy, diseased metrics.Aggregate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s vs %s:\n", diseased.Severity, healthy.Severity)
	fmt.Fprintf(&sb, "  orifice area  %+.0f%%\n", pctChange(healthy.MaxEOA, diseased.MaxEOA))
	fmt.Fprintf(&sb, "  peak velocity %+.0f%%\n", pctChange(healthy.PeakVelocity, diseased.PeakVelocity))
	fmt.Fprintf(&sb, "  cardiac output %+.0f%%\n", pctChange(healthy.CardiacOutput, diseased.CardiacOutput))
	return sb.String()
}

func pctChange(base, val float64) float64 {
	if base == 0 {
		return 0
	}
	return (val - base) / base * 100
}

// Clinical assembles the full report: summary table, per-severity grading
// with recommendations, velocity and gradient waveforms, and comparisons
// against the healthy baseline when one is present.
func Clinical(aggs []metrics.Aggregate, samplesBySeverity map[string][]metrics.Sample) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("VALVE HEMODYNAMICS REPORT"))
	sb.WriteString("\n\n")
	sb.WriteString(SummaryTable(aggs))
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("ASSESSMENT"))
	sb.WriteString("\n")
	for _, a := range aggs {
		fmt.Fprintf(&sb, "  %s (%s): %s\n", a.Severity, styledGrade(a.Grade), Recommendation(a.Grade))
	}
	sb.WriteString("\n")

	var healthy *metrics.Aggregate
	for i := range aggs {
		if aggs[i].Grade == metrics.GradeNormal {
			healthy = &aggs[i]
			break
		}
	}
	if healthy != nil {
		sb.WriteString(sectionStyle.Render("COMPARISON TO BASELINE"))
		sb.WriteString("\n")
		for _, a := range aggs {
			if a.Severity == healthy.Severity {
				continue
			}
			sb.WriteString(Comparison(*healthy, a))
		}
		sb.WriteString("\n")
	}

	for _, a := range aggs {
		samples := samplesBySeverity[a.Severity]
		if len(samples) < 2 {
			continue
		}
		velocities := make([]float64, len(samples))
		gradients := make([]float64, len(samples))
		for i, s := range samples {
			velocities[i] = s.PeakVelocity
			gradients[i] = s.PressureGradient
		}
		sb.WriteString(Waveform(fmt.Sprintf("peak velocity, cm/s (%s)", a.Severity), velocities))
		sb.WriteString("\n\n")
		sb.WriteString(Waveform(fmt.Sprintf("probe gradient, mmHg (%s)", a.Severity), gradients))
		sb.WriteString("\n\n")
	}

	return sb.String()
}
