package check

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

var colorSuccess = lipgloss.Color("#00B785")

var styleOperational = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
var styleFailed = lipgloss.NewStyle().Foreground(lipgloss.Color("#e1244c")).Bold(true)
var styleNotTested = lipgloss.NewStyle().Foreground(lipgloss.Color("#5D689C")).Bold(true)
var styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0a400")).Bold(true)
var styleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("#407FF8")).Bold(true)
var styleDetail = lipgloss.NewStyle().PaddingLeft(4)
var styleTotals = lipgloss.NewStyle().Margin(1, 0, 0, 0)

// Report is the final, immutable view of one run.
type Report struct {
	Summary    Summary           `json:"summary"`
	Subsystems []SubsystemRecord `json:"subsystems"`
}

func NewReport(rec *Recorder) Report {
	return Report{
		Summary:    rec.Summary(),
		Subsystems: rec.Subsystems(),
	}
}

// ExitCode is 0 when no probe failed. Warnings alone never cause a nonzero
// exit.
func (r Report) ExitCode() int {
	if r.Summary.Failed == 0 {
		return 0
	}
	return 1
}

// SuccessRate is round(passed / total * 100), or 0 when nothing ran.
func (r Report) SuccessRate() int {
	if r.Summary.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Summary.Passed) / float64(r.Summary.Total) * 100))
}

// StatusLabel maps a subsystem status to its report wording.
func StatusLabel(s Status) string {
	switch s {
	case StatusPassed:
		return "OPERATIONAL"
	case StatusFailed:
		return "FAILED"
	default:
		return "NOT TESTED"
	}
}

func (r Report) Render() string {
	lines := make([]string, 0, len(r.Subsystems)*2+2)

	for _, sub := range r.Subsystems {
		lines = append(lines, subsystemLine(sub))
		for _, res := range sub.Results {
			lines = append(lines, styleDetail.Render(resultLine(res)))
		}
	}

	lines = append(lines, styleTotals.Render(lipgloss.JoinHorizontal(lipgloss.Left,
		"probes: ",
		styleHighlight.Render(fmt.Sprintf("%d", r.Summary.Total)), " total, ",
		styleOperational.Render(fmt.Sprintf("%d", r.Summary.Passed)), " passed, ",
		styleFailed.Render(fmt.Sprintf("%d", r.Summary.Failed)), " failed, ",
		styleWarning.Render(fmt.Sprintf("%d", r.Summary.Warnings)), " warnings",
	)))
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Left,
		"success rate: ", styleHighlight.Render(fmt.Sprintf("%d%%", r.SuccessRate())),
	))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func subsystemLine(sub SubsystemRecord) string {
	label := StatusLabel(sub.Status)

	switch sub.Status {
	case StatusPassed:
		return lipgloss.JoinHorizontal(lipgloss.Left,
			styleOperational.Render("▶︎"), " ",
			styleHighlight.Render(sub.Key), " (",
			styleOperational.Render(label), ")",
		)
	case StatusFailed:
		return lipgloss.JoinHorizontal(lipgloss.Left,
			styleFailed.Render("◼︎"), " ",
			styleHighlight.Render(sub.Key), " (",
			styleFailed.Render(label), ")",
		)
	default:
		return lipgloss.JoinHorizontal(lipgloss.Left,
			styleNotTested.Render("◼︎"), " ",
			styleHighlight.Render(sub.Key), " (",
			styleNotTested.Render(label), ")",
		)
	}
}

func resultLine(res Result) string {
	var marker string
	switch res.Outcome {
	case OutcomeFailed:
		marker = styleFailed.Render("✗")
	case OutcomeWarning:
		marker = styleWarning.Render("!")
	default:
		marker = styleOperational.Render("✓")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Left, marker, " ", res.Name)
	if res.Detail != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Left, line, ": ", res.Detail)
	}
	return line
}
