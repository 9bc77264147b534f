// Package tui renders scan findings and batch reports for the terminal.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mendkit/mend/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderScan prints per-file findings sorted by priority, with the fix
// example when the rule carries one.
func RenderScan(issuesByFile map[string][]domain.Issue, exampleFor func(rule string) string) string {
	var b strings.Builder

	total := 0
	files := make([]string, 0, len(issuesByFile))
	for path, issues := range issuesByFile {
		if len(issues) == 0 {
			continue
		}
		files = append(files, path)
		total += len(issues)
	}
	sort.Strings(files)

	title := headerStyle.Render("mend")
	subtitle := dimStyle.Render("Scan Report")
	countLine := lipgloss.NewStyle().Bold(true).Foreground(countColor(total)).
		Render(fmt.Sprintf("%d issues in %d files", total, len(files)))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + countLine))
	b.WriteString("\n\n")

	if total == 0 {
		b.WriteString("  " + passStyle.Render("No issues found. The codebase is pristine.") + "\n")
		return b.String()
	}

	for _, path := range files {
		issues := append([]domain.Issue(nil), issuesByFile[path]...)
		sort.SliceStable(issues, func(i, j int) bool {
			return domain.PriorityRank(issues[i].Priority) < domain.PriorityRank(issues[j].Priority)
		})

		b.WriteString("  " + titleStyle.Render(path) + "\n")
		for _, issue := range issues {
			tag := priorityStyle(issue.Priority).Render(fmt.Sprintf("[%s]", issue.Priority))
			fmt.Fprintf(&b, "    %s %s %s\n", tag, fileStyle.Render(fmt.Sprintf("L%d", issue.Line)), issue.Message)
			if issue.LineText != "" {
				b.WriteString("      " + faintStyle.Render(issue.LineText) + "\n")
			}
			if exampleFor != nil {
				if ex := exampleFor(issue.Rule); ex != "" {
					for _, line := range strings.Split(ex, "\n") {
						b.WriteString("      " + infoTagStyle.Render(line) + "\n")
					}
				}
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + dimStyle.Render("Run 'mend fix' to remediate high-priority findings.") + "\n")
	return b.String()
}

// RenderReport prints the end-of-batch summary with branch handling hints.
func RenderReport(report domain.BatchReport) string {
	var b strings.Builder

	title := headerStyle.Render("mend")
	subtitle := dimStyle.Render("Fix Report")
	statLine := fmt.Sprintf("%s  %s  %s",
		passStyle.Render(fmt.Sprintf("%d fixed", report.Fixed)),
		failStyle.Render(fmt.Sprintf("%d reverted", report.Reverted)),
		dimStyle.Render(fmt.Sprintf("%d skipped", report.Skipped)),
	)
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + statLine))
	b.WriteString("\n\n")

	for _, r := range report.Results {
		renderResult(&b, r)
	}

	b.WriteString("\n  " + separatorLine + "\n\n")
	fmt.Fprintf(&b, "  %s %d issues across %d files\n",
		titleStyle.Render("Total:"), report.TotalIssues, report.TotalFiles)

	if report.Branch != "" {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Changes live on branch %s\n", titleStyle.Render(report.Branch))
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("Merge:   git merge %s", report.Branch)) + "\n")
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("Discard: git branch -D %s", report.Branch)) + "\n")
	}
	return b.String()
}

func renderResult(b *strings.Builder, r domain.FileResult) {
	switch r.Outcome {
	case domain.OutcomeFixed:
		delta := ""
		if r.LinesAdded > 0 || r.LinesRemoved > 0 {
			delta = " " + dimStyle.Render(fmt.Sprintf("(+%d/-%d)", r.LinesAdded, r.LinesRemoved))
		}
		fmt.Fprintf(b, "  %s %s  %s%s\n",
			passStyle.Render("✔"), r.Path,
			dimStyle.Render(fmt.Sprintf("%d → %d issues, %d attempt(s)", r.InitialIssues, r.RemainingIssues, r.Attempts)),
			delta)
	case domain.OutcomeReverted:
		fmt.Fprintf(b, "  %s %s  %s\n",
			failStyle.Render("✘"), r.Path,
			dimStyle.Render(fmt.Sprintf("reverted after %d attempt(s)", r.Attempts)))
		if r.FailureNote != "" {
			b.WriteString("      " + faintStyle.Render(r.FailureNote) + "\n")
		}
	case domain.OutcomeSkipped:
		fmt.Fprintf(b, "  %s %s  %s\n",
			warnStyle.Render("-"), r.Path, dimStyle.Render("skipped"))
		if r.FailureNote != "" {
			b.WriteString("      " + faintStyle.Render(r.FailureNote) + "\n")
		}
	}
}

func priorityStyle(p string) lipgloss.Style {
	switch p {
	case domain.PriorityHigh:
		return failStyle
	case domain.PriorityMedium:
		return warnStyle
	default:
		return infoTagStyle
	}
}

func countColor(total int) lipgloss.Color {
	if total == 0 {
		return success
	}
	return warning
}
