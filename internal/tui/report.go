package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pointr/internal/points"
)

func dayReportCmd(e *points.Engine, sel daySelector) tea.Cmd {
	return func() tea.Msg {
		report, err := e.EmployeeDay(context.Background(), sel.employeeID, sel.date)
		if err != nil {
			return failure("load day", err)
		}
		return dayReportMsg{sel: sel, report: report}
	}
}

// renderReportTable renders the rows of one point report plus its
// total. Rows whose task vanished from the reference list show the raw
// task id and zero points, same as the engine produced them.
func renderReportTable(rep points.Report, withDates bool) string {
	if len(rep.Rows) == 0 {
		return mutedStyle.Render("  No assignments recorded.")
	}

	var out []string

	if withDates {
		out = append(out, mutedStyle.Render(fmt.Sprintf("  %-12s %-28s %-10s %8s %8s %8s",
			"Date", "Task", "Ref", "Coef", "Qty", "Points")))
	} else {
		out = append(out, mutedStyle.Render(fmt.Sprintf("  %-28s %-10s %8s %8s %8s",
			"Task", "Ref", "Coef", "Qty", "Points")))
	}

	for _, r := range rep.Rows {
		label := r.Label
		style := normalItemStyle
		if r.Label == r.TaskID && r.Coefficient == 0 {
			style = mutedStyle
		}
		if withDates {
			out = append(out, style.Render(fmt.Sprintf("  %-12s %-28s %-10s %8s %8s %8s",
				r.Date, label, r.Reference, formatNumber(r.Coefficient), formatNumber(r.Quantity), formatNumber(r.Points))))
		} else {
			out = append(out, style.Render(fmt.Sprintf("  %-28s %-10s %8s %8s %8s",
				label, r.Reference, formatNumber(r.Coefficient), formatNumber(r.Quantity), formatNumber(r.Points))))
		}
	}

	out = append(out, totalStyle.Render(fmt.Sprintf("  Total: %s points", formatNumber(rep.Total))))

	return strings.Join(out, "\n")
}
