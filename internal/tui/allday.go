package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pointr/internal/cache"
	"pointr/internal/points"
)

// allDayModel shows every employee's points for a single date, grouped
// per employee with per-employee totals. Employees with no assignments
// that day are omitted.
type allDayModel struct {
	cache  *cache.Ref
	engine *points.Engine
	width  int
	height int

	editing   bool
	dateInput string
	date      string

	reports []points.EmployeeDayReport
	loaded  bool
	loading bool
}

func newAllDayModel(c *cache.Ref, e *points.Engine) allDayModel {
	return allDayModel{cache: c, engine: e, editing: true, dateInput: today()}
}

func (m *allDayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m allDayModel) enter() (allDayModel, tea.Cmd) {
	cmds := []tea.Cmd{refreshEmployeesCmd(m.cache), refreshTasksCmd(m.cache)}
	if !m.editing && m.date != "" {
		m.loading = true
		cmds = append(cmds, m.queryCmd(m.date))
	}
	return m, tea.Batch(cmds...)
}

func (m allDayModel) queryCmd(date string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		reports, err := engine.AllEmployeesDay(context.Background(), date)
		if err != nil {
			return failure("load all employees", err)
		}
		return allDayReportMsg{date: date, reports: reports}
	}
}

func (m allDayModel) update(msg tea.Msg) (allDayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case allDayReportMsg:
		if msg.date != m.date {
			return m, nil // stale response for an old date
		}
		m.loading = false
		m.loaded = true
		m.reports = msg.reports
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateDatePick(msg)
		}
		return m.updateReport(msg)
	}
	return m, nil
}

func (m allDayModel) updateDatePick(msg tea.KeyMsg) (allDayModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if !validDate(m.dateInput) {
			return m, func() tea.Msg {
				return statusMsg{text: "Date must be YYYY-MM-DD", isError: true}
			}
		}
		m.date = m.dateInput
		m.editing = false
		m.loaded = false
		m.loading = true
		return m, m.queryCmd(m.date)
	case "backspace":
		if len(m.dateInput) > 0 {
			m.dateInput = m.dateInput[:len(m.dateInput)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.dateInput += string(msg.Runes)
		}
	}
	return m, nil
}

func (m allDayModel) updateReport(msg tea.KeyMsg) (allDayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.editing = true
		m.dateInput = m.date
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.queryCmd(m.date)
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		d, err := time.Parse(dateLayout, m.date)
		if err != nil {
			return m, nil
		}
		if key.Matches(msg, keys.Left) {
			d = d.AddDate(0, 0, -1)
		} else {
			d = d.AddDate(0, 0, 1)
		}
		m.date = d.Format(dateLayout)
		m.loaded = false
		m.loading = true
		return m, m.queryCmd(m.date)
	}
	return m, nil
}

func (m allDayModel) view() string {
	w := m.width - 4

	if m.editing {
		var out []string
		out = append(out, titleStyle.Render("All Employees — Points by Day"))
		out = append(out, "")
		out = append(out, "  Date: "+highlightStyle.Render(m.dateInput+"▌"))
		out = append(out, "")
		out = append(out, mutedStyle.Render("  YYYY-MM-DD   enter: confirm"))
		return activePanelStyle.Width(w).Render(strings.Join(out, "\n"))
	}

	var out []string
	out = append(out, titleStyle.Render("All Employees — "+m.date))
	out = append(out, "")

	switch {
	case m.loading:
		out = append(out, mutedStyle.Render("  Loading..."))
	case len(m.reports) == 0 && m.loaded:
		out = append(out, mutedStyle.Render("  No assignments recorded on this date."))
	default:
		for i, r := range m.reports {
			if i > 0 {
				out = append(out, "")
			}
			header := highlightStyle.Render("  " + r.Employee.Name)
			if r.Employee.Function != "" {
				header += mutedStyle.Render("  (" + r.Employee.Function + ")")
			}
			out = append(out, header)
			out = append(out, renderReportTable(r.Report, false))
		}
	}

	out = append(out, "")
	out = append(out, mutedStyle.Render("  ←/→: prev/next day  r: reload  esc: change date"))

	return panelStyle.Width(w).Render(strings.Join(out, "\n"))
}
