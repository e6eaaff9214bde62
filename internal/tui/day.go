package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pointr/internal/api"
	"pointr/internal/cache"
	"pointr/internal/points"
)

type dayStage int

const (
	dayPickEmployee dayStage = iota
	dayPickDate
	dayShowReport
)

// dayModel shows one employee's point report for a single day.
type dayModel struct {
	cache  *cache.Ref
	engine *points.Engine
	width  int
	height int

	stage        dayStage
	empCursor    int
	empPage      int
	employeeID   string
	employeeName string

	dateInput string
	date      string

	sel       daySelector
	report    points.Report
	hasReport bool
	loading   bool
}

func newDayModel(c *cache.Ref, e *points.Engine) dayModel {
	return dayModel{cache: c, engine: e, empPage: 1}
}

func (m *dayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// enter refreshes the reference mirrors and, when a selection already
// exists, re-runs its query against fresh data.
func (m dayModel) enter() (dayModel, tea.Cmd) {
	cmds := []tea.Cmd{refreshEmployeesCmd(m.cache), refreshTasksCmd(m.cache)}
	if m.stage == dayShowReport {
		m.loading = true
		cmds = append(cmds, dayReportCmd(m.engine, m.sel))
	}
	return m, tea.Batch(cmds...)
}

func (m dayModel) currentReport() (points.Report, bool) {
	return m.report, m.hasReport
}

func (m dayModel) visibleEmployees() ([]api.Employee, int) {
	return cache.Paginate(m.cache.Employees(), m.empPage, cache.PageSize)
}

func (m dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dayReportMsg:
		if msg.sel != m.sel {
			return m, nil // stale response for an old employee/date
		}
		m.loading = false
		m.report = msg.report
		m.hasReport = true
		return m, nil

	case tea.KeyMsg:
		switch m.stage {
		case dayPickEmployee:
			return m.updateEmployeePick(msg)
		case dayPickDate:
			return m.updateDatePick(msg)
		default:
			return m.updateReport(msg)
		}
	}
	return m, nil
}

func (m dayModel) updateEmployeePick(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	rows, pages := m.visibleEmployees()

	switch {
	case key.Matches(msg, keys.Up):
		if m.empCursor > 0 {
			m.empCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.empCursor < len(rows)-1 {
			m.empCursor++
		}
	case key.Matches(msg, keys.Left):
		if m.empPage > 1 {
			m.empPage--
			m.empCursor = 0
		}
	case key.Matches(msg, keys.Right):
		if m.empPage < pages {
			m.empPage++
			m.empCursor = 0
		}
	case key.Matches(msg, keys.Enter):
		if m.empCursor < len(rows) {
			e := rows[m.empCursor]
			m.employeeID = e.ID
			m.employeeName = e.Name
			if m.date == "" {
				m.dateInput = today()
			} else {
				m.dateInput = m.date
			}
			m.stage = dayPickDate
		}
	}
	return m, nil
}

func (m dayModel) updateDatePick(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stage = dayPickEmployee
	case "enter":
		if !validDate(m.dateInput) {
			return m, func() tea.Msg {
				return statusMsg{text: "Date must be YYYY-MM-DD", isError: true}
			}
		}
		m.date = m.dateInput
		m.sel = daySelector{employeeID: m.employeeID, date: m.date}
		m.stage = dayShowReport
		m.hasReport = false
		m.loading = true
		return m, dayReportCmd(m.engine, m.sel)
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

func (m dayModel) updateReport(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.stage = dayPickDate
		m.dateInput = m.date
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, dayReportCmd(m.engine, m.sel)
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		// Step one day back or forward without re-entering the date.
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
		m.sel = daySelector{employeeID: m.employeeID, date: m.date}
		m.hasReport = false
		m.loading = true
		return m, dayReportCmd(m.engine, m.sel)
	}
	return m, nil
}

func (m dayModel) view() string {
	w := m.width - 4

	switch m.stage {
	case dayPickEmployee:
		return m.renderEmployeePick(w)
	case dayPickDate:
		return m.renderDatePick(w)
	default:
		return m.renderReport(w)
	}
}

func (m dayModel) renderEmployeePick(w int) string {
	rows, pages := m.visibleEmployees()

	var out []string
	out = append(out, titleStyle.Render("Points by Day — Select Employee"))
	out = append(out, "")

	if len(rows) == 0 {
		out = append(out, mutedStyle.Render("  No employees."))
	}
	for i, e := range rows {
		cursor := "  "
		style := normalItemStyle
		if i == m.empCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		out = append(out, style.Render(fmt.Sprintf("%s%-26s %-14s", cursor, e.Name, e.Function)))
	}

	out = append(out, "")
	out = append(out, mutedStyle.Render(fmt.Sprintf("  page %d/%d   enter: select  ←/→: page", m.empPage, pages)))

	return activePanelStyle.Width(w).Render(strings.Join(out, "\n"))
}

func (m dayModel) renderDatePick(w int) string {
	var out []string
	out = append(out, titleStyle.Render("Points by Day — "+m.employeeName))
	out = append(out, "")
	out = append(out, "  Date: "+highlightStyle.Render(m.dateInput+"▌"))
	out = append(out, "")
	out = append(out, mutedStyle.Render("  YYYY-MM-DD   enter: confirm  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(out, "\n"))
}

func (m dayModel) renderReport(w int) string {
	var out []string
	out = append(out, titleStyle.Render(fmt.Sprintf("Points — %s — %s", m.employeeName, m.date)))
	out = append(out, "")

	if m.loading {
		out = append(out, mutedStyle.Render("  Loading..."))
	} else {
		out = append(out, renderReportTable(m.report, false))
	}

	out = append(out, "")
	out = append(out, mutedStyle.Render("  ←/→: prev/next day  r: reload  x: export  esc: change date"))

	return panelStyle.Width(w).Render(strings.Join(out, "\n"))
}
