package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pointr/internal/api"
	"pointr/internal/cache"
	"pointr/internal/points"
)

type rangeStage int

const (
	rangePickEmployee rangeStage = iota
	rangePickDates
	rangeShowReport
)

// rangeModel shows one employee's points over an inclusive date range,
// as a per-day bar chart above the row table.
type rangeModel struct {
	cache  *cache.Ref
	engine *points.Engine
	width  int
	height int

	stage        rangeStage
	empCursor    int
	empPage      int
	employeeID   string
	employeeName string

	startInput string
	endInput   string
	editingEnd bool

	sel       rangeSelector
	report    points.Report
	hasReport bool
	loading   bool

	chart barchart.Model
}

func newRangeModel(c *cache.Ref, e *points.Engine) rangeModel {
	return rangeModel{
		cache:   c,
		engine:  e,
		empPage: 1,
		chart:   barchart.New(60, 12),
	}
}

func (m *rangeModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m rangeModel) enter() (rangeModel, tea.Cmd) {
	cmds := []tea.Cmd{refreshEmployeesCmd(m.cache), refreshTasksCmd(m.cache)}
	if m.stage == rangeShowReport {
		m.loading = true
		cmds = append(cmds, m.queryCmd(m.sel))
	}
	return m, tea.Batch(cmds...)
}

func (m rangeModel) currentReport() (points.Report, bool) {
	return m.report, m.hasReport
}

func (m rangeModel) queryCmd(sel rangeSelector) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		report, err := engine.EmployeeRange(context.Background(), sel.employeeID, sel.start, sel.end)
		if err != nil {
			return failure("load range", err)
		}
		return rangeReportMsg{sel: sel, report: report}
	}
}

func (m rangeModel) visibleEmployees() ([]api.Employee, int) {
	return cache.Paginate(m.cache.Employees(), m.empPage, cache.PageSize)
}

func (m rangeModel) update(msg tea.Msg) (rangeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case rangeReportMsg:
		if msg.sel != m.sel {
			return m, nil // stale response for an old selection
		}
		m.loading = false
		m.report = msg.report
		m.hasReport = true
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch m.stage {
		case rangePickEmployee:
			return m.updateEmployeePick(msg)
		case rangePickDates:
			return m.updateDatePick(msg)
		default:
			return m.updateReport(msg)
		}
	}
	return m, nil
}

func (m rangeModel) updateEmployeePick(msg tea.KeyMsg) (rangeModel, tea.Cmd) {
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
			if m.startInput == "" {
				// Default to the current month so far.
				now := time.Now()
				m.startInput = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
				m.endInput = now.Format(dateLayout)
			}
			m.editingEnd = false
			m.stage = rangePickDates
		}
	}
	return m, nil
}

func (m rangeModel) updateDatePick(msg tea.KeyMsg) (rangeModel, tea.Cmd) {
	buf := &m.startInput
	if m.editingEnd {
		buf = &m.endInput
	}

	switch msg.String() {
	case "esc":
		if m.editingEnd {
			m.editingEnd = false
		} else {
			m.stage = rangePickEmployee
		}
	case "tab":
		m.editingEnd = !m.editingEnd
	case "enter":
		if !m.editingEnd {
			m.editingEnd = true
			return m, nil
		}
		if !validDate(m.startInput) || !validDate(m.endInput) {
			return m, func() tea.Msg {
				return statusMsg{text: "Dates must be YYYY-MM-DD", isError: true}
			}
		}
		if m.endInput < m.startInput {
			return m, func() tea.Msg {
				return statusMsg{text: "End date is before start date", isError: true}
			}
		}
		m.sel = rangeSelector{employeeID: m.employeeID, start: m.startInput, end: m.endInput}
		m.stage = rangeShowReport
		m.hasReport = false
		m.loading = true
		return m, m.queryCmd(m.sel)
	case "backspace":
		if len(*buf) > 0 {
			*buf = (*buf)[:len(*buf)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			*buf += string(msg.Runes)
		}
	}
	return m, nil
}

func (m rangeModel) updateReport(msg tea.KeyMsg) (rangeModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.stage = rangePickDates
		m.editingEnd = false
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.queryCmd(m.sel)
	}
	return m, nil
}

// buildChart aggregates the report rows into one bar per day.
func (m *rangeModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 35 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	perDay := make(map[string]float64)
	var order []string
	for _, r := range m.report.Rows {
		if _, ok := perDay[r.Date]; !ok {
			order = append(order, r.Date)
		}
		perDay[r.Date] += r.Points
	}

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	var bars []barchart.BarData
	for _, date := range order {
		label := date
		if d, err := time.Parse(dateLayout, date); err == nil {
			label = d.Format("Jan 02")
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: date, Value: perDay[date], Style: barStyle},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m rangeModel) view() string {
	w := m.width - 4

	switch m.stage {
	case rangePickEmployee:
		return m.renderEmployeePick(w)
	case rangePickDates:
		return m.renderDatePick(w)
	default:
		return m.renderReport(w)
	}
}

func (m rangeModel) renderEmployeePick(w int) string {
	rows, pages := m.visibleEmployees()

	var out []string
	out = append(out, titleStyle.Render("Points over a Range — Select Employee"))
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

func (m rangeModel) renderDatePick(w int) string {
	start := m.startInput
	end := m.endInput
	if m.editingEnd {
		end += "▌"
	} else {
		start += "▌"
	}

	var out []string
	out = append(out, titleStyle.Render("Points over a Range — "+m.employeeName))
	out = append(out, "")
	out = append(out, "  From: "+highlightStyle.Render(start))
	out = append(out, "  To:   "+highlightStyle.Render(end))
	out = append(out, "")
	out = append(out, mutedStyle.Render("  YYYY-MM-DD   tab: switch field  enter: confirm  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(out, "\n"))
}

func (m rangeModel) renderReport(w int) string {
	var out []string
	out = append(out, titleStyle.Render(fmt.Sprintf("Points — %s — %s to %s", m.employeeName, m.sel.start, m.sel.end)))
	out = append(out, "")

	if m.loading {
		out = append(out, mutedStyle.Render("  Loading..."))
	} else {
		if len(m.report.Rows) > 0 {
			out = append(out, m.chart.View())
			out = append(out, "")
		}
		out = append(out, renderReportTable(m.report, true))
	}

	out = append(out, "")
	out = append(out, mutedStyle.Render("  r: reload  x: export  esc: change dates"))

	return panelStyle.Width(w).Render(strings.Join(out, "\n"))
}
