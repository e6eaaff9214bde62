package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pointr/internal/api"
	"pointr/internal/cache"
	"pointr/internal/points"
)

type assignStage int

const (
	assignPickEmployee assignStage = iota
	assignPickDate
	assignPickTasks
)

// assignModel records a day's tasks for one employee: pick employee,
// pick date, toggle tasks with quantities, submit the batch. The
// pending selection never outlives the view or a change of employee or
// date.
type assignModel struct {
	cache  *cache.Ref
	engine *points.Engine
	width  int
	height int

	stage        assignStage
	empCursor    int
	empPage      int
	employeeID   string
	employeeName string

	dateInput string
	date      string

	search    string
	searching bool
	page      int
	cursor    int

	pending    *points.Pending
	editingQty bool
	qtyInput   string

	submitting bool
	sel        daySelector
	report     points.Report
	hasReport  bool
}

func newAssignModel(c *cache.Ref, e *points.Engine) assignModel {
	return assignModel{
		cache:   c,
		engine:  e,
		empPage: 1,
		page:    1,
		pending: points.NewPending(),
	}
}

func (m *assignModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// enter resets the view for a fresh recording session and re-mirrors
// the reference data.
func (m assignModel) enter() (assignModel, tea.Cmd) {
	m.pending.Clear()
	m.stage = assignPickEmployee
	m.editingQty = false
	m.submitting = false
	m.hasReport = false
	return m, tea.Batch(refreshEmployeesCmd(m.cache), refreshTasksCmd(m.cache))
}

// leave drops any unsaved selection.
func (m assignModel) leave() assignModel {
	m.pending.Clear()
	m.editingQty = false
	return m
}

func (m assignModel) currentReport() (points.Report, bool) {
	return m.report, m.hasReport
}

func (m assignModel) visibleTasks() ([]api.Task, int) {
	filtered := m.cache.FilterTasks(m.search)
	return cache.Paginate(filtered, m.page, cache.PageSize)
}

func (m assignModel) visibleEmployees() ([]api.Employee, int) {
	return cache.Paginate(m.cache.Employees(), m.empPage, cache.PageSize)
}

func (m assignModel) update(msg tea.Msg) (assignModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dayReportMsg:
		if msg.sel != m.sel {
			return m, nil // stale response for an old employee/date
		}
		m.report = msg.report
		m.hasReport = true
		return m, nil

	case submitDoneMsg:
		if msg.sel != m.sel {
			return m, nil
		}
		m.submitting = false
		m.pending.Clear()
		m.report = msg.report
		m.hasReport = true
		return m, func() tea.Msg {
			return statusMsg{text: "Assignments saved"}
		}

	case submitFailedMsg:
		if msg.sel != m.sel {
			return m, nil
		}
		// Failed and untried selections stay pending for retry. The
		// remainder is applied here, on the update loop, because the
		// command goroutine must never write into m.pending.
		m.submitting = false
		m.pending.Replace(msg.remaining)
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Submit failed: %v", msg.err), isError: true}
		}

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch m.stage {
		case assignPickEmployee:
			return m.updateEmployeePick(msg)
		case assignPickDate:
			return m.updateDatePick(msg)
		default:
			return m.updateTaskPick(msg)
		}
	}
	return m, nil
}

func (m assignModel) updateEmployeePick(msg tea.KeyMsg) (assignModel, tea.Cmd) {
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
			if e.ID != m.employeeID {
				// New employee invalidates the old selection.
				m.pending.Clear()
				m.hasReport = false
			}
			m.employeeID = e.ID
			m.employeeName = e.Name
			if m.date == "" {
				m.dateInput = today()
			} else {
				m.dateInput = m.date
			}
			m.stage = assignPickDate
		}
	}
	return m, nil
}

func (m assignModel) updateDatePick(msg tea.KeyMsg) (assignModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stage = assignPickEmployee
	case "enter":
		if !validDate(m.dateInput) {
			return m, func() tea.Msg {
				return statusMsg{text: "Date must be YYYY-MM-DD", isError: true}
			}
		}
		if m.dateInput != m.date {
			m.pending.Clear()
			m.hasReport = false
		}
		m.date = m.dateInput
		m.sel = daySelector{employeeID: m.employeeID, date: m.date}
		m.stage = assignPickTasks
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

func (m assignModel) updateTaskPick(msg tea.KeyMsg) (assignModel, tea.Cmd) {
	if m.editingQty {
		return m.updateQuantityEdit(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}

	rows, pages := m.visibleTasks()

	switch {
	case key.Matches(msg, keys.Back):
		m.stage = assignPickDate
		m.dateInput = m.date
	case key.Matches(msg, keys.Search):
		m.searching = true
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Left):
		if m.page > 1 {
			m.page--
			m.cursor = 0
		}
	case key.Matches(msg, keys.Right):
		if m.page < pages {
			m.page++
			m.cursor = 0
		}
	case key.Matches(msg, keys.Toggle):
		if m.cursor < len(rows) {
			m.pending.Toggle(rows[m.cursor].ID)
		}
	case key.Matches(msg, keys.Edit):
		if m.cursor < len(rows) {
			if q, ok := m.pending.Quantity(rows[m.cursor].ID); ok {
				m.editingQty = true
				m.qtyInput = formatNumber(q)
			}
		}
	case key.Matches(msg, keys.Submit):
		if m.pending.Len() > 0 {
			m.submitting = true
			return m, m.submitCmd()
		}
	}
	return m, nil
}

func (m assignModel) updateQuantityEdit(msg tea.KeyMsg) (assignModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingQty = false
	case "enter":
		rows, _ := m.visibleTasks()
		if m.cursor < len(rows) {
			if q, err := strconv.ParseFloat(strings.TrimSpace(m.qtyInput), 64); err == nil {
				m.pending.SetQuantity(rows[m.cursor].ID, q)
			}
		}
		m.editingQty = false
	case "backspace":
		if len(m.qtyInput) > 0 {
			m.qtyInput = m.qtyInput[:len(m.qtyInput)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.qtyInput += string(msg.Runes)
		}
	}
	return m, nil
}

func (m assignModel) updateSearch(msg tea.KeyMsg) (assignModel, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
	case "backspace":
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
			m.page = 1
			m.cursor = 0
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.search += string(msg.Runes)
			m.page = 1
			m.cursor = 0
		}
	}
	return m, nil
}

// submitCmd runs the batch create over a snapshot of the selection
// taken on the update loop. The command goroutine shares nothing with
// the model, so the view can keep rendering m.pending while the batch
// is in flight; the outcome is applied when the result message lands.
// Exactly one submit may be in flight; the submitting flag blocks
// keyboard input until then.
func (m assignModel) submitCmd() tea.Cmd {
	sel := m.sel
	items := m.pending.Items()
	engine := m.engine
	return func() tea.Msg {
		report, remaining, err := engine.Submit(context.Background(), sel.employeeID, sel.date, items)
		if err != nil {
			if isUnauthorized(err) {
				return sessionExpiredMsg{}
			}
			return submitFailedMsg{sel: sel, remaining: remaining, err: err}
		}
		return submitDoneMsg{sel: sel, report: report}
	}
}

func (m assignModel) view() string {
	w := m.width - 4

	switch m.stage {
	case assignPickEmployee:
		return m.renderEmployeePick(w)
	case assignPickDate:
		return m.renderDatePick(w)
	default:
		return m.renderTaskPick(w)
	}
}

func (m assignModel) renderEmployeePick(w int) string {
	rows, pages := m.visibleEmployees()

	var out []string
	out = append(out, titleStyle.Render("Record Tasks — Select Employee"))
	out = append(out, "")

	if len(rows) == 0 {
		out = append(out, mutedStyle.Render("  No employees. Press 2 to manage employees."))
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

func (m assignModel) renderDatePick(w int) string {
	var out []string
	out = append(out, titleStyle.Render("Record Tasks — "+m.employeeName))
	out = append(out, "")
	out = append(out, "  Date: "+highlightStyle.Render(m.dateInput+"▌"))
	out = append(out, "")
	out = append(out, mutedStyle.Render("  YYYY-MM-DD   enter: confirm  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(out, "\n"))
}

func (m assignModel) renderTaskPick(w int) string {
	rows, pages := m.visibleTasks()

	var out []string
	out = append(out, titleStyle.Render(fmt.Sprintf("Record Tasks — %s — %s", m.employeeName, m.date)))
	out = append(out, m.renderFilterLine(pages))
	out = append(out, "")

	if len(rows) == 0 {
		out = append(out, mutedStyle.Render("  No tasks match."))
	}
	for i, t := range rows {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		mark := "[ ]"
		qty := ""
		if q, ok := m.pending.Quantity(t.ID); ok {
			mark = successStyle.Render("[x]")
			qty = highlightStyle.Render(" × " + formatNumber(q))
			if m.editingQty && i == m.cursor {
				qty = warningStyle.Render(" × " + m.qtyInput + "▌")
			}
		}

		out = append(out, style.Render(fmt.Sprintf("%s%s %-32s %8s", cursor, mark, t.Title, formatNumber(t.Coefficient)))+qty)
	}

	out = append(out, "")
	if m.submitting {
		out = append(out, warningStyle.Render("  Submitting..."))
	} else {
		out = append(out, mutedStyle.Render(fmt.Sprintf("  %d selected   space: toggle  e: quantity  s: submit  esc: date", m.pending.Len())))
	}

	if m.hasReport {
		out = append(out, "")
		out = append(out, renderReportTable(m.report, false))
	}

	return activePanelStyle.Width(w).Render(strings.Join(out, "\n"))
}

func (m assignModel) renderFilterLine(pages int) string {
	var parts []string
	if m.searching {
		parts = append(parts, highlightStyle.Render("search: "+m.search+"▌"))
	} else if m.search != "" {
		parts = append(parts, mutedStyle.Render("search: ")+normalItemStyle.Render(m.search))
	}
	parts = append(parts, mutedStyle.Render(fmt.Sprintf("page %d/%d", m.page, pages)))
	return "  " + strings.Join(parts, "   ")
}
