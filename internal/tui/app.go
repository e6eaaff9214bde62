package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pointr/internal/api"
	"pointr/internal/cache"
	"pointr/internal/export"
	"pointr/internal/points"
)

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	tokens api.TokenStore
	cache  *cache.Ref
	engine *points.Engine
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login     loginModel
	dashboard dashboardModel
	employees employeesModel
	tasks     tasksModel
	assign    assignModel
	day       dayModel
	allDay    allDayModel
	ranges    rangeModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp wires the views. When a stored token exists the app starts on
// the dashboard; the first 401 will bounce it back to login anyway.
func NewApp(client *api.Client, tokens api.TokenStore, c *cache.Ref, engine *points.Engine, baseURL string, loggedIn bool) App {
	h := help.New()
	h.ShowAll = false

	active := viewLogin
	if loggedIn {
		active = viewDashboard
	}

	return App{
		client:     client,
		tokens:     tokens,
		cache:      c,
		engine:     engine,
		activeView: active,
		login:      newLoginModel(client, tokens),
		dashboard:  newDashboardModel(c, baseURL),
		employees:  newEmployeesModel(c, client),
		tasks:      newTasksModel(c, client),
		assign:     newAssignModel(c, engine),
		day:        newDayModel(c, engine),
		allDay:     newAllDayModel(c, engine),
		ranges:     newRangeModel(c, engine),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	if a.activeView == viewLogin {
		return a.login.Init()
	}
	return a.dashboard.refresh()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.employees.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.assign.setSize(a.width, contentHeight)
		a.day.setSize(a.width, contentHeight)
		a.allDay.setSize(a.width, contentHeight)
		a.ranges.setSize(a.width, contentHeight)
		return a, nil

	case sessionExpiredMsg:
		// The backend rejected our token; drop it and start over.
		a.tokens.ClearToken()
		a.assign = a.assign.leave()
		a.activeView = viewLogin
		var cmd tea.Cmd
		a.login, cmd = a.login.reset("Session expired — sign in again")
		return a, cmd

	case loggedInMsg:
		a.activeView = viewDashboard
		a.status = "Signed in"
		a.statusErr = false
		return a, a.dashboard.refresh()

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		// ctrl+c quits even while a form or text field owns the keyboard.
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Export picker overlay
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		if a.activeView == viewLogin {
			return a.routeToActiveView(msg)
		}

		// If a child view is capturing input (form, search, date
		// entry), delegate first so digits and letters reach it.
		if a.isCapturingInput() {
			return a.routeToActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a.logout()
		case key.Matches(msg, keys.Export):
			if _, ok := a.currentReport(); ok {
				a.exportPicking = true
				a.exportCursor = 0
				return a, nil
			}
			return a.routeToActiveView(msg)
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewEmployees)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewTasks)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewAssign)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewDay)
		case key.Matches(msg, keys.Tab6):
			return a.switchTo(viewAllDay)
		case key.Matches(msg, keys.Tab7):
			return a.switchTo(viewRange)
		case key.Matches(msg, keys.Tab):
			next := a.activeView + 1
			if next > viewRange {
				next = viewDashboard
			}
			return a.switchTo(next)
		}
	}

	return a.routeToActiveView(msg)
}

// switchTo changes the active view and runs its entry action. Leaving
// the assignment view always drops the unsaved selection.
func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	if a.activeView == viewAssign && v != viewAssign {
		a.assign = a.assign.leave()
	}
	a.activeView = v

	var cmd tea.Cmd
	switch v {
	case viewDashboard:
		cmd = a.dashboard.refresh()
	case viewEmployees:
		cmd = a.employees.refresh()
	case viewTasks:
		cmd = a.tasks.refresh()
	case viewAssign:
		a.assign, cmd = a.assign.enter()
	case viewDay:
		a.day, cmd = a.day.enter()
	case viewAllDay:
		a.allDay, cmd = a.allDay.enter()
	case viewRange:
		a.ranges, cmd = a.ranges.enter()
	}
	return a, cmd
}

func (a App) logout() (tea.Model, tea.Cmd) {
	a.tokens.ClearToken()
	a.assign = a.assign.leave()
	a.activeView = viewLogin
	a.status = ""
	var cmd tea.Cmd
	a.login, cmd = a.login.reset("Signed out")
	return a, cmd
}

func (a App) routeToActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewLogin:
		a.login, cmd = a.login.update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewEmployees:
		a.employees, cmd = a.employees.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewAssign:
		a.assign, cmd = a.assign.update(msg)
	case viewDay:
		a.day, cmd = a.day.update(msg)
	case viewAllDay:
		a.allDay, cmd = a.allDay.update(msg)
	case viewRange:
		a.ranges, cmd = a.ranges.update(msg)
	}
	return a, cmd
}

// isCapturingInput reports whether the active view owns the keyboard,
// so global bindings (digits, q, /) must not fire.
func (a App) isCapturingInput() bool {
	switch a.activeView {
	case viewEmployees:
		return a.employees.formActive || a.employees.searching
	case viewTasks:
		return a.tasks.formActive || a.tasks.searching
	case viewAssign:
		return a.assign.stage == assignPickDate || a.assign.searching || a.assign.editingQty
	case viewDay:
		return a.day.stage == dayPickDate
	case viewAllDay:
		return a.allDay.editing
	case viewRange:
		return a.ranges.stage == rangePickDates
	}
	return false
}

// currentReport returns the report the active view is displaying, if it
// has one to export.
func (a App) currentReport() (points.Report, bool) {
	switch a.activeView {
	case viewAssign:
		return a.assign.currentReport()
	case viewDay:
		return a.day.currentReport()
	case viewRange:
		return a.ranges.currentReport()
	}
	return points.Report{}, false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.activeView == viewLogin {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.login.view())
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewEmployees:
		content = a.employees.view()
	case viewTasks:
		content = a.tasks.view()
	case viewAssign:
		content = a.assign.view()
	case viewDay:
		content = a.day.view()
	case viewAllDay:
		content = a.allDay.view()
	case viewRange:
		content = a.ranges.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i+1) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pointr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)
	right := status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	report, ok := a.currentReport()
	if !ok {
		return func() tea.Msg {
			return statusMsg{text: "Nothing to export", isError: true}
		}
	}

	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format(dateLayout)

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("pointr-export-%s.csv", dateStr))
			if err := export.ToCSV(report, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("pointr-export-%s.json", dateStr))
			if err := export.ToJSON(report, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
