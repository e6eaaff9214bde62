package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pointr/internal/api"
	"pointr/internal/cache"
	"pointr/internal/points"
)

// viewState represents the currently active view.
type viewState int

const (
	viewLogin viewState = iota
	viewDashboard
	viewEmployees
	viewTasks
	viewAssign
	viewDay
	viewAllDay
	viewRange
)

// viewNames labels the post-login tabs; viewLogin has no tab.
var viewNames = []string{"Dashboard", "Employees", "Tasks", "Assign", "By Day", "All Employees", "Range"}

const dateLayout = "2006-01-02"

// --- Selectors ---
//
// Report queries are tagged with the selector they were issued for. A
// result only lands if its selector still matches the view's current
// one, so a slow response for an old employee/date never overwrites a
// newer query.

type daySelector struct {
	employeeID string
	date       string
}

type rangeSelector struct {
	employeeID string
	start      string
	end        string
}

// --- Messages ---

type loggedInMsg struct{}

type loginFailedMsg struct {
	err error
}

// sessionExpiredMsg forces a return to the login view; any 401 from the
// backend is mapped to it.
type sessionExpiredMsg struct{}

type employeesRefreshedMsg struct{}
type tasksRefreshedMsg struct{}

type dayReportMsg struct {
	sel    daySelector
	report points.Report
}

type allDayReportMsg struct {
	date    string
	reports []points.EmployeeDayReport
}

type rangeReportMsg struct {
	sel    rangeSelector
	report points.Report
}

type submitDoneMsg struct {
	sel    daySelector
	report points.Report
}

type submitFailedMsg struct {
	sel       daySelector
	remaining []points.Selection
	err       error
}

type employeeSavedMsg struct{}
type taskSavedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// failure maps an operation error to the message the app should see:
// expired credentials go back to login, everything else becomes a
// status line.
func failure(op string, err error) tea.Msg {
	if isUnauthorized(err) {
		return sessionExpiredMsg{}
	}
	return statusMsg{text: fmt.Sprintf("%s: %v", op, err), isError: true}
}

func isUnauthorized(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func today() string {
	return time.Now().Format(dateLayout)
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// --- Shared commands ---

func refreshEmployeesCmd(c *cache.Ref) tea.Cmd {
	return func() tea.Msg {
		if err := c.RefreshEmployees(context.Background()); err != nil {
			return failure("refresh employees", err)
		}
		return employeesRefreshedMsg{}
	}
}

func refreshTasksCmd(c *cache.Ref) tea.Cmd {
	return func() tea.Msg {
		if err := c.RefreshTasks(context.Background()); err != nil {
			return failure("refresh tasks", err)
		}
		return tasksRefreshedMsg{}
	}
}
