package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pointr/internal/cache"
)

type dashboardModel struct {
	cache   *cache.Ref
	baseURL string
	width   int
	height  int
}

func newDashboardModel(c *cache.Ref, baseURL string) dashboardModel {
	return dashboardModel{cache: c, baseURL: baseURL}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// refresh re-mirrors both reference lists from the backend.
func (d dashboardModel) refresh() tea.Cmd {
	return tea.Batch(refreshEmployeesCmd(d.cache), refreshTasksCmd(d.cache))
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Refresh) {
			return d, d.refresh()
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	w := d.width - 4
	title := titleStyle.Render("Dashboard")

	employees := d.cache.Employees()
	tasks := d.cache.Tasks()
	functions := d.cache.Functions()

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %s %s", highlightStyle.Render(fmt.Sprintf("%4d", len(employees))), "employees"))
	rows = append(rows, fmt.Sprintf("  %s %s", highlightStyle.Render(fmt.Sprintf("%4d", len(tasks))), "tasks"))
	rows = append(rows, fmt.Sprintf("  %s %s", highlightStyle.Render(fmt.Sprintf("%4d", len(functions))), "functions"))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  backend: "+d.baseURL))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  4: record daily tasks   5: points by day   7: points over a range"))
	rows = append(rows, mutedStyle.Render("  r: refresh reference data"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
