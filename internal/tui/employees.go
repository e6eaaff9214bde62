package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"pointr/internal/api"
	"pointr/internal/cache"
)

type employeesModel struct {
	cache  *cache.Ref
	client *api.Client
	width  int
	height int

	search     string
	searching  bool
	functionIx int // 0 = all functions, else 1-based index into cache.Functions()
	page       int
	cursor     int

	formActive bool
	form       *huh.Form
	formMode   string // "new", "edit"
	editingID  string

	// Form field pointers (survive value copies)
	formName     *string
	formEmail    *string
	formFunction *string
}

func newEmployeesModel(c *cache.Ref, client *api.Client) employeesModel {
	name, email, function := "", "", ""
	return employeesModel{
		cache:        c,
		client:       client,
		page:         1,
		formName:     &name,
		formEmail:    &email,
		formFunction: &function,
	}
}

func (m *employeesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m employeesModel) refresh() tea.Cmd {
	return refreshEmployeesCmd(m.cache)
}

func (m employeesModel) selectedFunction() string {
	if m.functionIx == 0 {
		return ""
	}
	functions := m.cache.Functions()
	if m.functionIx > len(functions) {
		return ""
	}
	return functions[m.functionIx-1]
}

// visible applies search and function filters then pages the result.
func (m employeesModel) visible() ([]api.Employee, int) {
	filtered := m.cache.FilterEmployees(m.search, m.selectedFunction())
	return cache.Paginate(filtered, m.page, cache.PageSize)
}

func (m employeesModel) update(msg tea.Msg) (employeesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case employeesRefreshedMsg:
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *employeesModel) clamp() {
	rows, pages := m.visible()
	if m.page > pages {
		m.page = pages
	}
	if m.page < 1 {
		m.page = 1
	}
	if m.cursor >= len(rows) {
		m.cursor = max(0, len(rows)-1)
	}
}

func (m employeesModel) updateSearch(msg tea.KeyMsg) (employeesModel, tea.Cmd) {
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

func (m employeesModel) updateList(msg tea.KeyMsg) (employeesModel, tea.Cmd) {
	rows, pages := m.visible()

	switch {
	case key.Matches(msg, keys.Search):
		m.searching = true
	case key.Matches(msg, keys.Function):
		m.functionIx = (m.functionIx + 1) % (len(m.cache.Functions()) + 1)
		m.page = 1
		m.cursor = 0
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
	case key.Matches(msg, keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, keys.New):
		return m.showForm("new", api.Employee{})
	case key.Matches(msg, keys.Edit):
		if m.cursor < len(rows) {
			return m.showForm("edit", rows[m.cursor])
		}
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(rows) {
			return m, m.deleteCmd(rows[m.cursor].ID)
		}
	case key.Matches(msg, keys.Back):
		if m.search != "" || m.functionIx != 0 {
			m.search = ""
			m.functionIx = 0
			m.page = 1
			m.cursor = 0
		}
	}
	return m, nil
}

func (m employeesModel) showForm(mode string, e api.Employee) (employeesModel, tea.Cmd) {
	*m.formName = e.Name
	*m.formEmail = e.Email
	*m.formFunction = e.Function
	m.formMode = mode
	m.editingID = e.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewInput().Title("Email").Value(m.formEmail),
			huh.NewInput().Title("Function").Value(m.formFunction),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m employeesModel) updateForm(msg tea.Msg) (employeesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if strings.TrimSpace(*m.formName) == "" {
			return m, nil
		}
		return m, m.saveCmd(m.formMode, m.editingID, *m.formName, *m.formEmail, *m.formFunction)
	}

	return m, cmd
}

func (m employeesModel) saveCmd(mode, id, name, email, function string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == "edit" {
			err = m.client.UpdateEmployee(ctx, id, name, email, function)
		} else {
			err = m.client.CreateEmployee(ctx, name, email, function)
		}
		if err != nil {
			return failure("save employee", err)
		}
		if err := m.cache.RefreshEmployees(ctx); err != nil {
			return failure("refresh employees", err)
		}
		return employeesRefreshedMsg{}
	}
}

func (m employeesModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.client.DeleteEmployee(ctx, id); err != nil {
			return failure("delete employee", err)
		}
		if err := m.cache.RefreshEmployees(ctx); err != nil {
			return failure("refresh employees", err)
		}
		return employeesRefreshedMsg{}
	}
}

func (m employeesModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Employee")
		if m.formMode == "edit" {
			title = titleStyle.Render("Edit Employee")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	rows, pages := m.visible()

	title := titleStyle.Render("Employees")
	filterLine := m.renderFilterLine(pages)

	var out []string
	out = append(out, title)
	out = append(out, filterLine)
	out = append(out, "")

	if len(rows) == 0 {
		out = append(out, mutedStyle.Render("  No employees match."))
	} else {
		header := mutedStyle.Render(fmt.Sprintf("  %-26s %-28s %-14s", "Name", "Email", "Function"))
		out = append(out, header)
		for i, e := range rows {
			cursor := "  "
			style := normalItemStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			out = append(out, style.Render(fmt.Sprintf("%s%-26s %-28s %-14s", cursor, e.Name, e.Email, e.Function)))
		}
	}

	out = append(out, "")
	out = append(out, mutedStyle.Render("  n: new  e: edit  d: delete  /: search  f: function  ←/→: page"))

	return panelStyle.Width(w).Render(strings.Join(out, "\n"))
}

func (m employeesModel) renderFilterLine(pages int) string {
	var parts []string

	if m.searching {
		parts = append(parts, highlightStyle.Render("search: "+m.search+"▌"))
	} else if m.search != "" {
		parts = append(parts, mutedStyle.Render("search: ")+normalItemStyle.Render(m.search))
	}

	fn := m.selectedFunction()
	if fn != "" {
		parts = append(parts, mutedStyle.Render("function: ")+normalItemStyle.Render(fn))
	}

	parts = append(parts, mutedStyle.Render(fmt.Sprintf("page %d/%d", m.page, pages)))

	return "  " + strings.Join(parts, "   ")
}
