package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"pointr/internal/api"
	"pointr/internal/cache"
)

type tasksModel struct {
	cache  *cache.Ref
	client *api.Client
	width  int
	height int

	search    string
	searching bool
	page      int
	cursor    int

	formActive bool
	form       *huh.Form
	formMode   string // "new", "edit"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle       *string
	formCoefficient *string
	formReference   *string
}

func newTasksModel(c *cache.Ref, client *api.Client) tasksModel {
	title, coefficient, reference := "", "", ""
	return tasksModel{
		cache:           c,
		client:          client,
		page:            1,
		formTitle:       &title,
		formCoefficient: &coefficient,
		formReference:   &reference,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return refreshTasksCmd(m.cache)
}

func (m tasksModel) visible() ([]api.Task, int) {
	filtered := m.cache.FilterTasks(m.search)
	return cache.Paginate(filtered, m.page, cache.PageSize)
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksRefreshedMsg:
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

func (m *tasksModel) clamp() {
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

func (m tasksModel) updateSearch(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
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

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	rows, pages := m.visible()

	switch {
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
	case key.Matches(msg, keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, keys.New):
		return m.showForm("new", api.Task{})
	case key.Matches(msg, keys.Edit):
		if m.cursor < len(rows) {
			return m.showForm("edit", rows[m.cursor])
		}
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(rows) {
			return m, m.deleteCmd(rows[m.cursor].ID)
		}
	case key.Matches(msg, keys.Back):
		if m.search != "" {
			m.search = ""
			m.page = 1
			m.cursor = 0
		}
	}
	return m, nil
}

func (m tasksModel) showForm(mode string, t api.Task) (tasksModel, tea.Cmd) {
	*m.formTitle = t.Title
	*m.formReference = t.Reference
	if mode == "edit" {
		*m.formCoefficient = formatNumber(t.Coefficient)
	} else {
		*m.formCoefficient = ""
	}
	m.formMode = mode
	m.editingID = t.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Coefficient").Value(m.formCoefficient).
				Validate(func(s string) error {
					if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
						return fmt.Errorf("must be a number")
					}
					return nil
				}),
			huh.NewInput().Title("Reference").Value(m.formReference),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		if strings.TrimSpace(*m.formTitle) == "" {
			return m, nil
		}
		coefficient, err := strconv.ParseFloat(strings.TrimSpace(*m.formCoefficient), 64)
		if err != nil {
			return m, nil
		}
		return m, m.saveCmd(m.formMode, m.editingID, *m.formTitle, coefficient, *m.formReference)
	}

	return m, cmd
}

func (m tasksModel) saveCmd(mode, id, title string, coefficient float64, reference string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == "edit" {
			err = m.client.UpdateTask(ctx, id, title, coefficient, reference)
		} else {
			err = m.client.CreateTask(ctx, title, coefficient, reference)
		}
		if err != nil {
			return failure("save task", err)
		}
		if err := m.cache.RefreshTasks(ctx); err != nil {
			return failure("refresh tasks", err)
		}
		return tasksRefreshedMsg{}
	}
}

func (m tasksModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.client.DeleteTask(ctx, id); err != nil {
			return failure("delete task", err)
		}
		if err := m.cache.RefreshTasks(ctx); err != nil {
			return failure("refresh tasks", err)
		}
		return tasksRefreshedMsg{}
	}
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.formMode == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	rows, pages := m.visible()

	var out []string
	out = append(out, titleStyle.Render("Tasks"))
	out = append(out, m.renderFilterLine(pages))
	out = append(out, "")

	if len(rows) == 0 {
		out = append(out, mutedStyle.Render("  No tasks match."))
	} else {
		header := mutedStyle.Render(fmt.Sprintf("  %-32s %12s  %-12s", "Title", "Coefficient", "Reference"))
		out = append(out, header)
		for i, t := range rows {
			cursor := "  "
			style := normalItemStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			out = append(out, style.Render(fmt.Sprintf("%s%-32s %12s  %-12s", cursor, t.Title, formatNumber(t.Coefficient), t.Reference)))
		}
	}

	out = append(out, "")
	out = append(out, mutedStyle.Render("  n: new  e: edit  d: delete  /: search  ←/→: page"))

	return panelStyle.Width(w).Render(strings.Join(out, "\n"))
}

func (m tasksModel) renderFilterLine(pages int) string {
	var parts []string

	if m.searching {
		parts = append(parts, highlightStyle.Render("search: "+m.search+"▌"))
	} else if m.search != "" {
		parts = append(parts, mutedStyle.Render("search: ")+normalItemStyle.Render(m.search))
	}

	parts = append(parts, mutedStyle.Render(fmt.Sprintf("page %d/%d", m.page, pages)))

	return "  " + strings.Join(parts, "   ")
}
