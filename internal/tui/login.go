package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"pointr/internal/api"
)

type loginModel struct {
	client *api.Client
	tokens api.TokenStore
	width  int
	height int

	form       *huh.Form
	submitting bool
	errText    string

	// Form field pointers (survive value copies)
	username *string
	password *string
}

func newLoginModel(client *api.Client, tokens api.TokenStore) loginModel {
	username, password := "", ""
	m := loginModel{
		client:   client,
		tokens:   tokens,
		username: &username,
		password: &password,
	}
	m.form = m.newForm()
	return m
}

func (m loginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(m.username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(m.password),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *loginModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// reset clears the credentials and rearms the form, optionally with a
// notice such as "session expired".
func (m loginModel) reset(notice string) (loginModel, tea.Cmd) {
	*m.username = ""
	*m.password = ""
	m.submitting = false
	m.errText = notice
	m.form = m.newForm()
	return m, m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		m.submitting = false
		m.errText = "Login failed: " + msg.err.Error()
		*m.password = ""
		m.form = m.newForm()
		return m, m.form.Init()
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		username := strings.TrimSpace(*m.username)
		password := *m.password
		if username == "" || password == "" {
			return m.reset("Username and password are required")
		}
		m.submitting = true
		return m, m.doLogin(username, password)
	}

	return m, cmd
}

func (m loginModel) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.client.Login(context.Background(), username, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		if err := m.tokens.SetToken(token); err != nil {
			return loginFailedMsg{err: err}
		}
		return loggedInMsg{}
	}
}

func (m loginModel) view() string {
	title := titleStyle.Render("pointr — sign in")

	var body string
	if m.submitting {
		body = mutedStyle.Render("Signing in...")
	} else {
		body = m.form.View()
	}

	rows := []string{title, "", body}
	if m.errText != "" {
		rows = append(rows, "", errorStyle.Render(m.errText))
	}

	w := m.width - 4
	if w < 30 {
		w = 30
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
