package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// LoginView asks for email and password
type LoginView struct {
	syncer *syncer.Syncer
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	email      textinput.Model
	password   textinput.Model
	focusIdx   int // 0=email, 1=password, 2=submit
	submitting bool
	err        error
}

type loginResultMsg struct {
	user models.User
	err  error
}

// NewLoginView creates the login form
func NewLoginView(s *syncer.Syncer) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		syncer:   s,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// Capturing is always true: every key goes into a field
func (v *LoginView) Capturing() bool { return true }

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.err = msg.err
			v.password.Reset()
			return v, nil
		}
		v.err = nil
		v.email.Reset()
		v.password.Reset()
		return v, func() tea.Msg { return LoggedIn{User: msg.user} }

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit
		case key.Matches(msg, v.keys.Tab), msg.String() == "down":
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, nil
		case msg.String() == "shift+tab", msg.String() == "up":
			v.focusIdx = (v.focusIdx + 2) % 3
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx == 0 {
				v.focusIdx = 1
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.err = errMissingCredentials
		return nil
	}
	v.submitting = true
	v.err = nil
	s := v.syncer
	return func() tea.Msg {
		user, err := s.Login(context.Background(), email, password)
		return loginResultMsg{user: user, err: err}
	}
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	emailStyle, passStyle, btnStyle := s.Input, s.Input, s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	label := " Sign in "
	if v.submitting {
		label = " Signing in... "
	}
	status := ""
	if v.err != nil {
		status = s.ErrorText.Render(v.err.Error())
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("TaskDash"),
		s.TitleMuted.Render("Sign in to your workspace"),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		passStyle.Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(label),
		"",
		status,
		s.TitleMuted.Render("Tab: next • Enter: sign in • Ctrl+C: quit"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
