package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/session"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

var errNameRequired = errors.New("name is required")

const (
	settingsName = iota
	settingsEmail
	settingsAvatar
	settingsSave
	settingsFields
)

// SettingsView edits the profile of the signed-in user
type SettingsView struct {
	syncer *syncer.Syncer
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	name     textinput.Model
	email    textinput.Model
	avatar   textinput.Model
	focusIdx int // -1 while browsing
	saved    bool
	err      error
}

func NewSettingsView(s *syncer.Syncer) *SettingsView {
	newInput := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 200
		return in
	}
	return &SettingsView{
		syncer:   s,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		name:     newInput("Full name"),
		email:    newInput("you@example.com"),
		avatar:   newInput("Avatar URL"),
		focusIdx: -1,
	}
}

// Init fills the form from the current user
func (v *SettingsView) Init() tea.Cmd {
	u, _ := v.syncer.Session().User()
	v.name.SetValue(u.Name)
	v.email.SetValue(u.Email)
	v.avatar.SetValue(u.Avatar)
	v.name.CursorEnd()
	v.email.CursorEnd()
	v.avatar.CursorEnd()
	v.focusIdx = -1
	v.saved = false
	v.err = nil
	v.updateFocus()
	return nil
}

// Capturing is true while a text field has focus
func (v *SettingsView) Capturing() bool {
	return v.focusIdx >= settingsName && v.focusIdx < settingsSave
}

func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+s":
			v.save()
			return v, nil
		case key.Matches(msg, v.keys.Back):
			v.focusIdx = -1
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % settingsFields
			v.updateFocus()
			return v, textinput.Blink
		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + settingsFields - 1) % settingsFields
			v.updateFocus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit) && v.focusIdx < 0:
			v.focusIdx = settingsName
			v.updateFocus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx == settingsSave {
				v.save()
				return v, nil
			}
			v.focusIdx++
			v.updateFocus()
			return v, textinput.Blink
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case settingsName:
			v.name, cmd = v.name.Update(msg)
		case settingsEmail:
			v.email, cmd = v.email.Update(msg)
		case settingsAvatar:
			v.avatar, cmd = v.avatar.Update(msg)
		}
		if v.Capturing() {
			v.saved = false
		}
		return v, cmd
	}
	return v, nil
}

func (v *SettingsView) save() {
	name := strings.TrimSpace(v.name.Value())
	if name == "" {
		v.err = errNameRequired
		v.saved = false
		return
	}
	email := strings.TrimSpace(v.email.Value())
	avatar := strings.TrimSpace(v.avatar.Value())

	_, err := v.syncer.UpdateProfile(session.ProfileUpdate{Name: &name, Email: &email, Avatar: &avatar})
	v.err = err
	v.saved = err == nil
	if v.saved {
		v.focusIdx = -1
		v.updateFocus()
	}
}

func (v *SettingsView) updateFocus() {
	v.name.Blur()
	v.email.Blur()
	v.avatar.Blur()
	switch v.focusIdx {
	case settingsName:
		v.name.Focus()
	case settingsEmail:
		v.email.Focus()
	case settingsAvatar:
		v.avatar.Focus()
	}
}

func (v *SettingsView) View() string {
	s := v.styles
	inputWidth := clamp(styles.ContentWidth(v.width)-6, 20, 50)

	field := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.focusIdx == settingsSave {
		btnStyle = s.ButtonFocused
	}

	status := ""
	switch {
	case v.err != nil:
		status = s.ErrorText.Render(v.err.Error())
	case v.saved:
		status = s.TitleMuted.Render("Profile updated.")
	}

	role := ""
	if u, ok := v.syncer.Session().User(); ok {
		role = s.RenderBadge(string(u.Role), styles.Current.Secondary)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Profile")+" "+role,
		"",
		"Name:",
		field(settingsName).Width(inputWidth).Render(v.name.View()),
		"Email:",
		field(settingsEmail).Width(inputWidth).Render(v.email.View()),
		"Avatar:",
		field(settingsAvatar).Width(inputWidth).Render(v.avatar.View()),
		"",
		btnStyle.Render(" Save "),
		status,
		renderHelp(s, "tab", "next field", "ctrl+s", "save", "esc", "done"),
	)
	return styles.CenterView(form, v.width, v.height)
}
