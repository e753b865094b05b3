package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/session"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

var errMissingCredentials = errors.New("email and password are required")

// Navigate asks the app to switch to another top-level view
type Navigate struct {
	Route session.Route
}

// OpenProject asks the app to show the tasks of one project
type OpenProject struct {
	ID string
}

// LoggedIn is sent after a successful login
type LoggedIn struct {
	User models.User
}

// OpDone reports the end of a background write
type OpDone struct {
	Op  string
	Err error
}

// Fetched reports the end of a refresh of every remote collection
type Fetched struct {
	Err error
}

// Refresh reloads projects, tasks and members in the background
func Refresh(s *syncer.Syncer) tea.Cmd {
	return func() tea.Msg {
		return Fetched{Err: s.FetchAll(context.Background())}
	}
}

func run(op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return OpDone{Op: op, Err: fn(context.Background())}
	}
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// renderBanner shows the first non-nil error, or nothing
func renderBanner(s *styles.Styles, errs ...error) string {
	for _, err := range errs {
		if err != nil {
			return s.Banner.Render("! "+err.Error()) + "\n"
		}
	}
	return ""
}

func renderConfirm(s *styles.Styles, width, height int, title, name string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", name)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// renderHelp lays out key hints as "key desc • key desc"
func renderHelp(s *styles.Styles, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
