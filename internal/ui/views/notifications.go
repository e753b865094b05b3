package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/projection"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// NotificationsView lists local notifications with a filter
type NotificationsView struct {
	syncer *syncer.Syncer
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	filter projection.NotificationFilter
	cursor int
	err    error
}

func NewNotificationsView(s *syncer.Syncer) *NotificationsView {
	return &NotificationsView{
		syncer: s,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		filter: projection.NotificationsAll,
	}
}

func (v *NotificationsView) Init() tea.Cmd { return nil }

func (v *NotificationsView) Capturing() bool { return false }

// Visible returns the notifications passing the current filter
func (v *NotificationsView) Visible() []models.Notification {
	list := projection.FilterNotifications(v.syncer.Store().Notifications.All(), v.filter)
	if v.cursor >= len(list) {
		v.cursor = max(len(list)-1, 0)
	}
	return list
}

func (v *NotificationsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height

	case tea.KeyMsg:
		list := v.Visible()
		switch {
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(list)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Filter):
			v.filter = projection.Cycle(projection.NotificationFilters, v.filter)
			v.cursor = 0
		case key.Matches(msg, v.keys.MarkRead), key.Matches(msg, v.keys.Enter):
			if len(list) > 0 {
				v.err = v.syncer.MarkNotificationRead(list[v.cursor].ID)
			}
		case key.Matches(msg, v.keys.MarkAll):
			v.err = v.syncer.MarkAllNotificationsRead()
		case key.Matches(msg, v.keys.Delete):
			if len(list) > 0 {
				v.err = v.syncer.RemoveNotification(list[v.cursor].ID)
			}
		}
	}
	return v, nil
}

func (v *NotificationsView) View() string {
	s := v.styles
	list := v.Visible()
	width := max(styles.ContentWidth(v.width)-4, 20)

	var items []string
	for i, n := range list {
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		marker := lipgloss.NewStyle().Foreground(styles.NotificationColor(n.Type)).Render("●")
		if n.Read {
			marker = s.TitleMuted.Render("○")
		}
		items = append(items,
			style.Width(width).Render(marker+" "+n.Title+"  "+s.TitleMuted.Render(ago(n.CreatedAt, time.Now()))),
			style.Width(width).Foreground(styles.Current.ForegroundDim).Render(n.Message),
		)
	}
	if len(list) == 0 {
		items = append(items, s.TitleMuted.Render("Nothing here."))
	}

	var b strings.Builder
	b.WriteString(renderBanner(s, v.err))
	b.WriteString(s.Title.Render(fmt.Sprintf("Notifications (%d unread)", v.syncer.Store().Notifications.UnreadCount())))
	b.WriteString("\n")
	b.WriteString(s.Button.Render("Filter: " + string(v.filter)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, items...))
	b.WriteString("\n")
	b.WriteString(renderHelp(s, "f", "filter", "m", "mark read", "M", "mark all", "d", "remove"))
	return styles.CenterView(b.String(), v.width, v.height)
}

// ago formats how long before now t was
func ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return formatDate(t)
	}
}
