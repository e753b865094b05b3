package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth caps the content width so wide terminals get a centered column
const MaxWidth = 96

// ContentWidth returns min(terminalWidth, MaxWidth)
func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView centers content horizontally when the terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// TaskStatusColor is the color of a task status badge
func TaskStatusColor(s models.TaskStatus) lipgloss.Color {
	switch s {
	case models.TaskCompleted:
		return Current.Success
	case models.TaskInProgress:
		return Current.Info
	default:
		return Current.Warning
	}
}

// PriorityColor is the color of a priority badge
func PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return Current.Error
	case models.PriorityMedium:
		return Current.Warning
	default:
		return Current.Success
	}
}

// ProjectStatusColor is the color of a project status badge
func ProjectStatusColor(s models.ProjectStatus) lipgloss.Color {
	switch s {
	case models.ProjectCompleted:
		return Current.Info
	case models.ProjectArchived:
		return Current.ForegroundDim
	default:
		return Current.Success
	}
}

// NotificationColor is the color of a notification type marker
func NotificationColor(t models.NotificationType) lipgloss.Color {
	switch t {
	case models.NotificationSuccess:
		return Current.Success
	case models.NotificationWarning:
		return Current.Warning
	case models.NotificationError:
		return Current.Error
	default:
		return Current.Info
	}
}

// Styles holds the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// navigation bar
	NavItem   lipgloss.Style
	NavActive lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	Box lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Badge lipgloss.Style

	StatValue lipgloss.Style
	StatLabel lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Banner    lipgloss.Style
	ErrorText lipgloss.Style
	Overdue   lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		NavItem: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		NavActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 1).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Box: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true),

		StatValue: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		StatLabel: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Banner: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 1),

		ErrorText: lipgloss.NewStyle().
			Foreground(t.Error),

		Overdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
	}
}

// RenderBadge renders text on a colored background
func (s *Styles) RenderBadge(text string, color lipgloss.Color) string {
	return s.Badge.Foreground(Current.Background).Background(color).Render(text)
}
