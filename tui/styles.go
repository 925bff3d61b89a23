package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorBlue    = lipgloss.Color("#2AABEE")
	colorDarkBg  = lipgloss.Color("#17212B")
	colorLightFg = lipgloss.Color("#E1E8ED")
	colorMuted   = lipgloss.Color("#6C7883")
	colorRed     = lipgloss.Color("#E0245E")
	colorGreen   = lipgloss.Color("#4FAE4E")
	colorYellow  = lipgloss.Color("#E8C547")
	colorWhite   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Background(colorBlue).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	brandStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorMsgStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	focusedPanelStyle = panelStyle.
				BorderForeground(colorBlue)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	chatNameStyle = lipgloss.NewStyle().
			Foreground(colorLightFg)

	chatSelectedStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Background(colorDarkBg).
				Bold(true)

	chatPreviewStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	unreadStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorBlue).
			Padding(0, 1)

	onlineStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	matchStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Underline(true)

	senderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	outgoingSenderStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	messageMetaStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	messageSelectedStyle = lipgloss.NewStyle().
				Background(colorDarkBg)

	searchBarStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			Padding(0, 1)

	guideStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(0, 2)

	guideKeyStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Width(14)
)
