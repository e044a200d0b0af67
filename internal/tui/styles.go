package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#d4a017")
	heroEmberColor         = lipgloss.Color("#0b1d3a")
	heroTextColor          = lipgloss.Color("#f5f0e1")
	heroSecondaryTextColor = lipgloss.Color("#e6c36a")

	taglineStyle     = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	currentLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 2)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(heroEmberColor).Background(heroAccentColor).Padding(0, 2)
	paneTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8ecae6"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	timestampStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headingLineStyle    = lipgloss.NewStyle().Bold(true).Foreground(heroSecondaryTextColor)
	placeholderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166"))
	draftBadgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1)
	documentBadgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe")).Padding(0, 1)
	sourceChipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	skeletonStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	newsTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor)
	checkedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Strikethrough(true)
	detailBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(0, 1)

	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#050d1a"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"██╗     ███████╗██╗  ██╗██████╗ ███████╗███████╗██╗  ██╗",
		"██║     ██╔════╝╚██╗██╔╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝",
		"██║     █████╗   ╚███╔╝ ██║  ██║█████╗  ███████╗█████╔╝ ",
		"██║     ██╔══╝   ██╔██╗ ██║  ██║██╔══╝  ╚════██║██╔═██╗ ",
		"███████╗███████╗██╔╝ ██╗██████╔╝███████╗███████║██║  ██╗",
		"╚══════╝╚══════╝╚═╝  ╚═╝╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝",
	}
)
