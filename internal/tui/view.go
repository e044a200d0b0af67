package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/lexdesk/internal/view"
)

func (m *model) View() string {
	parts := []string{}
	if m.layout.showHero {
		parts = append(parts, m.heroView())
	}
	parts = append(parts, m.tabsView())

	switch m.ctrl.Active() {
	case view.Chat:
		parts = append(parts, m.chatView())
	case view.Library:
		parts = append(parts, m.libraryView())
	case view.News:
		parts = append(parts, m.newsView())
	case view.Checklist:
		parts = append(parts, m.checklistView())
	}

	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	} else if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) tabsView() string {
	tabs := make([]string, 0, len(view.Panes))
	for i, p := range view.Panes {
		label := fmt.Sprintf("%d %s", i+1, p.Label())
		if p == m.ctrl.Active() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return row + "\n" + paneTitleStyle.Render(m.ctrl.Active().Title())
}

func (m *model) chatView() string {
	m.refreshTranscriptIfDirty()
	parts := []string{m.viewport.View()}
	if m.conv.Busy() || m.jobRunning(jobKindAttach) {
		parts = append(parts, helperStyle.Render(m.draftingStatus(time.Now())))
	}
	parts = append(parts, m.composerPanel())
	return joinNonEmpty(parts)
}

// draftingStatus is the spinner line shown while a reply is pending.
func (m *model) draftingStatus(now time.Time) string {
	line := m.spinner.View() + " LexDesk is drafting…"
	if m.pending != nil && !m.pending.Started.IsZero() {
		line += " " + now.Sub(m.pending.Started).Round(time.Second).String()
	}
	return line
}

func (m *model) composerPanel() string {
	return strings.Join([]string{
		sectionHeaderStyle.Render("Composer"),
		m.composer.View(),
		helperStyle.Render(m.composerHelpText()),
	}, "\n")
}

func (m *model) composerHelpText() string {
	return "Enter: send • Esc: clear • /attach /export /copy /reset • Tab: next pane"
}

func (m *model) libraryView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Quick Sections"))
	b.WriteRune('\n')
	wroteTemplates := false
	for idx, entry := range m.entries {
		if entry.template != nil && !wroteTemplates {
			b.WriteRune('\n')
			b.WriteString(sectionHeaderStyle.Render("Drafting Templates"))
			b.WriteRune('\n')
			wroteTemplates = true
		}
		var label string
		if entry.section != nil {
			label = fmt.Sprintf("%s · %s", entry.section.Title, entry.section.Description)
		} else {
			label = fmt.Sprintf("%s %s", entry.template.Icon, entry.template.Title)
		}
		label = truncateCells(label, listLabelWidth)
		if idx == m.libraryCursor {
			b.WriteString(currentLineStyle.Render("▸ " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteRune('\n')
	}
	if len(m.entries) == 0 {
		b.WriteString(helperStyle.Render("The catalog is empty."))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("↑/↓ move • Enter: open in consultation"))

	list := b.String()
	detail := m.libraryDetail()
	if detail == "" {
		return list
	}
	return joinNonEmpty([]string{list, detailBoxStyle.Render(detail)})
}

// libraryDetail renders the highlighted entry as markdown through glamour.
func (m *model) libraryDetail() string {
	if m.libraryCursor < 0 || m.libraryCursor >= len(m.entries) {
		return ""
	}
	entry := m.entries[m.libraryCursor]
	width := m.wrapWidth(6)
	key := fmt.Sprintf("%d:%s", width, entry.title())
	if cached, ok := m.detailCache[key]; ok {
		return cached
	}

	var md string
	if entry.section != nil {
		s := entry.section
		md = fmt.Sprintf("### %s\n\n*%s · %s*\n\n%s\n", s.Title, s.Code, s.Description, s.Summary())
	} else {
		t := entry.template
		md = fmt.Sprintf("### %s\n\n%s\n", t.Title, t.Prompt)
	}

	rendered := md
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := renderer.Render(md); err == nil {
			rendered = strings.Trim(out, "\n")
		}
	} else {
		m.logger.Debug("markdown renderer unavailable")
	}
	m.detailCache[key] = rendered
	return rendered
}

func (m *model) newsView() string {
	items := m.feed.Items()
	var b strings.Builder
	switch {
	case m.feed.Busy() && len(items) == 0:
		b.WriteString(helperStyle.Render(m.spinner.View() + " Fetching latest judgments…"))
		b.WriteRune('\n')
		cells := min(m.wrapWidth(4), 48)
		bar := strings.Repeat("░", cells)
		for i := 0; i < 3; i++ {
			b.WriteRune('\n')
			b.WriteString(skeletonStyle.Render(strings.Repeat("░", cells/2)))
			b.WriteRune('\n')
			b.WriteString(skeletonStyle.Render(bar))
			b.WriteRune('\n')
		}
	case len(items) == 0 && m.feed.LastError() != nil:
		b.WriteString(errorStyle.Render("Unable to load legal news."))
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("Check your connection, then press r to retry."))
	case len(items) == 0:
		b.WriteString(helperStyle.Render("No headlines yet. Press r to fetch."))
	default:
		wrap := m.wrapWidth(4)
		for idx, item := range items {
			if idx > 0 {
				b.WriteRune('\n')
			}
			b.WriteString(newsTitleStyle.Render(wordwrap.String(strings.TrimSpace(item.Title), wrap)))
			b.WriteRune('\n')
			b.WriteString(indentMultiline(wordwrap.String(strings.TrimSpace(item.Snippet), wrap-2), "  "))
			b.WriteRune('\n')
			b.WriteString(timestampStyle.Render(fmt.Sprintf("  %s · Read source ↗ %s", item.Date, item.URL)))
			b.WriteRune('\n')
		}
		if at := m.feed.FetchedAt(); !at.IsZero() {
			b.WriteRune('\n')
			b.WriteString(helperStyle.Render(fmt.Sprintf("Fetched %s • r: refresh", at.Format("15:04"))))
		}
	}
	return b.String()
}

func (m *model) checklistView() string {
	if len(m.catalog.Checklists) == 0 {
		return helperStyle.Render("No checklists in the catalog.")
	}
	var b strings.Builder
	flat := 0
	for li, cl := range m.catalog.Checklists {
		if li > 0 {
			b.WriteRune('\n')
		}
		done := 0
		for si := range cl.Steps {
			if m.checked[checkKey{list: li, step: si}] {
				done++
			}
		}
		b.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("%s (%d/%d)", cl.Title, done, len(cl.Steps))))
		b.WriteRune('\n')
		for si, step := range cl.Steps {
			mark := "[ ]"
			text := step
			if m.checked[checkKey{list: li, step: si}] {
				mark = "[x]"
				text = checkedStyle.Render(step)
			}
			line := fmt.Sprintf("%s %d. %s", mark, si+1, text)
			if flat == m.checklistCursor {
				b.WriteString(currentLineStyle.Render("▸ " + fmt.Sprintf("%s %d. %s", mark, si+1, step)))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteRune('\n')
			flat++
		}
	}
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("↑/↓ move • Space: tick step"))
	return b.String()
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func (m *model) statusBarView() string {
	stats := []string{
		m.conv.Adviser().Name(),
		pluralize(m.conv.Store().Len(), "message"),
	}
	switch {
	case m.conv.Busy():
		stats = append(stats, "Drafting…")
	case m.feed.Busy():
		stats = append(stats, "Fetching news…")
	default:
		stats = append(stats, "Ready")
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

var jobBadgeOrder = []jobKind{jobKindChat, jobKindNews, jobKindAttach, jobKindExport, jobKindCopy}

func (m *model) jobStatusBadges() []string {
	var badges []string
	for _, kind := range jobBadgeOrder {
		snap, ok := m.jobStates[kind]
		if !ok {
			continue
		}
		switch snap.Status {
		case jobStatusRunning:
			badges = append(badges, fmt.Sprintf("%s…", kind))
		case jobStatusSucceeded:
			badges = append(badges, fmt.Sprintf("%s ✓ %s", kind, snap.Duration.Round(100*time.Millisecond)))
		case jobStatusFailed:
			badges = append(badges, fmt.Sprintf("%s ✗", kind))
		}
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Tab", "Next pane"},
		{"1-4", "Jump to pane"},
		{"Enter", "Send / select"},
		{"Ctrl+R", "New consultation"},
		{"Ctrl+Y", "Copy draft"},
		{"r", "Refresh news"},
		{"Space", "Tick step"},
		{"?", "Toggle cheatsheet"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := min(i+columns, len(hints))
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	rows = append(rows, helperStyle.Render(slashHelp()))
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
