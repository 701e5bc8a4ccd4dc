package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mistakeknot/milgrim/internal/diffview"
	pkgtui "github.com/mistakeknot/milgrim/pkg/tui"
)

const sidebarWidth = 30

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	var body string
	if m.help.Visible {
		body = m.help.Render(m.keys.CommonKeys, m.keys.helpExtras(), m.width)
	} else {
		sidebar := m.renderSidebar()
		diff := m.renderDiff()
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, diff)
	}

	return header + "\n" + body + "\n" + footer
}

func (m Model) renderHeader() string {
	title := pkgtui.TitleStyle.Render("MILGRIM")
	detail := ""
	if ws := m.currentWorkspace(); ws != nil {
		detail = pkgtui.SubtitleStyle.Render("  " + ws.DisplayName())
	}
	return title + detail
}

func (m Model) renderSidebar() string {
	var lines []string
	if m.filterActive {
		lines = append(lines, m.filter.View())
	} else {
		lines = append(lines, pkgtui.LabelStyle.Render("WORKSPACES"))
	}

	if len(m.filtered) == 0 {
		lines = append(lines, pkgtui.UnselectedStyle.Render("no workspaces"))
	}
	for i, idx := range m.filtered {
		ws := m.workspaces[idx]
		label := truncate(ws.DisplayName(), sidebarWidth-4)
		if m.hasUnseen(ws) {
			label += " " + pkgtui.UnseenBadgeStyle.Render("●")
		}
		if i == m.selected {
			lines = append(lines, pkgtui.SelectedStyle.Render("> "+label))
		} else {
			lines = append(lines, pkgtui.UnselectedStyle.Render("  "+label))
		}
	}

	style := pkgtui.PaneUnfocusedStyle
	if m.focus == focusWorkspaces {
		style = pkgtui.PaneFocusedStyle
	}
	return style.Width(sidebarWidth).Height(m.diffPageSize()).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDiff() string {
	width := m.width - sidebarWidth - 6
	if width < 20 {
		width = 20
	}

	var lines []string
	switch {
	case m.session == nil:
		lines = []string{pkgtui.UnselectedStyle.Render("Select a workspace")}
	case m.session.Model == nil:
		lines = []string{pkgtui.UnselectedStyle.Render("Diff not loaded yet")}
	case len(m.session.View.Lines) == 0:
		lines = []string{pkgtui.UnselectedStyle.Render("Working tree clean")}
	default:
		lines = m.renderDiffLines(width)
	}

	style := pkgtui.PaneUnfocusedStyle
	if m.focus == focusDiff {
		style = pkgtui.PaneFocusedStyle
	}
	return style.Width(width).Height(m.diffPageSize()).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDiffLines(width int) []string {
	view := m.session.View
	height := m.diffPageSize()
	start := m.viewOffset
	end := start + height
	if end > len(view.Lines) {
		end = len(view.Lines)
	}

	selStart, selEnd, selActive := m.session.SelectionRange()

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := truncate(view.Lines[i], width-2)
		switch {
		case i == m.session.Cursor:
			text = pkgtui.CursorLineStyle.Render(text)
		case selActive && i >= selStart && i <= selEnd:
			text = pkgtui.VisualLineStyle.Render(text)
		default:
			text = diffLineStyle(view.Meta[i], view.Lines[i]).Render(text)
		}
		lines = append(lines, text)
	}
	return lines
}

func diffLineStyle(meta diffview.LineMeta, line string) lipgloss.Style {
	switch meta.Kind {
	case diffview.LineInfo:
		return pkgtui.DiffInfoStyle
	case diffview.LineFile:
		return pkgtui.DiffFileStyle
	case diffview.LineHunk:
		return pkgtui.DiffHunkStyle
	}
	if strings.HasPrefix(line, "+") {
		return pkgtui.DiffAddedStyle
	}
	if strings.HasPrefix(line, "-") {
		return pkgtui.DiffRemovedStyle
	}
	return pkgtui.DiffContextStyle
}

func (m Model) renderFooter() string {
	status := m.status
	if status == "" && m.session != nil {
		status = m.session.Status
	}

	help := footerKeys(m.focus)
	if status == "" {
		return help
	}
	statusStyle := pkgtui.SubtitleStyle
	if strings.HasPrefix(status, "Edit failed") || strings.HasPrefix(status, "Diff load failed") {
		statusStyle = pkgtui.StatusErrorStyle
	}
	return statusStyle.Render(status) + "  " + help
}

func footerKeys(focus string) string {
	type keyDesc struct {
		key  string
		desc string
	}
	var pairs []keyDesc
	if focus == focusWorkspaces {
		pairs = []keyDesc{
			{"j/k", "move"}, {"enter", "open"}, {"/", "filter"},
			{"r", "rescan"}, {"tab", "diff"}, {"?", "help"}, {"ctrl+c", "quit"},
		}
	} else {
		pairs = []keyDesc{
			{"j/k", "move"}, {"d", "delete"}, {"v", "visual"}, {"u", "undo"},
			{"ctrl+r", "redo"}, {"enter", "fold"}, {"tab", "workspaces"}, {"?", "help"},
		}
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = pkgtui.HelpKeyStyle.Render(p.key) + " " + pkgtui.HelpDescStyle.Render(p.desc)
	}
	return strings.Join(parts, pkgtui.HelpDescStyle.Render(" • "))
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return fmt.Sprintf("%s…", string(runes[:width-1]))
}
