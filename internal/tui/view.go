package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const appTitle = "WasteWise"

func (m Model) View() string {
	if m.quitting {
		return "Goodbye\n"
	}
	if !m.Ready() {
		return ""
	}
	header := m.renderHeader()
	status := m.renderStatusBar()
	footer := m.renderFooter()
	bodyHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer))
	body := fitHeight(m.renderBody(), bodyHeight)
	view := strings.Join([]string{header, status, body, footer}, "\n")
	view = fitHeight(view, max(1, m.height))
	return m.styles.App.Width(max(1, m.width)).MaxWidth(max(1, m.width)).Render(view)
}

func (m Model) renderHeader() string {
	s := m.styles
	left := s.Header.Render(appTitle)
	root, ok := m.rootDestination()
	var right string
	if ok && root.IsNavigator() {
		tabs := make([]string, 0, len(root.Tabs))
		for i, t := range root.Tabs {
			label := fmt.Sprintf("%d:%s", i+1, t.Title)
			if i == m.activeTab {
				tabs = append(tabs, s.ActiveTab.Render(label))
			} else {
				tabs = append(tabs, s.InactiveTab.Render(label))
			}
		}
		right = s.TabSep.Render(" ") + strings.Join(tabs, s.TabSep.Render("│"))
	} else if ok {
		right = s.InactiveTab.Render(root.Title)
	}
	right = ansi.Truncate(right, max(1, m.width), "")
	gap := 1
	if w := ansi.StringWidth(left) + ansi.StringWidth(right); w+1 < m.width {
		gap = m.width - w
	}
	return renderBar(s.HeaderBar, max(1, m.width), left+strings.Repeat(" ", gap)+right)
}

func (m Model) renderBody() string {
	s := m.styles
	if m.form != nil {
		return m.form.view(s, m.width)
	}
	var title, body, crumb string
	if n := len(m.stack); n > 0 {
		d, _ := m.snap.Graph.Find(m.stack[n-1])
		title, body = d.Title, d.Body
		crumb = strings.Join(append([]string{m.root}, m.stack...), " › ")
	} else if root, ok := m.rootDestination(); ok && m.activeTab < len(root.Tabs) {
		t := root.Tabs[m.activeTab]
		title, body = t.Title, t.Body
	}
	lines := []string{}
	if crumb != "" {
		lines = append(lines, s.Label.Render(crumb))
	}
	lines = append(lines, s.Title.Render(title), "", s.Body.Render(body))
	if m.snap.State.Identity != nil {
		who := m.snap.State.Identity.Email
		if m.snap.State.Identity.DisplayName != "" {
			who = m.snap.State.Identity.DisplayName
		}
		lines = append(lines, "", s.Label.Render("signed in as "+who+" ("+string(m.snap.State.Role)+")"))
	}
	if m.prompting {
		lines = append(lines, "", m.prompt.View())
	}
	return s.Box.Width(max(20, m.width-4)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	s := m.styles
	bindings := m.keys.Help(m.ActiveScope())
	space := s.Footer.Render(" ")
	sep := s.Footer.Render("  ")
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, s.Key.Render(h.Key)+space+s.HelpDesc.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = s.HelpDesc.Render("No shortcuts")
	}
	return renderBar(s.Footer, max(1, m.width), line)
}

func (m Model) renderStatusBar() string {
	msg := strings.TrimSpace(m.status)
	if msg == "" {
		msg = "Ready"
	}
	if m.statusErr {
		return renderBar(m.styles.StatusErr, max(1, m.width), msg)
	}
	return renderBar(m.styles.Status, max(1, m.width), msg)
}

func renderBar(style lipgloss.Style, width int, text string) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Width(width).MaxWidth(width).Render(line)
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
