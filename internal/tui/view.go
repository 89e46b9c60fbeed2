package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/ports"
)

const (
	typeColWidth   = 10
	authorColWidth = 14
	dateColWidth   = 16
)

// View renders the current surface.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.view {
	case viewBell:
		b.WriteString(m.renderBell())
	case viewPanel:
		b.WriteString(m.renderList(m.coord.Unread(), m.coord.LoadingUnread()))
	case viewHistory:
		b.WriteString(m.renderList(m.coord.Notifications(), m.coord.Loading()))
		b.WriteString(m.renderPager())
	}

	if m.toast != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.toast.Render(
			fmt.Sprintf("● %s — %s", m.toast.Title, m.toast.Author)))
	}
	if err := m.firstError(); err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.errLine.Render("error: " + err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.styles.header.Render("Notifications")
	badge := ""
	if n := m.coord.UnreadCount(); n > 0 {
		badge = " " + m.styles.badge.Render(fmt.Sprintf("%d", n))
	}

	tabs := []string{"bell", "unread", "history"}
	active := int(m.view)
	rendered := make([]string, len(tabs))
	for i, name := range tabs {
		if i == active {
			rendered[i] = m.styles.tabActive.Render(name)
		} else {
			rendered[i] = m.styles.tab.Render(name)
		}
	}

	conn := m.styles.dim.Render("offline")
	switch m.coord.ConnectionState() {
	case ports.StateConnected:
		conn = m.styles.dim.Render("live")
	case ports.StateConnecting:
		conn = m.styles.dim.Render(m.sp.View() + "connecting")
	}

	return fmt.Sprintf("%s%s  %s  %s", title, badge, strings.Join(rendered, " | "), conn)
}

func (m *Model) renderBell() string {
	n := m.coord.UnreadCount()
	if n == 0 {
		return m.styles.dim.Render("No unread notifications.")
	}
	return fmt.Sprintf("You have %d unread notification(s). Press enter to open.", n)
}

func (m *Model) renderList(items []domain.Notification, loading bool) string {
	if loading && len(items) == 0 {
		return m.sp.View() + " loading..."
	}
	if len(items) == 0 {
		return m.styles.dim.Render("Nothing here.")
	}

	var b strings.Builder
	for i, n := range items {
		line := m.renderRow(n)
		if i == m.cursor {
			line = m.styles.rowCursor.Render(line)
		} else {
			line = m.styles.row.Render(line)
		}
		b.WriteString(line)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderRow(n domain.Notification) string {
	mark := " "
	if !n.Read {
		mark = m.styles.unreadMark.Render("●")
	}
	return fmt.Sprintf("%s %-*s %-*s %-*s %s",
		mark,
		typeColWidth, truncate(string(n.Type), typeColWidth),
		authorColWidth, truncate(n.Author, authorColWidth),
		dateColWidth, shortDate(n.Date),
		n.Title)
}

func (m *Model) renderPager() string {
	info := fmt.Sprintf("\npage %d/%d (%d total)",
		m.coord.CurrentPage(), m.coord.TotalPages(), m.coord.Total())
	if !m.coord.Filters().IsEmpty() {
		info += " [filtered]"
	}
	return m.styles.dim.Render(info)
}

func (m *Model) renderFooter() string {
	var help string
	switch m.view {
	case viewBell:
		help = "enter unread • h history • q quit"
	case viewPanel:
		help = "j/k move • r mark read • R mark all • esc back • q quit"
	case viewHistory:
		help = "j/k move • r mark read • n/p page • c clear filters • esc back • q quit"
	}
	return m.styles.footer.Render(help)
}

// firstError picks the most relevant error line to show.
func (m *Model) firstError() error {
	if m.opErr != nil {
		return m.opErr
	}
	if err := m.coord.Err(); err != nil {
		return err
	}
	return m.coord.ChannelErr()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

func shortDate(date string) string {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return date
	}
	return t.Format("2006-01-02 15:04")
}
