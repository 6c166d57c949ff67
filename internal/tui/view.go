package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/foodverse/foodverse/internal/core/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	if m.authed {
		body = m.dashboardView()
	} else {
		body = m.loginView()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		"",
		m.footerView(),
	)

	return m.toasts.Overlay(screen, m.width, m.height)
}

func (m Model) headerView() string {
	title := styles.AppTitleStyle.Render("FoodVerse")

	var who string
	if m.authed {
		who = styles.RoleBadgeStyle.Render(string(m.user.Role)) + " " +
			styles.ValueStyle.Render(styles.IconUser+" "+m.user.Name)
		if label := sellerStatusLabel(m.seller); label != "" {
			who += "  " + styles.StatusPendingStyle.Render(label)
		}
	} else {
		who = styles.MutedStyle.Render("not signed in")
	}

	header := title + "  " + who
	if m.width > 0 {
		return styles.HeaderStyle.Width(m.width).Render(header)
	}
	return styles.HeaderStyle.Render(header)
}

func (m Model) loginView() string {
	if m.signingIn {
		return styles.LoginPanelStyle.Render(m.spinner.View() + " Signing in…")
	}
	if m.form == nil {
		return ""
	}
	return styles.LoginPanelStyle.Render(m.form.View())
}

func (m Model) dashboardView() string {
	list := m.listView()
	if m.detail == "" {
		return list
	}

	detail := styles.DetailPanelStyle.Width(m.detailWidth()).Render(m.detail)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
}

func (m Model) listView() string {
	var sb strings.Builder
	sb.WriteString(styles.SectionTitleStyle.Render(m.sectionTabs()))
	sb.WriteString("\n")

	switch {
	case m.loading && len(m.items) == 0:
		sb.WriteString(m.spinner.View() + " Loading…")
	case len(m.items) == 0:
		sb.WriteString(styles.MutedStyle.Render("Nothing here yet."))
	default:
		for i, it := range m.items {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(m.itemView(it, i == m.selected))
		}
	}

	return lipgloss.NewStyle().Width(m.listWidth()).Render(sb.String())
}

// sectionTabs renders the current section title, with the other sections of
// the role dimmed after it.
func (m Model) sectionTabs() string {
	current := m.currentSection()
	out := current.title()
	for _, s := range m.sections {
		if s != current {
			out += "  " + styles.MutedStyle.Render(s.title())
		}
	}
	return out
}

func (m Model) itemView(it item, selected bool) string {
	if selected {
		return styles.SelectedItemStyle.Render(styles.IconCursor+" "+it.title) + "\n" +
			styles.ItemStyle.Render(it.meta)
	}
	return styles.ItemStyle.Render(it.title) + "\n" + styles.ItemStyle.Render(it.meta)
}

func (m Model) footerView() string {
	if !m.authed {
		return styles.MutedStyle.Render("enter submit · tab next field · esc dismiss toast · ctrl+x dismiss all · ctrl+c quit")
	}
	return m.help.View(m.keys)
}
