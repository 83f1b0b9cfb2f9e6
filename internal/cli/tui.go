package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cropsignal/cropsignal/pkg/config"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// ZoneListModel is the bubbletea model for interactive zone browsing.
type ZoneListModel struct {
	Zones    []config.Zone
	Cursor   int
	Selected *config.Zone
	Height   int
	Offset   int
}

// NewZoneListModel creates a new zone list model.
func NewZoneListModel(zones []config.Zone) ZoneListModel {
	return ZoneListModel{
		Zones:  zones,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m ZoneListModel) Init() tea.Cmd {
	return nil
}

func (m ZoneListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Zones)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			zone := m.Zones[m.Cursor]
			m.Selected = &zone
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ZoneListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Monitored Zones"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Zones) {
		end = len(m.Zones)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		z := m.Zones[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			z.Name,
			fmt.Sprintf("%.2f, %.2f", z.Lat, z.Lon),
			fmt.Sprintf("%.1f%%", z.Weight*100),
			string(z.Tier()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Zone", "Location", "Share", "Tier").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Zones) {
				return lipgloss.NewStyle()
			}
			z := m.Zones[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				return base.Foreground(colorCyan).Bold(true)
			}
			if z.Tier() == config.TierLarge {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Zones))))

	return b.String()
}
