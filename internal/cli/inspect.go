package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand opens an interactive browser over a computed layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags   inputFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Browse commit placements and connectors interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, res, err := c.computeLayout(cmd.Context(), args[0], flags, noCache)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewCommitListModel(g, res), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// CommitListModel - Interactive placement browser
// =============================================================================

// CommitListModel is the bubbletea model for browsing placed commits.
// Enter toggles the connector panel of the commit under the cursor.
type CommitListModel struct {
	Graph   *gitgraph.Graph
	Result  *layout.Result
	Cursor  int
	Height  int
	Offset  int
	Showing bool
}

// NewCommitListModel creates a new commit list model.
func NewCommitListModel(g *gitgraph.Graph, res *layout.Result) CommitListModel {
	return CommitListModel{
		Graph:  g,
		Result: res,
		Height: 15,
	}
}

func (m CommitListModel) Init() tea.Cmd {
	return nil
}

func (m CommitListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Showing {
				m.Showing = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Result.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Result.Nodes) > 0 {
				m.Showing = !m.Showing
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CommitListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Commit Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ connectors  q quit"))
	b.WriteString("\n\n")

	if len(m.Result.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no commits placed"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Result.Nodes) {
		end = len(m.Result.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, placementRow(m.Graph, m.Result.Nodes[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Commit", "Seq", "Lane", "Position", "Branch", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 || col == 4 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Showing {
		b.WriteString("\n")
		b.WriteString(m.connectorView(m.Result.Nodes[m.Cursor].ID))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Result.Nodes))))
	if m.Result.Partial() {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render("partial: " + m.Result.Err.Error()))
	}

	return b.String()
}

// connectorView lists the connectors leaving or entering the commit id.
func (m CommitListModel) connectorView(id string) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render("Connectors of " + id))
	b.WriteString("\n")

	n := 0
	for _, conn := range m.Result.Connectors {
		if conn.From != id && conn.To != id {
			continue
		}
		n++
		pts := 0
		for _, s := range conn.Segments {
			pts += len(s.Points)
		}
		fmt.Fprintf(&b, "  %s %s %s  %s  %s\n",
			conn.From, iconArrow, conn.To,
			lipgloss.NewStyle().Foreground(lipgloss.Color(conn.Color)).Render("■ "+conn.Color),
			listDimStyle.Render(strconv.Itoa(len(conn.Segments))+" segments, "+strconv.Itoa(pts)+" points"))
	}
	if n == 0 {
		b.WriteString(listDimStyle.Render("  none"))
		b.WriteString("\n")
	}
	return b.String()
}
