package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"desk-cli/internal/model"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tableCellStyle   = lipgloss.NewStyle().PaddingRight(2)
	trashedStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// renderItemTable renders a human-readable listing; JSON stays the scriptable
// default.
func renderItemTable(items []model.Item) string {
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, []string{"ID", "TYPE", "NAME", "CELL", "UPDATED"})
	for _, it := range items {
		rows = append(rows, []string{
			it.ID,
			string(it.Type),
			it.Name,
			fmt.Sprintf("(%d,%d)", it.Position.X, it.Position.Y),
			it.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}

	// Column widths are display widths, not byte counts, so multi-byte and
	// wide characters in names keep the columns aligned.
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		for i, cell := range row {
			padded := cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			switch {
			case r == 0:
				b.WriteString(tableHeaderStyle.Render(tableCellStyle.Render(padded)))
			case r > 0 && items[r-1].Trashed:
				b.WriteString(trashedStyle.Render(tableCellStyle.Render(padded)))
			default:
				b.WriteString(tableCellStyle.Render(padded))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
