// Package termview draws rendered policy tables and lists for the terminal.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"raidash/domain/policy"
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	placeholderStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	labelStyle       = lipgloss.NewStyle().Padding(0, 1)
	leafStyle        = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("10"))
	outerStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12"))
	innerStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))
	columnStyle      = lipgloss.NewStyle().PaddingRight(2)
)

// RenderTable draws a policy table as nested boxes
func RenderTable(t policy.Table) string {
	switch t.Kind {
	case policy.KindPlaceholder:
		return placeholderStyle.Render(t.Text)
	case policy.KindLeaf:
		return leafStyle.Render(strings.Join(t.Lines, "\n"))
	}

	rows := make([]string, 0, 2)
	for _, row := range t.Rows {
		cells := make([]string, 0, 2)
		for _, cell := range row {
			cells = append(cells, renderCell(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if t.Nested {
		return innerStyle.Render(body)
	}
	return outerStyle.Render(body)
}

func renderCell(c policy.Cell) string {
	if c.Child != nil {
		return RenderTable(*c.Child)
	}
	return labelStyle.Render(c.Label)
}

// RenderSection draws the section header above its table
func RenderSection(s policy.Section) string {
	header := headerStyle.Render(s.Header)
	if s.TreatmentFeature != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", s.TreatmentFeature)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", RenderTable(s.Table))
}

// RenderList draws the top local policies as aligned columns
func RenderList(l policy.PolicyList, noData string) string {
	if l.Empty() {
		return placeholderStyle.Render(noData)
	}
	columns := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		lines := []string{headerStyle.Render(c.Name)}
		for _, row := range l.Rows {
			lines = append(lines, row.Cell(c.Key))
		}
		columns[i] = columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
