package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"golang.org/x/term"
)

// writeModules lists modules head first. Terminals get a table; anything
// else gets one tab-separated line per module.
func writeModules(w io.Writer, mods []*entities.ModuleRecord) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: fd fits in int
		_, err := fmt.Fprintln(w, moduleTable(lipgloss.NewRenderer(w), mods))
		return err
	}
	for _, m := range mods {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Kind()); err != nil {
			return err
		}
	}
	return nil
}

func moduleTable(r *lipgloss.Renderer, mods []*entities.ModuleRecord) string {
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	kind := cell.Foreground(lipgloss.Color("#87CEEB"))

	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		rows = append(rows, []string{m.Name, m.Kind().String()})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("#666666"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 1:
				return kind
			default:
				return cell
			}
		}).
		Headers("MODULE", "KIND").
		Rows(rows...).
		String()
}
