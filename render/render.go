// Package render prints board snapshots as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"workload-board/board"
	"workload-board/domain"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
)

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Board prints the people summary followed by every column of tasks.
func Board(w io.Writer, st board.State) {
	bold.Fprintf(w, "Board (version %d)\n", st.Version)
	People(w, st.People)
	for _, p := range st.People {
		fmt.Fprintln(w)
		Tasks(w, p)
	}
}

func People(w io.Writer, people []domain.Person) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "ID", "Name", "Level", "Tasks", "Score")
	for i, p := range people {
		_ = table.Append(strconv.Itoa(i), p.ID, p.Name, strconv.Itoa(int(p.Level)), strconv.Itoa(len(p.Tasks)), formatScore(p.TotalScore))
	}
	_ = table.Render()
}

// Tasks prints one person's column in board order.
func Tasks(w io.Writer, p domain.Person) {
	bold.Fprintf(w, "%s", p.Name)
	faint.Fprintf(w, " L%d, score %s\n", p.Level, formatScore(p.TotalScore))
	if len(p.Tasks) == 0 {
		faint.Fprintln(w, "no tasks")
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("#", "ID", "Title", "Size", "Colour")
	for i, t := range p.Tasks {
		_ = table.Append(strconv.Itoa(i), t.ID, t.Title, string(t.Estimation), t.Color)
	}
	_ = table.Render()
}

// Weights prints the weight table with one row per size and one column per
// level. Missing cells are shown as "-".
func Weights(w io.Writer, table domain.WeightTable) {
	levels := domain.Levels()
	header := make([]any, 0, len(levels)+1)
	header = append(header, "Size")
	for _, l := range levels {
		header = append(header, strconv.Itoa(int(l)))
	}
	tw := tablewriter.NewWriter(w)
	tw.Header(header...)
	for _, size := range domain.Sizes() {
		row := make([]any, 0, len(levels)+1)
		row = append(row, string(size))
		for _, l := range levels {
			if v, ok := table.Weight(size, l); ok {
				row = append(row, formatScore(v))
			} else {
				row = append(row, "-")
			}
		}
		_ = tw.Append(row...)
	}
	_ = tw.Render()
}
