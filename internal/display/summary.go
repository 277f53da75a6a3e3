package display

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SummaryRow is one line of the end-of-run outcome table.
type SummaryRow struct {
	Label string
	Count int
}

// RenderSummary renders the outcome counts as a rounded table. Rows with a
// zero count are still shown so the columns line up between runs.
func RenderSummary(rows []SummaryRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// StyleRounded uppercases headers; keep them as written.
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Outcome", "Files"})

	for _, r := range rows {
		tw.AppendRow(table.Row{r.Label, strconv.Itoa(r.Count)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
