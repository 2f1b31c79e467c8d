package main

import (
	"fmt"
	"strings"

	"github.com/aristath/stockdash/internal/modules/dashboard"
	"github.com/aristath/stockdash/internal/modules/historical"
	"github.com/aristath/stockdash/internal/modules/metrics"
)

// viewMarkdown lays out a dashboard view as one Markdown document.
// rows limits the historical table; 0 leaves it out.
func viewMarkdown(view *dashboard.View, rows int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", view.Header)
	fmt.Fprintf(&b, "_%s, %d trading days, fetched %s_\n\n",
		view.PeriodLabel, len(view.Historical), view.FetchedAt.Format("2006-01-02 15:04"))

	b.WriteString(metrics.TilesMarkdown(view.Tiles))
	b.WriteString("\n## Key Metrics\n\n")
	b.WriteString(view.Metrics.Markdown())
	b.WriteString("\n")
	b.WriteString(view.Company.Markdown())

	if rows > 0 {
		b.WriteString("\n## Historical Data\n\n")
		b.WriteString(historicalMarkdown(view.Historical.Limit(rows)))
	}

	return b.String()
}

func historicalMarkdown(table historical.Table) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(historical.Columns, " | ") + " |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, row := range table {
		b.WriteString("| " + strings.Join(row.Cells(), " | ") + " |\n")
	}
	return b.String()
}
