package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retailops/stockparity/pkg/report"
)

// SummaryToTableData renders the run summary as a key-value table with
// one line per source above the key counts.
func SummaryToTableData(s *report.Summary) Data {
	rows := [][]string{
		{"Run", s.RunID},
		{"Window", s.Window},
	}

	for _, src := range s.Sources {
		rows = append(rows, []string{
			strings.ToUpper(src.Source),
			fmt.Sprintf("%d fetched, %d normalized, %d skipped", src.Fetched, src.Normalized, src.Skipped),
		})
	}

	rows = append(rows,
		[]string{"Keys", strconv.Itoa(s.TotalKeys)},
		[]string{"Within tolerance", strconv.Itoa(s.MatchedWithin)},
		[]string{"Mismatched", strconv.Itoa(s.Mismatched)},
		[]string{"OMS only", strconv.Itoa(s.OMSOnly)},
		[]string{"DWH only", strconv.Itoa(s.DWHOnly)},
		[]string{"Diff rows", strconv.Itoa(s.DiffRows)},
	)
	if s.Artifact != "" {
		rows = append(rows, []string{"Artifact", s.Artifact})
	}
	rows = append(rows, []string{"Elapsed", s.Elapsed})

	return Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

// RowsToTableData renders diff rows in the artifact's column order,
// quantities right-aligned.
func RowsToTableData(rows []report.Row) Data {
	data := Data{
		Headers: report.Header(),
		ColumnAlignment: []Align{
			AlignLeft, AlignLeft, AlignLeft,
			AlignRight, AlignRight, AlignRight, AlignRight,
			AlignLeft,
		},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, row.Record())
	}
	return data
}

// FormatSummary writes the run summary in the requested format. Table
// output gets the key-value rendition; structured formats marshal the
// summary itself.
func FormatSummary(w io.Writer, s *report.Summary, format Format) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatTable, "":
		return formatter.Format(w, SummaryToTableData(s))
	default:
		return formatter.Format(w, s)
	}
}

// FormatRows writes diff rows in the requested format. Table and CSV
// output use the artifact column order; structured formats marshal the
// row structs.
func FormatRows(w io.Writer, rows []report.Row, format Format) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatTable, FormatCSV, "":
		return formatter.Format(w, RowsToTableData(rows))
	default:
		return formatter.Format(w, rows)
	}
}
