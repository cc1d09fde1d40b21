// Package render formats Fragments and Statistics as text tables, using
// https://github.com/jedib0t/go-pretty
package render

import (
	"fmt"
	"strconv"

	"github.com/go-sif/esframe"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Format is an output format for tables
type Format int

const (
	// TableFormat draws a boxed text table
	TableFormat Format = iota
	// CSVFormat produces comma-separated values
	CSVFormat
	// MarkdownFormat produces a Markdown table
	MarkdownFormat
)

// ParseFormat translates a format name ("table", "csv" or "markdown") to a Format
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "table":
		return TableFormat, nil
	case "csv":
		return CSVFormat, nil
	case "markdown", "md":
		return MarkdownFormat, nil
	default:
		return TableFormat, fmt.Errorf("unknown output format %q", name)
	}
}

func newWriter() table.Writer {
	t := table.NewWriter()
	style := table.StyleDefault
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)
	return t
}

func render(t table.Writer, format Format) string {
	switch format {
	case CSVFormat:
		return t.RenderCSV()
	case MarkdownFormat:
		return t.RenderMarkdown()
	default:
		return t.Render()
	}
}

// Fragment renders a Fragment with one row per document, led by its _id.
// Missing values use the null representation of their column's Dtype.
func Fragment(f *esframe.Fragment, format Format) string {
	t := newWriter()
	header := table.Row{""}
	for _, col := range f.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)
	for i, values := range f.Rows {
		row := make(table.Row, 0, len(values)+1)
		if i < len(f.Index) {
			row = append(row, f.Index[i])
		} else {
			row = append(row, strconv.Itoa(i))
		}
		for j, v := range values {
			row = append(row, f.Dtypes[j].ToString(v))
		}
		t.AppendRow(row)
	}
	return render(t, format)
}

// Statistics renders Statistics with one row per statistic and one column per described field
func Statistics(s *esframe.Statistics, format Format) string {
	t := newWriter()
	header := table.Row{""}
	for _, col := range s.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)
	for i, stat := range esframe.StatisticNames {
		row := table.Row{stat}
		for _, col := range s.Columns {
			row = append(row, formatStatistic(s.Values[col][i]))
		}
		t.AppendRow(row)
	}
	return render(t, format)
}

func formatStatistic(v *float64) string {
	if v == nil {
		return esframe.FloatDtype.NullString()
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// Columns renders column names alongside their Dtypes
func Columns(columns []string, dtypes []esframe.Dtype, format Format) string {
	t := newWriter()
	t.AppendHeader(table.Row{"column", "dtype"})
	for i, col := range columns {
		t.AppendRow(table.Row{col, dtypes[i].String()})
	}
	return render(t, format)
}

// Counts renders a count per column
func Counts(columns []string, counts []int64, format Format) string {
	t := newWriter()
	t.AppendHeader(table.Row{"column", "count"})
	for i, col := range columns {
		t.AppendRow(table.Row{col, counts[i]})
	}
	return render(t, format)
}
