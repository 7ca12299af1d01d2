package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/sadopc/worklens/internal/record"
)

// ChartData is the input of a pie or bar chart.
type ChartData struct {
	Labels []string
	Values []float64
	Colors []string
}

// Chart converts colored buckets into chart series.
func Chart(buckets []Bucket) ChartData {
	c := ChartData{
		Labels: make([]string, len(buckets)),
		Values: make([]float64, len(buckets)),
		Colors: make([]string, len(buckets)),
	}
	for i, b := range buckets {
		c.Labels[i] = b.Key
		c.Values[i] = b.Total
		c.Colors[i] = b.Color
	}
	return c
}

// Len returns the number of series entries.
func (c ChartData) Len() int { return len(c.Labels) }

// TableRow is one line of the data table.
type TableRow struct {
	Date       string
	Path       []string
	Duration   string
	Attributes map[string]string // outcome, plan, progress
}

// Table formats records for display. Dates use yyyy/mm/dd.
func Table(records []record.Record) []TableRow {
	rows := make([]TableRow, len(records))
	for i, r := range records {
		attrs := make(map[string]string)
		for k, v := range r.Attributes {
			if k == record.AttrSerialDate || k == record.AttrDuration {
				continue
			}
			attrs[k] = v
		}
		dur := r.Attributes[record.AttrDuration]
		if dur == "" {
			dur = strconv.FormatFloat(r.Measure, 'f', 2, 64)
		}
		rows[i] = TableRow{
			Date:       r.Date.Format("2006/01/02"),
			Path:       append([]string(nil), r.Path...),
			Duration:   dur,
			Attributes: attrs,
		}
	}
	return rows
}

// Tree builds a renderable tree of nodes under root. Callers may style it
// further before calling String.
func Tree(root string, nodes []Node) *tree.Tree {
	t := tree.Root(root).Enumerator(tree.RoundedEnumerator)
	for _, n := range nodes {
		if len(n.Children) == 0 {
			t.Child(n.Label)
			continue
		}
		sub := tree.Root(n.Label)
		for _, c := range n.Children {
			sub.Child(c)
		}
		t.Child(sub)
	}
	return t
}
