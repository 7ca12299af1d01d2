package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/store"
)

type jsonExport struct {
	ExportedAt string               `json:"exported_at"`
	Schema     string               `json:"schema"`
	Unit       string               `json:"unit"`
	Range      string               `json:"range"`
	Level      string               `json:"level"`
	Project    string               `json:"project,omitempty"`
	Task       string               `json:"task,omitempty"`
	Total      float64              `json:"total"`
	Count      int                  `json:"count"`
	Charts     map[string]jsonChart `json:"charts"`
	Tree       []jsonNode           `json:"tree"`
	Rows       []jsonRow            `json:"rows"`
}

type jsonChart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

type jsonNode struct {
	Label    string   `json:"label"`
	Children []string `json:"children"`
}

type jsonRow struct {
	Date       string            `json:"date"`
	Path       []string          `json:"path"`
	Duration   string            `json:"duration"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// ToJSON writes the dashboard's charts, tree and table rows as indented
// JSON.
func ToJSON(d store.Dashboard, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Schema:     d.Schema.Name,
		Unit:       d.Schema.Unit.String(),
		Range:      d.Range.String(),
		Level:      d.LevelName,
		Project:    d.Project,
		Task:       d.Task,
		Total:      d.Total,
		Count:      len(d.Table),
		Charts: map[string]jsonChart{
			"overview":  toJSONChart(d.Overview),
			"detail":    toJSONChart(d.Detail),
			"breakdown": toJSONChart(d.Breakdown),
		},
		Tree: []jsonNode{},
		Rows: []jsonRow{},
	}
	for _, n := range d.Tree {
		out.Tree = append(out.Tree, jsonNode{Label: n.Label, Children: n.Children})
	}
	for _, r := range d.Table {
		out.Rows = append(out.Rows, jsonRow{
			Date:       r.Date,
			Path:       r.Path,
			Duration:   r.Duration,
			Attributes: r.Attributes,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func toJSONChart(c report.ChartData) jsonChart {
	return jsonChart{Labels: c.Labels, Values: c.Values, Colors: c.Colors}
}
