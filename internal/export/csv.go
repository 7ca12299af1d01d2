package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/sheet"
)

// ToCSV writes the table rows with one column per hierarchy level and
// attribute of schema.
func ToCSV(schema sheet.Schema, rows []report.TableRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	attrs := schema.AttributeFields()

	header := []string{"Date"}
	header = append(header, schema.Headers()...)
	header = append(header, "Duration")
	for _, a := range attrs {
		header = append(header, title(string(a)))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		line := []string{r.Date}
		for i := range schema.Levels {
			label := ""
			if i < len(r.Path) {
				label = r.Path[i]
			}
			line = append(line, label)
		}
		line = append(line, r.Duration)
		for _, a := range attrs {
			line = append(line, r.Attributes[string(a)])
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
