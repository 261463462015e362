package sheets

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/promptsheet-backend/internal/prompttpl"
)

// ResultRow is one generated response and the arguments that produced it.
type ResultRow struct {
	Value string            `json:"value"`
	Args  map[string]string `json:"args"`
}

const resultsSheet = "results"

// ExportFilename names a results workbook by its creation time.
func ExportFilename(now time.Time) string {
	return "chat_" + now.Format("20060102150405") + ".xlsx"
}

// WriteResults writes one row per result: the filled prompt, the response and
// each argument value. Argument columns come from the first result's keys in
// the order they appear in template, followed by any remaining keys.
func WriteResults(w io.Writer, template string, rows []ResultRow) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return fmt.Errorf("name results sheet: %w", err)
	}

	var argCols []string
	if len(rows) > 0 {
		argCols = argColumns(template, rows[0].Args)
	}
	header := []interface{}{"prompt", "response"}
	for _, c := range argCols {
		header = append(header, c)
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}
	for i, row := range rows {
		cells := []interface{}{prompttpl.Fill(template, row.Args), row.Value}
		for _, c := range argCols {
			cells = append(cells, row.Args[c])
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultsSheet, addr, &cells); err != nil {
			return fmt.Errorf("write results row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func argColumns(template string, args map[string]string) []string {
	out := make([]string, 0, len(args))
	used := map[string]bool{}
	for _, name := range prompttpl.Placeholders(template) {
		if _, ok := args[name]; ok {
			out = append(out, name)
			used[name] = true
		}
	}
	var rest []string
	for k := range args {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
