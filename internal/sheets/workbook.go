package sheets

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses an xlsx document. The first row of every sheet is its
// header row; every later non-blank row becomes a record whose cells are kept
// as formatted strings. Empty cells are left out of the record.
func ReadWorkbook(r io.Reader) (SheetSet, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	set := make(SheetSet, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		set[name] = sheetFromRows(rows)
	}
	return set, names, nil
}

func sheetFromRows(rows [][]string) *Sheet {
	sh := &Sheet{Headers: []Value{}, Rows: []Row{}}
	if len(rows) == 0 {
		return sh
	}

	// Blank header cells drop their column; repeated names get a numeric suffix.
	cols := make([]string, len(rows[0]))
	seen := map[string]int{}
	for i, raw := range rows[0] {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		cols[i] = name
		sh.Headers = append(sh.Headers, String(name))
	}

	for _, cells := range rows[1:] {
		row := Row{}
		for i, cell := range cells {
			if i >= len(cols) || cols[i] == "" || cell == "" {
				continue
			}
			row[cols[i]] = String(cell)
		}
		if len(row) == 0 {
			continue
		}
		sh.Rows = append(sh.Rows, row)
	}
	return sh
}

// WriteWorkbook writes set as xlsx, one worksheet per sheet. Sheets appear in
// order first; any others follow sorted by name.
func WriteWorkbook(w io.Writer, set SheetSet, order []string) error {
	f := excelize.NewFile()
	defer f.Close()

	names := orderedNames(set, order)
	if len(names) == 0 {
		return fmt.Errorf("write workbook: no sheets")
	}
	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, set[name]); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func orderedNames(set SheetSet, order []string) []string {
	out := make([]string, 0, len(set))
	used := map[string]bool{}
	for _, name := range order {
		if _, ok := set[name]; ok && !used[name] {
			out = append(out, name)
			used[name] = true
		}
	}
	var rest []string
	for name := range set {
		if !used[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func writeSheet(f *excelize.File, name string, sh *Sheet) error {
	if sh == nil {
		return nil
	}
	headers := sh.HeaderNames()
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}
	for r, row := range sh.Rows {
		cells := make([]interface{}, len(headers))
		for c, h := range headers {
			cells[c] = cellValue(row[h])
		}
		addr, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, addr, &cells); err != nil {
			return fmt.Errorf("write row %d of %q: %w", r+1, name, err)
		}
	}
	return nil
}

func cellValue(v Value) interface{} {
	switch v.Kind() {
	case KindString:
		return v.Str()
	case KindNumber:
		return v.Num()
	case KindList:
		return v.String()
	default:
		return nil
	}
}
