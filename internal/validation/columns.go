package validation

import (
	"fmt"
	"strings"

	"github.com/yungbote/promptsheet-backend/internal/sheets"
)

type SheetSchema struct {
	Name    string
	Columns []string
}

// Schema is evaluated in declaration order.
type Schema []SheetSchema

const (
	SheetPrompt          = "prompt"
	SheetConcatPrompt    = "concat_prompt"
	SheetConcatCondition = "concat_condition"
)

// WorkbookSchema is the required layout of an uploaded workbook.
var WorkbookSchema = Schema{
	{Name: SheetPrompt, Columns: []string{"template_name", "prompt_template", "description"}},
	{Name: SheetConcatPrompt, Columns: []string{"concat_id", "concat_template", "post_processing_template", "condition_id", "description"}},
	{Name: SheetConcatCondition, Columns: []string{"template_name", "rel", "value"}},
}

// ValidateColumns reports the required columns each schema sheet lacks. An
// absent sheet is reported as missing all of its columns.
func ValidateColumns(set sheets.SheetSet, schema Schema) Result {
	res := newResult()
	for _, s := range schema {
		have := map[string]bool{}
		for _, h := range set.Get(s.Name).HeaderNames() {
			have[h] = true
		}
		var missing []string
		for _, col := range s.Columns {
			if !have[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			res.fail(fmt.Sprintf("Sheet %s is missing columns: %s", s.Name, strings.Join(missing, ", ")))
		}
	}
	return res
}
