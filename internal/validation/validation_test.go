package validation

import (
	"reflect"
	"testing"

	"github.com/yungbote/promptsheet-backend/internal/sheets"
)

func hdr(names ...string) []sheets.Value {
	out := make([]sheets.Value, len(names))
	for i, n := range names {
		out[i] = sheets.String(n)
	}
	return out
}

func strRow(kv ...string) sheets.Row {
	row := sheets.Row{}
	for i := 0; i+1 < len(kv); i += 2 {
		row[kv[i]] = sheets.String(kv[i+1])
	}
	return row
}

func greetingSet(greetingRows ...sheets.Row) sheets.SheetSet {
	return sheets.SheetSet{
		"prompt": {
			Headers: hdr("template_name", "prompt_template", "description"),
			Rows:    []sheets.Row{strRow("template_name", "greeting", "prompt_template", "Hi {name}", "description", "x")},
		},
		"greeting": {Headers: hdr("comb_id", "name"), Rows: greetingRows},
	}
}

func TestValidateSheetsEmptySet(t *testing.T) {
	res := ValidateSheets(sheets.SheetSet{})
	if res.Status {
		t.Fatalf("expected failure")
	}
	want := []string{
		"Sheet prompt is missing columns: template_name, prompt_template, description",
		"Sheet concat_prompt is missing columns: concat_id, concat_template, post_processing_template, condition_id, description",
		"Sheet concat_condition is missing columns: template_name, rel, value",
	}
	if !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("messages=%#v", res.Message)
	}
}

func TestValidateSheetsExampleWorkbookPasses(t *testing.T) {
	res := ValidateSheets(sheets.ExampleSet())
	if !res.Status || len(res.Message) != 0 {
		t.Fatalf("example workbook should validate: %#v", res)
	}
}

func TestValidateColumnsPartial(t *testing.T) {
	set := sheets.SheetSet{"prompt": {Headers: hdr("description", "template_name")}}
	res := ValidateColumns(set, Schema{{Name: "prompt", Columns: []string{"template_name", "prompt_template", "description"}}})
	if res.Status || len(res.Message) != 1 || res.Message[0] != "Sheet prompt is missing columns: prompt_template" {
		t.Fatalf("got %#v", res)
	}
}

func TestValidatePromptVariablesAllRowsSatisfied(t *testing.T) {
	set := greetingSet(strRow("comb_id", "1", "name", "Ada"), strRow("comb_id", "2", "name", "Bob"))
	res := ValidatePromptVariables(set)
	if !res.Status || len(res.Message) != 0 {
		t.Fatalf("got %#v", res)
	}
}

func TestValidatePromptVariablesMissingColumn(t *testing.T) {
	set := greetingSet(strRow("comb_id", "1", "name", "Ada"), strRow("comb_id", "2"))
	res := ValidatePromptVariables(set)
	want := []string{"Sheet greeting, comb_id: 2 is missing columns 'name'"}
	if res.Status || !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("got %#v", res)
	}
}

func TestValidatePromptVariablesUndefinedCombID(t *testing.T) {
	set := greetingSet(sheets.Row{})
	res := ValidatePromptVariables(set)
	want := []string{"Sheet greeting, comb_id: undefined is missing columns 'name'"}
	if !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("got %#v", res.Message)
	}
}

func TestValidatePromptVariablesMissingSheet(t *testing.T) {
	set := greetingSet()
	delete(set, "greeting")
	res := ValidatePromptVariables(set)
	if res.Status || len(res.Message) != 1 || res.Message[0] != "Sheet greeting does not exist" {
		t.Fatalf("got %#v", res)
	}
}

func TestValidateConcatPrompts(t *testing.T) {
	set := sheets.SheetSet{
		"concat_prompt": {Rows: []sheets.Row{
			{"concat_id": sheets.Number(1), "concat_template": sheets.String("{opening} {closing} {middle}")},
			{"concat_id": sheets.Number(2), "concat_template": sheets.String("{opening}")},
		}},
		"opening": {},
	}
	res := ValidateConcatPrompts(set)
	want := []string{"Concat Prompt 1 is missing sheets 'closing, middle'"}
	if res.Status || !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("got %#v", res)
	}
}

func conditionSet(rows ...sheets.Row) sheets.SheetSet {
	return sheets.SheetSet{
		"concat_condition": {Headers: hdr("condition_id", "template_name", "rel", "value"), Rows: rows},
		"greeting": {Headers: hdr("comb_id"), Rows: []sheets.Row{
			strRow("comb_id", "1"), strRow("comb_id", "2"), strRow("comb_id", "3"), strRow("comb_id", "4"),
		}},
	}
}

func TestValidateConcatConditionsRangeExpansion(t *testing.T) {
	set := conditionSet(sheets.Row{
		"condition_id":  sheets.Number(1),
		"template_name": sheets.String("greeting"),
		"rel":           sheets.String("in"),
		"value":         sheets.String("1-3,5"),
	})
	res := ValidateConcatConditions(set)
	want := []string{"Sheet concat_condition, row 1, has invalid comb_id '5' in value for template_name 'greeting'"}
	if res.Status || !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("got %#v", res)
	}
}

func TestValidateConcatConditionsRowChecks(t *testing.T) {
	set := conditionSet(
		strRow("template_name", "greeting", "rel", "all"),
		strRow("template_name", "nope", "rel", "between"),
		strRow("template_name", "greeting", "rel", "not in", "value", "[2, 9]"),
		sheets.Row{"template_name": sheets.String("greeting"), "rel": sheets.String("in"), "value": sheets.List("1", "4")},
		sheets.Row{"template_name": sheets.String("greeting"), "rel": sheets.String("in"), "value": sheets.Null()},
		strRow("template_name", "greeting", "rel", "=", "value", "[3]"),
		strRow("template_name", "greeting", "rel", "=", "value", "7"),
	)
	res := ValidateConcatConditions(set)
	want := []string{
		"Sheet concat_condition, row 2, has invalid condition 'between'",
		"Sheet concat_condition, row 2, has invalid template_name 'nope'",
		"Sheet concat_condition, row 3, has invalid comb_id '9' in value for template_name 'greeting'",
		"Sheet concat_condition, row 7, has invalid comb_id '7' in value for template_name 'greeting'",
	}
	if res.Status || !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("got %#v", res.Message)
	}
}

func TestValidateConcatConditionsEqualityIsNotCoerced(t *testing.T) {
	set := conditionSet(strRow("template_name", "numeric", "rel", "=", "value", "1"))
	set["numeric"] = &sheets.Sheet{Rows: []sheets.Row{{"comb_id": sheets.Number(1)}}}
	res := ValidateConcatConditions(set)
	if res.Status || len(res.Message) != 1 {
		t.Fatalf("numeric comb_id should not match textual value: %#v", res)
	}
}

func TestValidateConcatConditionsUnknownSheetNeverPanics(t *testing.T) {
	set := conditionSet(
		strRow("template_name", "ghost", "rel", "in", "value", "1"),
		strRow("rel", "="),
	)
	res := ValidateConcatConditions(set)
	want := []string{
		"Sheet concat_condition, row 1, has invalid template_name 'ghost'",
		"Sheet concat_condition, row 1, has invalid comb_id '1' in value for template_name 'ghost'",
		"Sheet concat_condition, row 2, has invalid template_name 'undefined'",
		"Sheet concat_condition, row 2, has invalid comb_id 'undefined' in value for template_name 'undefined'",
	}
	if !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("got %#v", res.Message)
	}
}

func TestExpandMember(t *testing.T) {
	cases := []struct {
		in    string
		want  []string
		valid bool
	}{
		{"7", []string{"7"}, true},
		{"1-3", []string{"1", "2", "3"}, true},
		{"3-1", nil, true},
		{"a-b", nil, true},
		{"1-20000", nil, false},
	}
	for _, tc := range cases {
		got, ok := expandMember(tc.in)
		if ok != tc.valid || !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("expandMember(%q)=%v,%v", tc.in, got, ok)
		}
	}
}

func TestValidateSheetsSkipsEmptyGoverningSheets(t *testing.T) {
	set := sheets.ExampleSet()
	set["concat_condition"].Rows = nil
	set["opening"] = &sheets.Sheet{Rows: []sheets.Row{strRow("comb_id", "1")}}
	res := ValidateSheets(set)
	want := []string{"Sheet opening, comb_id: 1 is missing columns 'customer, tone, constraint'"}
	if res.Status || !reflect.DeepEqual(res.Message, want) {
		t.Fatalf("got %#v", res)
	}
}
