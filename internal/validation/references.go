package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yungbote/promptsheet-backend/internal/prompttpl"
	"github.com/yungbote/promptsheet-backend/internal/sheets"
)

const (
	RelAll   = "all"
	RelIn    = "in"
	RelNotIn = "not in"
	RelEq    = "="

	combIDColumn = "comb_id"

	// A single range element may not expand past this many members.
	maxRangeMembers = 10000
)

var Relations = []string{RelAll, RelIn, RelNotIn, RelEq}

func validRelation(rel string) bool {
	for _, r := range Relations {
		if r == rel {
			return true
		}
	}
	return false
}

// cellText renders a cell for messages; an absent key renders as "undefined".
func cellText(row sheets.Row, key string) string {
	if v, ok := row.Text(key); ok {
		return v
	}
	return "undefined"
}

// ValidatePromptVariables checks that every row of each prompt's argument
// sheet carries a column for every placeholder of its prompt_template.
func ValidatePromptVariables(set sheets.SheetSet) Result {
	res := newResult()
	prompt := set.Get(SheetPrompt)
	if prompt == nil {
		return res
	}
	for _, p := range prompt.Rows {
		name := cellText(p, "template_name")
		tpl, _ := p.Text("prompt_template")
		vars := prompttpl.Placeholders(tpl)

		argSheet := set.Get(name)
		if argSheet == nil {
			res.fail(fmt.Sprintf("Sheet %s does not exist", name))
			continue
		}
		for _, row := range argSheet.Rows {
			var missing []string
			for _, v := range vars {
				if _, ok := row[v]; !ok {
					missing = append(missing, v)
				}
			}
			if len(missing) > 0 {
				res.fail(fmt.Sprintf("Sheet %s, comb_id: %s is missing columns '%s'",
					name, cellText(row, combIDColumn), strings.Join(missing, ", ")))
			}
		}
	}
	return res
}

// ValidateConcatPrompts checks that every placeholder of a concat_template
// names a sheet of the set.
func ValidateConcatPrompts(set sheets.SheetSet) Result {
	res := newResult()
	concat := set.Get(SheetConcatPrompt)
	if concat == nil {
		return res
	}
	for _, row := range concat.Rows {
		tpl, _ := row.Text("concat_template")
		var missing []string
		for _, name := range prompttpl.Placeholders(tpl) {
			if !set.Has(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			res.fail(fmt.Sprintf("Concat Prompt %s is missing sheets '%s'",
				cellText(row, "concat_id"), strings.Join(missing, ", ")))
		}
	}
	return res
}

// ValidateConcatConditions checks each condition row's relation, its target
// sheet and, for in/not in/=, that every referenced comb_id exists there.
func ValidateConcatConditions(set sheets.SheetSet) Result {
	res := newResult()
	cond := set.Get(SheetConcatCondition)
	if cond == nil {
		return res
	}
	for i, row := range cond.Rows {
		res.merge(validateConditionRow(set, i+1, row))
	}
	return res
}

func validateConditionRow(set sheets.SheetSet, n int, row sheets.Row) Result {
	res := newResult()
	prefix := fmt.Sprintf("Sheet concat_condition, row %d,", n)
	rel, _ := row.Text("rel")
	target := cellText(row, "template_name")

	if !validRelation(rel) {
		res.fail(fmt.Sprintf("%s has invalid condition '%s'", prefix, cellText(row, "rel")))
	}
	if !set.Has(target) {
		res.fail(fmt.Sprintf("%s has invalid template_name '%s'", prefix, target))
	}

	invalid := func(val string) {
		res.fail(fmt.Sprintf("%s has invalid comb_id '%s' in value for template_name '%s'", prefix, val, target))
	}

	switch rel {
	case RelIn, RelNotIn:
		raw, ok := conditionValue(row)
		if !ok {
			break
		}
		ids := combIDTexts(set.Get(target))
		for _, el := range splitMembers(raw) {
			members, ok := expandMember(el)
			if !ok {
				invalid(el)
				continue
			}
			for _, m := range members {
				if !ids[m] {
					invalid(m)
				}
			}
		}
	case RelEq:
		raw, ok := conditionValue(row)
		if !ok {
			raw = "undefined"
		}
		want := stripBrackets(raw)
		if !hasStringCombID(set.Get(target), want) {
			invalid(raw)
		}
	}
	return res
}

// conditionValue returns the value cell as text. Null and absent cells have
// no members.
func conditionValue(row sheets.Row) (string, bool) {
	v, ok := row["value"]
	if !ok || v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func stripBrackets(s string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(s)
}

func splitMembers(raw string) []string {
	parts := strings.Split(stripBrackets(raw), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// expandMember turns "start-end" into every number from start to end
// inclusive. Elements without a dash are returned as-is. Non-numeric bounds
// expand to nothing; a range too large to enumerate is reported as invalid.
func expandMember(el string) ([]string, bool) {
	if !strings.Contains(el, "-") {
		return []string{el}, true
	}
	parts := strings.Split(el, "-")
	start, okStart := parseBound(parts[0])
	end, okEnd := parseBound(parts[1])
	if !okStart || !okEnd || end < start {
		return nil, true
	}
	if end-start >= maxRangeMembers {
		return nil, false
	}
	out := make([]string, 0, int(end-start)+1)
	for i := start; i <= end; i++ {
		out = append(out, strconv.FormatFloat(i, 'f', -1, 64))
	}
	return out, true
}

func parseBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func combIDTexts(sh *sheets.Sheet) map[string]bool {
	out := map[string]bool{}
	if sh == nil {
		return out
	}
	for _, row := range sh.Rows {
		out[cellText(row, combIDColumn)] = true
	}
	return out
}

// hasStringCombID compares without conversion: a numeric comb_id never
// equals the textual condition value.
func hasStringCombID(sh *sheets.Sheet, want string) bool {
	if sh == nil {
		return false
	}
	for _, row := range sh.Rows {
		if v, ok := row[combIDColumn]; ok && v.Kind() == sheets.KindString && v.Str() == want {
			return true
		}
	}
	return false
}
