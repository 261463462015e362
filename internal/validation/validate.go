package validation

import "github.com/yungbote/promptsheet-backend/internal/sheets"

// ValidateSheets runs the column check against WorkbookSchema, then the
// prompt, concat prompt and concat condition checks for whichever of those
// sheets has rows. Messages keep that order.
func ValidateSheets(set sheets.SheetSet) Result {
	res := ValidateColumns(set, WorkbookSchema)
	if set.Get(SheetPrompt).Len() > 0 {
		res.merge(ValidatePromptVariables(set))
	}
	if set.Get(SheetConcatPrompt).Len() > 0 {
		res.merge(ValidateConcatPrompts(set))
	}
	if set.Get(SheetConcatCondition).Len() > 0 {
		res.merge(ValidateConcatConditions(set))
	}
	return res
}
