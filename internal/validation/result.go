// Package validation checks an uploaded sheet set against the workbook
// schema and the cross-sheet references between prompt, concat_prompt and
// concat_condition. Nothing here returns an error: every problem becomes a
// message and a false status.
package validation

type Result struct {
	Status  bool     `json:"status"`
	Message []string `json:"message"`
}

func newResult() Result { return Result{Status: true, Message: []string{}} }

func (r *Result) fail(msg string) {
	r.Status = false
	r.Message = append(r.Message, msg)
}

func (r *Result) merge(o Result) {
	r.Status = r.Status && o.Status
	r.Message = append(r.Message, o.Message...)
}
