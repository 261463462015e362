package sheets

// ExampleOrder is the sheet order of the downloadable template workbook.
var ExampleOrder = []string{"prompt", "concat_prompt", "concat_condition", "opening", "closing"}

func headers(names ...string) []Value {
	out := make([]Value, len(names))
	for i, n := range names {
		out[i] = String(n)
	}
	return out
}

// ExampleSet returns a small workbook that passes validation: two prompt
// templates, their argument sheets and one concat prompt per condition group.
func ExampleSet() SheetSet {
	argHeaders := headers("comb_id", "customer", "tone", "constraint")
	argRow := func(id, customer, tone string) Row {
		return Row{
			"comb_id":    String(id),
			"customer":   String(customer),
			"tone":       String(tone),
			"constraint": String("under 80 words"),
		}
	}
	return SheetSet{
		"prompt": {
			Headers: headers("template_name", "prompt_template", "description"),
			Rows: []Row{
				{
					"template_name":   String("opening"),
					"prompt_template": String("You are a financial advisor. Write an opening line for {customer} in a {tone} tone, {constraint}."),
					"description":     String("Opening line"),
				},
				{
					"template_name":   String("closing"),
					"prompt_template": String("You are a financial advisor. Write a closing line for {customer} in a {tone} tone, {constraint}."),
					"description":     String("Closing line"),
				},
			},
		},
		"concat_prompt": {
			Headers: headers("concat_id", "concat_template", "post_processing_template", "condition_id", "description"),
			Rows: []Row{
				{
					"concat_id":       String("1"),
					"concat_template": String("{opening} {closing}"),
					"condition_id":    String("1"),
					"description":     String("Everyday customers"),
				},
				{
					"concat_id":                String("2"),
					"concat_template":          String("{opening} {closing}"),
					"post_processing_template": String("Rewrite the following in a very formal register: {concat_template}"),
					"condition_id":             String("2"),
					"description":              String("Private banking customers"),
				},
			},
		},
		"concat_condition": {
			Headers: headers("condition_id", "template_name", "rel", "value"),
			Rows: []Row{
				{"condition_id": String("1"), "template_name": String("opening"), "rel": String("all")},
				{"condition_id": String("1"), "template_name": String("closing"), "rel": String("in"), "value": String("1-4")},
				{"condition_id": String("2"), "template_name": String("opening"), "rel": String("all")},
				{"condition_id": String("2"), "template_name": String("closing"), "rel": String("="), "value": String("5")},
			},
		},
		"opening": {
			Headers: argHeaders,
			Rows: []Row{
				argRow("1", "office workers aged 40-50", "relaxed"),
				argRow("2", "office workers aged 30-40", "formal"),
				argRow("3", "retirees aged 50-60", "relaxed"),
			},
		},
		"closing": {
			Headers: argHeaders,
			Rows: []Row{
				argRow("1", "office workers aged 40-50", "relaxed"),
				argRow("2", "office workers aged 30-40", "formal"),
				argRow("3", "retirees aged 50-60", "relaxed"),
				argRow("4", "retirees aged 50-60", "formal"),
				argRow("5", "retirees aged 80", "relaxed"),
			},
		},
	}
}
