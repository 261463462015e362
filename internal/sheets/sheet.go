package sheets

// Row maps header text to a cell. Empty cells are absent, not null.
type Row map[string]Value

// Text returns the rendered cell and whether the key is present.
func (r Row) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

type Sheet struct {
	// Headers are strings or numbers.
	Headers []Value `json:"headers"`
	Rows    []Row   `json:"data"`
}

// HeaderNames returns the headers rendered as text.
func (s *Sheet) HeaderNames() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Headers))
	for _, h := range s.Headers {
		out = append(out, h.String())
	}
	return out
}

func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// SheetSet is a whole workbook keyed by exact sheet name.
type SheetSet map[string]*Sheet

func (ss SheetSet) Get(name string) *Sheet {
	if ss == nil {
		return nil
	}
	return ss[name]
}

func (ss SheetSet) Has(name string) bool {
	_, ok := ss[name]
	return ok
}

// Args converts every row of the named sheet into template arguments.
func (ss SheetSet) Args(name string) []map[string]string {
	sh := ss.Get(name)
	if sh == nil {
		return nil
	}
	out := make([]map[string]string, 0, len(sh.Rows))
	for _, row := range sh.Rows {
		args := make(map[string]string, len(row))
		for k, v := range row {
			if v.IsNull() {
				continue
			}
			args[k] = v.String()
		}
		out = append(out, args)
	}
	return out
}
