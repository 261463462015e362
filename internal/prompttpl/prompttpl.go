// Package prompttpl implements the {name} placeholder language used by saved
// prompts, the prompt sheet and batch expansion.
package prompttpl

import "regexp"

var placeholderRE = regexp.MustCompile(`\{(\w+)\}`)

// Placeholders returns each distinct placeholder name once, in order of first
// appearance. Braces around anything other than word characters are ignored.
func Placeholders(template string) []string {
	matches := placeholderRE.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return []string{}
	}
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Fill substitutes every {name} that has an entry in args. Names without an
// entry are left as the literal placeholder so a partially filled template can
// still be inspected. An empty string is a valid substitution.
func Fill(template string, args map[string]string) string {
	if len(args) == 0 {
		return template
	}
	return placeholderRE.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := args[name]; ok {
			return v
		}
		return m
	})
}

// Satisfies reports whether args has an entry for every placeholder in
// template. Extra keys and empty values are not checked.
func Satisfies(template string, args map[string]string) bool {
	return len(Missing(template, args)) == 0
}

// Missing lists placeholders of template that have no entry in args.
func Missing(template string, args map[string]string) []string {
	var out []string
	for _, name := range Placeholders(template) {
		if _, ok := args[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
