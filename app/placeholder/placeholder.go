// Package placeholder implements the text personalization used in subjects
// and pitches: column placeholders in three bracket styles and a constrained
// bold markup that renders to plain text and HTML in lockstep.
package placeholder

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

// placeholderForm matches one placeholder in any of the three bracket
// styles. {{C}} must precede {C} in the alternation so a double-braced name
// collapses to the bare value instead of leaving a brace pair behind.
var placeholderForm = regexp.MustCompile(`\{\{([^{}]+)\}\}|\{([^{}]+)\}|\[([^\[\]]+)\]`)

// Substitute replaces every recognized placeholder in text with the trimmed
// value of the matching row column. A column C is recognized as [C], {C} or
// {{C}}, with the column name matched case-insensitively. Unrecognized
// placeholders are left verbatim. Substitution is a single pass over the
// template, so a value that itself contains placeholder text is inserted
// literally, never re-expanded.
func Substitute(text string, row entity.Row) string {
	if text == "" {
		return text
	}

	fields := row.Fields()
	columns := make([]string, 0, len(fields))
	for column := range fields {
		if column != "" {
			columns = append(columns, column)
		}
	}
	// Sorted so columns whose names differ only in case resolve the same
	// way on every call.
	sort.Strings(columns)

	values := make(map[string]string, len(columns))
	for _, column := range columns {
		values[strings.ToLower(column)] = strings.TrimSpace(fields[column])
	}

	return placeholderForm.ReplaceAllStringFunc(text, func(m string) string {
		var name string
		switch {
		case strings.HasPrefix(m, "{{"):
			name = m[2 : len(m)-2]
		default:
			name = m[1 : len(m)-1]
		}
		if value, ok := values[strings.ToLower(name)]; ok {
			return value
		}
		return m
	})
}

var boldSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)

// ApplyBold converts **span** markup into a plain-text form (markers
// stripped) and an HTML form (span wrapped in <b>, newlines converted to
// <br>). Both forms come from the same pass over the input so they cannot
// drift apart.
func ApplyBold(text string) (plain, html string) {
	plain = boldSpan.ReplaceAllString(text, "$1")
	html = boldSpan.ReplaceAllString(strings.ReplaceAll(text, "\n", "<br>"), "<b>$1</b>")
	return plain, html
}

// CleanText normalizes row text for rendering: literal \n escape sequences
// become newlines and typographic quotes become their ASCII equivalents.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	r := strings.NewReplacer(
		`\n`, "\n",
		"‘", "'",
		"’", "'",
		"“", `"`,
		"”", `"`,
	)
	return r.Replace(text)
}
