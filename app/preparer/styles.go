package preparer

import "sync/atomic"

// FontStyle is the family/size/color triple applied to an HTML body.
type FontStyle struct {
	Family string
	Size   string
	Color  string
}

// VerdanaStyle is the fixed theme used by FormatVerdana.
var VerdanaStyle = FontStyle{Family: "Verdana", Size: "9pt", Color: "#000066"}

// MixedThemeFonts is the default rotation for FormatMixed. Rotating the
// rendered theme keeps a long run from emitting visually identical messages
// back to back.
var MixedThemeFonts = []FontStyle{
	{"Aptos", "12pt", "#000000"},
	{"Cambria", "11pt", "#000066"},
	{"Segoe UI", "11pt", "#002060"},
	{"Arial Nova", "12pt", "#000000"},
	{"Aptos Display", "11pt", "#000066"},
	{"Calibri", "11pt", "#002060"},
	{"Grandview", "12pt", "#000000"},
	{"Nirmala UI", "11pt", "#000066"},
	{"Georgia", "11pt", "#002060"},
	{"Open Sans", "12pt", "#000000"},
	{"Roboto", "11pt", "#000066"},
	{"Roboto Condensed", "12pt", "#002060"},
	{"Rockwell", "11pt", "#000000"},
	{"Sitka Display", "12pt", "#000066"},
	{"Times New Roman", "11pt", "#002060"},
	{"Trebuchet MS", "11pt", "#000000"},
	{"Univers", "10pt", "#000066"},
	{"Verdana", "9pt", "#002060"},
	{"Verdana Pro Cond", "9pt", "#000000"},
}

// StyleRotation hands out font styles round-robin. Safe for concurrent use:
// the counter is atomic, so concurrent tasks each advance it exactly once
// per styled send.
type StyleRotation struct {
	styles  []FontStyle
	counter atomic.Uint64
}

// NewStyleRotation builds a rotation over the given styles, falling back to
// the mixed-theme defaults when none are supplied.
func NewStyleRotation(styles []FontStyle) *StyleRotation {
	if len(styles) == 0 {
		styles = MixedThemeFonts
	}
	return &StyleRotation{styles: styles}
}

// Next returns the next style in rotation and advances the counter.
func (r *StyleRotation) Next() FontStyle {
	n := r.counter.Add(1) - 1
	return r.styles[n%uint64(len(r.styles))]
}
