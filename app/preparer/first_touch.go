package preparer

import (
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
)

// FirstTouchBuilder renders the initial outreach message.
type FirstTouchBuilder struct {
	format Format
}

// NewFirstTouchBuilder constructs a first-touch builder for the format.
func NewFirstTouchBuilder(format Format) *FirstTouchBuilder {
	return &FirstTouchBuilder{format: format}
}

// Build renders subject, plain body, and (for HTML formats) a themed HTML
// body for one row.
func (b *FirstTouchBuilder) Build(row entity.Row, style FontStyle) (Built, error) {
	txt := renderRow(row)

	plain := strings.TrimSpace(fmt.Sprintf(`%s

%s
%s
%s

%s
`, txt.plainPitch, txt.signOff, txt.senderName, txt.senderTitle, txt.endLine))

	built := Built{Subject: txt.subject, Plain: plain}
	if b.format == FormatPlain {
		return built, nil
	}

	st := styleFor(b.format, style)
	built.HTML = strings.TrimSpace(fmt.Sprintf(`<html>
  <body style="font-family: %s, sans-serif; font-size: %s; color: %s; margin: 0; padding: 0;">
    <div>%s</div>
    <br>
    <div>
      %s<br>
      <b>%s</b><br>
      %s
    </div>
    <br>
    <div style="font-size: 7pt; color: %s;">
      %s
    </div>
  </body>
</html>`, st.Family, st.Size, st.Color, txt.htmlPitch, txt.signOff, txt.senderName, txt.senderTitle, st.Color, txt.endLine))

	return built, nil
}
