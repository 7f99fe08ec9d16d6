package preparer

import (
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-campaigns/app/entity"
	"github.com/vibast-solutions/ms-go-campaigns/app/placeholder"
)

// FollowUpBuilder renders a follow-up that quotes the original message
// below a short nudge, the way a reply thread would.
type FollowUpBuilder struct {
	format Format
}

// NewFollowUpBuilder constructs a follow-up builder for the format.
func NewFollowUpBuilder(format Format) *FollowUpBuilder {
	return &FollowUpBuilder{format: format}
}

// Build renders the follow-up subject ("RE: ..."), plain body, and themed
// HTML body for one row.
func (b *FollowUpBuilder) Build(row entity.Row, style FontStyle) (Built, error) {
	txt := renderRow(row)

	recipientName := placeholder.CleanText(row.RecipientName)
	sentDate := placeholder.CleanText(row.DateSent)
	senderFirst := txt.senderName
	if i := strings.IndexByte(senderFirst, ' '); i > 0 {
		senderFirst = senderFirst[:i]
	}

	nudge := fmt.Sprintf(`Hi %s,

Just a gentle follow-up on my last email. Please let me know if there's anything more I can provide.

Happy to share counts & Cost if useful.

Regards,
%s`, recipientName, senderFirst)

	signature := fmt.Sprintf("%s\n%s\n%s\n\n%s", txt.signOff, txt.senderName, txt.senderTitle, txt.endLine)

	plain := fmt.Sprintf(`%s

_______________________________________________________________________________________________________
From: %s <%s>
Sent: %s
To: %s <%s>
Subject: %s

%s

%s`, nudge, txt.senderName, row.SenderEmail, sentDate, recipientName, row.RecipientEmail, txt.subject, txt.plainPitch, signature)

	built := Built{Subject: "RE: " + txt.subject, Plain: plain}
	if b.format == FormatPlain {
		return built, nil
	}

	st := styleFor(b.format, style)

	var htmlNudge string
	if b.format == FormatVerdana {
		htmlNudge = fmt.Sprintf(`<div style="font-family: %s, sans-serif; font-size: %s; color: %s;">
      <p>Hi %s,</p>
      <p>I wanted to follow up to see if you'd like more details on the verified data we provide. It could help you reach the right decision-makers efficiently.</p>
      <p>Happy to share <b>counts &amp; Cost</b> if useful.</p>
      <p>Best,<br><b>%s</b></p>
    </div>`, st.Family, st.Size, st.Color, recipientName, senderFirst)
	} else {
		htmlNudge = fmt.Sprintf(`<div style="font-family: %s, sans-serif; font-size: %s; color: %s;">
      <p>Dear <b>%s</b>,<br>
      <br>
      I am Curious to know if you had chance to review my previous email?<br>
      <br>
      Can I share you the <b>counts</b> and <b>cost details</b> for your review to make a decision?<br>
      <br>
      Looking forward to your response.<br>
      <br>
      Regards,<br>
      <b>%s</b></p>
    </div>`, st.Family, st.Size, st.Color, recipientName, senderFirst)
	}

	htmlSignature := fmt.Sprintf(`<div style="font-family: %s, sans-serif; font-size: %s; color: %s;">
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
      </div>`, st.Family, st.Size, st.Color, txt.htmlPitch, txt.signOff, txt.senderName, txt.senderTitle, st.Color, txt.endLine)

	built.HTML = strings.TrimSpace(fmt.Sprintf(`<html>
  <body style="margin: 0; padding: 0;">
    %s

    <div style="border: none; border-top: solid #E1E1E1 1.0pt; margin: 15px 0; padding-top: 10px;">
      <div style="font-family: Calibri, sans-serif; font-size: 11pt; color: black; line-height: 1.2;">
        <b>From:</b> %s &lt;%s&gt;<br>
        <b>Sent:</b> %s<br>
        <b>To:</b> %s &lt;%s&gt;<br>
        <b>Subject:</b> %s
      </div>
      <br>
      %s
    </div>
  </body>
</html>`, htmlNudge, txt.senderName, row.SenderEmail, sentDate, recipientName, row.RecipientEmail, txt.subject, htmlSignature))

	return built, nil
}
