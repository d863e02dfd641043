package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// ContactNotification builds the email sent to the site owner when a new
// contact message arrives.
func ContactNotification(to, name, email, phone, message string) Email {
	var text strings.Builder
	fmt.Fprintf(&text, "New contact message from %s <%s>\r\n", name, email)
	if phone != "" {
		fmt.Fprintf(&text, "Phone: %s\r\n", phone)
	}
	text.WriteString("\r\n")
	text.WriteString(message)

	var html strings.Builder
	fmt.Fprintf(&html, "<p><strong>New contact message</strong></p>")
	fmt.Fprintf(&html, "<p>From: %s &lt;%s&gt;</p>",
		template.HTMLEscapeString(name), template.HTMLEscapeString(email))
	if phone != "" {
		fmt.Fprintf(&html, "<p>Phone: %s</p>", template.HTMLEscapeString(phone))
	}
	fmt.Fprintf(&html, "<p>%s</p>", template.HTMLEscapeString(message))

	return Email{
		To:       to,
		Subject:  fmt.Sprintf("New contact message from %s", name),
		TextBody: text.String(),
		HTMLBody: html.String(),
	}
}
