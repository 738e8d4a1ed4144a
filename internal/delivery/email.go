package delivery

import (
	"context"
	"strings"

	"github.com/yanizio/folio/internal/contact"
	"github.com/yanizio/folio/internal/message"
)

// EmailAction queues a notification email to the site owner.  The visitor
// address becomes Reply-To so the owner can answer directly.
type EmailAction struct {
	Queue *message.Queue
	Owner string
}

func (EmailAction) Name() string { return "email" }

func (a EmailAction) Run(ctx context.Context, msg contact.Message) error {
	return a.Queue.EnqueueEmail(ctx, message.Email{
		To:      []string{a.Owner},
		ReplyTo: strings.TrimSpace(msg.Email),
		Subject: contact.SubjectPrefix + strings.TrimSpace(msg.Name),
		Text:    emailBody(msg),
	})
}

func emailBody(msg contact.Message) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(msg.Message))
	b.WriteString("\n\nFrom: ")
	b.WriteString(strings.TrimSpace(msg.Name))
	b.WriteString(" <")
	b.WriteString(strings.TrimSpace(msg.Email))
	b.WriteString(">\n")
	return b.String()
}
