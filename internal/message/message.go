// internal/message/message.go
//
// Folio – Outbound message queue.
//
// Context
//   The delivery subsystem enqueues an email to the site owner for every
//   accepted contact message.  Until a real mail worker exists, the queue
//   writes a structured log entry per job and returns nil so callers never
//   block on SMTP.
//
//   Replace EnqueueEmail's body with a publisher for your queue of choice
//   when ready; callers only depend on this tiny API.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Email represents a basic outbound email job.
type Email struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
}

// Queue accepts outbound jobs.  Safe for concurrent use.
type Queue struct {
	log *zap.SugaredLogger
}

// NewQueue returns a Queue that logs jobs through log.  A nil log falls back
// to the global zap logger.
func NewQueue(log *zap.SugaredLogger) *Queue {
	if log == nil {
		log = zap.S()
	}
	return &Queue{log: log}
}

// EnqueueEmail records the email job.  It rejects jobs without recipients.
func (q *Queue) EnqueueEmail(ctx context.Context, msg Email) error {
	if len(msg.To) == 0 {
		return errors.New("message: email has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	q.log.Infow("queue email",
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"len_text", len(msg.Text),
	)
	return nil
}
