package delivery

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/folio/internal/contact"
)

// Schema creates the archive table.  Run by `folio archive migrate`.
const Schema = `CREATE TABLE IF NOT EXISTS contact_message (
	id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	name         VARCHAR(100)  NOT NULL,
	email        VARCHAR(255)  NOT NULL,
	message      VARCHAR(1000) NOT NULL,
	submitted_at DATETIME(6)   NOT NULL,
	KEY idx_submitted_at (submitted_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const insertArchived = `INSERT INTO contact_message (name, email, message, submitted_at)
VALUES (:name, :email, :message, :submitted_at)`

const selectRecent = `SELECT id, name, email, message, submitted_at
FROM contact_message ORDER BY submitted_at DESC LIMIT ?`

// Archived is one stored contact message.
type Archived struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Message     string    `db:"message"`
	SubmittedAt time.Time `db:"submitted_at"`
}

// ArchiveAction stores each message in MySQL.
type ArchiveAction struct {
	DB  *sqlx.DB
	Now func() time.Time // nil → time.Now
}

func (ArchiveAction) Name() string { return "archive" }

func (a ArchiveAction) Run(ctx context.Context, msg contact.Message) error {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	_, err := a.DB.NamedExecContext(ctx, insertArchived, Archived{
		Name:        strings.TrimSpace(msg.Name),
		Email:       strings.TrimSpace(msg.Email),
		Message:     strings.TrimSpace(msg.Message),
		SubmittedAt: now().UTC(),
	})
	return err
}

// Migrate creates the archive table when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}

// Recent returns up to limit archived messages, newest first.
func Recent(ctx context.Context, db *sqlx.DB, limit int) ([]Archived, error) {
	var out []Archived
	if err := db.SelectContext(ctx, &out, selectRecent, limit); err != nil {
		return nil, err
	}
	return out, nil
}
