// Package messages provides the PostgreSQL-backed repository for message rows.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a message with sent_at set by the database clock and a
// null read_at. The id is generated by the store.
func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {

	query :=
		`INSERT INTO messages (from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, current_timestamp)
		 RETURNING id, sent_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.FromUsername, msg.ToUsername, msg.Body).Scan(&msg.ID, &msg.SentAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`SELECT id, from_username, to_username, body, sent_at, read_at FROM messages
		 WHERE id = $1
		 `

	return scanMessage(r.db.QueryRowContext(ctx, query, id))
}

// MarkRead stamps read_at with the database clock. The coalesce keeps the
// first receipt: re-marking an already-read message returns the original
// timestamp unchanged.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	query :=
		`UPDATE messages SET read_at = coalesce(read_at, current_timestamp)
		 WHERE id = $1
		 RETURNING id, read_at
		 `

	receipt := &models.ReadReceipt{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&receipt.ID, &receipt.ReadAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return receipt, nil
}

// ToUser returns all messages addressed to username, in store order.
func (r *PostgresRepository) ToUser(ctx context.Context, username string) ([]models.Message, error) {
	query :=
		`SELECT id, from_username, to_username, body, sent_at, read_at FROM messages
		 WHERE to_username = $1
		 `

	return r.queryMessages(ctx, query, username)
}

// FromUser returns all messages sent by username, in store order.
func (r *PostgresRepository) FromUser(ctx context.Context, username string) ([]models.Message, error) {
	query :=
		`SELECT id, from_username, to_username, body, sent_at, read_at FROM messages
		 WHERE from_username = $1
		 `

	return r.queryMessages(ctx, query, username)
}

func (r *PostgresRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var m models.Message
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &readAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if readAt.Valid {
			m.ReadAt = &readAt.Time
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	m := &models.Message{}
	var readAt sql.NullTime
	err := row.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &readAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if readAt.Valid {
		m.ReadAt = &readAt.Time
	}

	return m, nil
}
