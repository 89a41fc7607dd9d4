package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/pkg/log"
)

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateChat inserts the chat, or refreshes its title when it already exists.
func (r *ChatRepo) CreateChat(ctx context.Context, chatID, title string) error {
	now := time.Now().UTC()
	query := `INSERT INTO chats (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, chatID, title, now, now); err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

// AddTurn appends a turn, creating the chat row if the caller skipped
// CreateChat, and bumps the chat's updated_at in the same transaction.
func (r *ChatRepo) AddTurn(ctx context.Context, chatID, role, content string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var exists string
	err = tx.QueryRowContext(ctx, `SELECT id FROM chats WHERE id = ?`, chatID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO chats (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			chatID, "New Conversation", now, now)
	}
	if err != nil {
		return fmt.Errorf("failed to ensure chat exists: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (chat_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		chatID, role, content, now)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE chats SET updated_at = ? WHERE id = ?`, now, chatID)
	if err != nil {
		return fmt.Errorf("failed to bump chat timestamp: %w", err)
	}

	return tx.Commit()
}

// RecentTurns returns the last 'limit' turns in chronological order.
func (r *ChatRepo) RecentTurns(ctx context.Context, chatID string, limit int) ([]core.Turn, error) {
	query := `SELECT id, role, content, created_at FROM turns
	          WHERE chat_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		t := core.Turn{ChatID: chatID}
		if err := rows.Scan(&t.ID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned newest first; callers want oldest first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Str("chat", chatID).Msg("loaded recent turns")
	return turns, nil
}

// ListChats returns all chats newest-activity first, each with its latest turn.
func (r *ChatRepo) ListChats(ctx context.Context) ([]core.Chat, error) {
	query := `
	SELECT c.id, c.title, c.created_at, c.updated_at, t.content, t.created_at
	FROM chats c
	LEFT JOIN (
	    SELECT chat_id, content, created_at,
	           ROW_NUMBER() OVER (PARTITION BY chat_id ORDER BY id DESC) AS rn
	    FROM turns
	) t ON c.id = t.chat_id AND t.rn = 1
	ORDER BY c.updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []core.Chat
	for rows.Next() {
		var c core.Chat
		var lastMsg sql.NullString
		var lastAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt, &lastMsg, &lastAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		c.LastMessage = lastMsg.String
		if lastAt.Valid {
			c.LastAt = lastAt.Time
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (r *ChatRepo) ChatInfo(ctx context.Context, chatID string) (core.Chat, error) {
	var c core.Chat
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM chats WHERE id = ?`, chatID).
		Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Chat{}, core.ErrNotFound
	}
	if err != nil {
		return core.Chat{}, fmt.Errorf("failed to query chat: %w", err)
	}
	return c, nil
}

// DeleteChat removes the chat and, via cascade, its turns. Deleting a chat
// that does not exist reports core.ErrNotFound.
func (r *ChatRepo) DeleteChat(ctx context.Context, chatID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *ChatRepo) TurnCount(ctx context.Context, chatID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM turns WHERE chat_id = ?`, chatID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return n, nil
}

