package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gridchat/internal/models"
)

// CreateThread inserts a new thread for the given user/bot and returns the record.
func (s *Service) CreateThread(ctx context.Context, userID, botID int64, title string) (*models.Thread, error) {
	if userID <= 0 {
		return nil, errors.New("user_id is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO threads (user_id, bot_id, title, created_at, last_message_at) VALUES (?, ?, ?, ?, ?)`,
		userID, botID, title, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("thread id: %w", err)
	}
	return &models.Thread{ID: id, UserID: userID, BotID: botID, Title: title, CreatedAt: now, LastMessageAt: now}, nil
}

// TouchThread updates the thread's last-activity timestamp.
func (s *Service) TouchThread(ctx context.Context, threadID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE threads SET last_message_at = ? WHERE id = ?`, time.Now().UTC(), threadID)
	if err != nil {
		return fmt.Errorf("touch thread: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("thread rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListThreads returns all threads for a user ordered by last activity.
func (s *Service) ListThreads(ctx context.Context, userID int64) ([]models.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, bot_id, title, created_at, last_message_at
		 FROM threads WHERE user_id = ? ORDER BY last_message_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		var t models.Thread
		if err := rows.Scan(&t.ID, &t.UserID, &t.BotID, &t.Title, &t.CreatedAt, &t.LastMessageAt); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// GetThreadWithTurns returns one thread and its ordered turns.
func (s *Service) GetThreadWithTurns(ctx context.Context, userID, threadID int64) (*models.Thread, []*models.Message, error) {
	var thread models.Thread
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, bot_id, title, created_at, last_message_at
		 FROM threads WHERE id = ? AND user_id = ?`,
		threadID, userID,
	).Scan(&thread.ID, &thread.UserID, &thread.BotID, &thread.Title, &thread.CreatedAt, &thread.LastMessageAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("get thread: %w", err)
	}

	turns, err := s.ListTurns(ctx, threadID)
	if err != nil {
		return &thread, nil, err
	}
	return &thread, turns, nil
}

// ListTurns returns the thread's messages oldest first.
func (s *Service) ListTurns(ctx context.Context, threadID int64) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, bot_id, thread_id, role, content, attachments, created_at
		 FROM messages WHERE thread_id = ? ORDER BY created_at ASC, id ASC`,
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []*models.Message
	for rows.Next() {
		m := new(models.Message)
		var attachments string
		if err := rows.Scan(&m.ID, &m.UserID, &m.BotID, &m.ThreadID, &m.Role, &m.Content, &attachments, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if attachments != "" && attachments != "[]" {
			if err := json.Unmarshal([]byte(attachments), &m.Attachments); err != nil {
				return nil, fmt.Errorf("decode attachments: %w", err)
			}
		}
		turns = append(turns, m)
	}
	return turns, rows.Err()
}

// AppendTurn stores a new turn and bumps the thread's last-activity timestamp.
func (s *Service) AppendTurn(ctx context.Context, msg models.Message) (*models.Message, error) {
	if msg.ThreadID <= 0 {
		return nil, errors.New("thread_id is required")
	}
	attachments := "[]"
	if len(msg.Attachments) > 0 {
		raw, err := json.Marshal(msg.Attachments)
		if err != nil {
			return nil, fmt.Errorf("encode attachments: %w", err)
		}
		attachments = string(raw)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (user_id, bot_id, thread_id, role, content, attachments, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.UserID, msg.BotID, msg.ThreadID, msg.Role, msg.Content, attachments, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("turn id: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE threads SET last_message_at = ? WHERE id = ?`, now, msg.ThreadID); err != nil {
		return nil, fmt.Errorf("touch thread: %w", err)
	}
	msg.ID = id
	msg.CreatedAt = now
	return &msg, nil
}

// DeleteThread removes a thread and all related turns for the user.
func (s *Service) DeleteThread(ctx context.Context, userID, threadID int64) error {
	if threadID <= 0 {
		return errors.New("invalid thread id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM threads WHERE id = ? AND user_id = ?`, threadID, userID)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("thread rows affected: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return sql.ErrNoRows
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE thread_id = ?`, threadID); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete thread: %w", err)
	}
	return nil
}
