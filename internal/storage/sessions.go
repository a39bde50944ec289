package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/model"
)

// CreateSession records a new recommendation session.
func (s *SQLiteStorage) CreateSession(ctx context.Context, session *model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if err := validateString(session.ID, "sessionID"); err != nil {
		return err
	}
	if err := validateString(session.UserEmail, "userEmail"); err != nil {
		return err
	}

	startedAt := session.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	status := session.Status
	if status == "" {
		status = model.SessionActive
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_email, status, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.UserEmail, string(status), startedAt, startedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// AppendSessionTurn records one prompt/response exchange.
func (s *SQLiteStorage) AppendSessionTurn(ctx context.Context, sessionID string, turn model.SessionTurn) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if err := validateString(turn.Prompt, "prompt"); err != nil {
		return err
	}

	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`, createdAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO session_turns (session_id, prompt, response, parsed, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, turn.Prompt, turn.Response, turn.Parsed, createdAt); err != nil {
		return fmt.Errorf("failed to append session turn: %w", err)
	}

	return tx.Commit()
}

// UpdateSessionStatus moves a session through its lifecycle.
func (s *SQLiteStorage) UpdateSessionStatus(ctx context.Context, sessionID string, status model.SessionStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check session update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}
	return nil
}

// GetSession returns a session with its turns in order, or ErrNotFound.
func (s *SQLiteStorage) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	var session model.Session
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_email, status, started_at, updated_at
		FROM sessions WHERE id = ?`, sessionID).Scan(
		&session.ID, &session.UserEmail, &status, &session.StartedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	session.Status = model.SessionStatus(status)

	rows, err := s.db.QueryContext(ctx, `
		SELECT prompt, response, parsed, created_at
		FROM session_turns WHERE session_id = ?
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var turn model.SessionTurn
		var response sql.NullString
		if err := rows.Scan(&turn.Prompt, &response, &turn.Parsed, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session turn: %w", err)
		}
		turn.Response = response.String
		session.Turns = append(session.Turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session turns: %w", err)
	}
	return &session, nil
}
