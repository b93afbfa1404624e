package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fortuna/standings/internal/standings"
	"github.com/fortuna/standings/internal/store"
)

// ErrNotFound is returned when a league has no stored standings
var ErrNotFound = errors.New("standings not found")

// StandingsRepository handles rendered standings history
type StandingsRepository struct {
	db *store.Database
}

// NewStandingsRepository creates a new standings repository
func NewStandingsRepository(db *store.Database) *StandingsRepository {
	return &StandingsRepository{db: db}
}

// SaveRun stores one rendered snapshot and its messages in a single transaction
func (r *StandingsRepository) SaveRun(ctx context.Context, leagueKey string, style standings.Style, messages []standings.Message) (int64, error) {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO standings_runs (league_key, team_count, style)
		VALUES ($1, $2, $3)
		RETURNING run_id
	`, leagueKey, len(messages), style.String()).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("inserting standings run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO standings_messages (run_id, position, kind, text)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing message insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range messages {
		if _, err := stmt.ExecContext(ctx, runID, i, string(msg.Kind), msg.Text); err != nil {
			return 0, fmt.Errorf("inserting message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing standings run: %w", err)
	}
	return runID, nil
}

// Latest returns the most recent run for a league, with its messages in order
func (r *StandingsRepository) Latest(ctx context.Context, leagueKey string) (*store.StandingsRun, error) {
	query := `
		SELECT run_id, league_key, team_count, style, created_at
		FROM standings_runs
		WHERE league_key = $1
		ORDER BY created_at DESC, run_id DESC
		LIMIT 1
	`

	run := &store.StandingsRun{}
	err := r.db.DB().QueryRowContext(ctx, query, leagueKey).Scan(
		&run.RunID, &run.LeagueKey, &run.TeamCount, &run.Style, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	run.Messages, err = r.messages(ctx, run.RunID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// History returns up to limit runs for a league, newest first, without messages
func (r *StandingsRepository) History(ctx context.Context, leagueKey string, limit int) ([]*store.StandingsRun, error) {
	query := `
		SELECT run_id, league_key, team_count, style, created_at
		FROM standings_runs
		WHERE league_key = $1
		ORDER BY created_at DESC, run_id DESC
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, leagueKey, limit)
	if err != nil {
		return nil, fmt.Errorf("querying standings runs: %w", err)
	}
	defer rows.Close()

	runs := []*store.StandingsRun{}
	for rows.Next() {
		run := &store.StandingsRun{}
		if err := rows.Scan(&run.RunID, &run.LeagueKey, &run.TeamCount, &run.Style, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning standings run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *StandingsRepository) messages(ctx context.Context, runID int64) ([]standings.Message, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT kind, text
		FROM standings_messages
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := []standings.Message{}
	for rows.Next() {
		var kind, text string
		if err := rows.Scan(&kind, &text); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, standings.Message{Kind: standings.Kind(kind), Text: text})
	}

	return messages, rows.Err()
}
