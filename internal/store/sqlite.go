package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/reflekt/internal/db"
	"github.com/alexanderramin/reflekt/internal/domain"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	kindShown = "shown"
	kindUsed  = "used"
)

// SQLiteStore persists selection state in the local SQLite database.
type SQLiteStore struct {
	uow db.UnitOfWork
	now func() time.Time
}

// NewSQLiteStore creates a SQLiteStore on top of a UnitOfWork.
func NewSQLiteStore(uow db.UnitOfWork) *SQLiteStore {
	return &SQLiteStore{uow: uow, now: time.Now}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func (s *SQLiteStore) Get(ctx context.Context, user string) (*SelectionState, error) {
	var state *SelectionState
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var updated string
		err := tx.QueryRowContext(ctx, `SELECT updated_at FROM selection_users WHERE user_id = ?`, user).Scan(&updated)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("selection state %s: %w", user, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("reading selection user: %w", err)
		}

		state = NewSelectionState()
		state.UpdatedAt = parseTime(updated)
		if err := readKeys(ctx, tx, user, state); err != nil {
			return err
		}
		return readStats(ctx, tx, user, state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func readKeys(ctx context.Context, tx db.DBTX, user string, state *SelectionState) error {
	rows, err := tx.QueryContext(ctx, `SELECT kind, prompt_key, touched_at FROM prompt_keys WHERE user_id = ?`, user)
	if err != nil {
		return fmt.Errorf("querying prompt keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, key, touched string
		if err := rows.Scan(&kind, &key, &touched); err != nil {
			return fmt.Errorf("scanning prompt key: %w", err)
		}
		switch kind {
		case kindShown:
			state.Shown[key] = parseTime(touched)
		case kindUsed:
			state.Used[key] = parseTime(touched)
		}
	}
	return rows.Err()
}

func readStats(ctx context.Context, tx db.DBTX, user string, state *SelectionState) error {
	rows, err := tx.QueryContext(ctx, `SELECT prompt_key, shown, completed, total_words, last_shown_at, last_completed_at
		FROM prompt_stats WHERE user_id = ?`, user)
	if err != nil {
		return fmt.Errorf("querying prompt stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key             string
			st              domain.PromptStats
			shownAt, doneAt sql.NullString
		)
		if err := rows.Scan(&key, &st.Shown, &st.Completed, &st.TotalWords, &shownAt, &doneAt); err != nil {
			return fmt.Errorf("scanning prompt stats: %w", err)
		}
		st.LastShownAt = parseNullableTime(shownAt)
		st.LastCompletedAt = parseNullableTime(doneAt)
		state.PerPrompt[key] = st
	}
	return rows.Err()
}

// Set replaces the user's stored state in one transaction.
func (s *SQLiteStore) Set(ctx context.Context, user string, state *SelectionState) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		updated := state.UpdatedAt
		if updated.IsZero() {
			updated = s.now()
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO selection_users (user_id, updated_at) VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET updated_at = excluded.updated_at`, user, formatTime(updated)); err != nil {
			return fmt.Errorf("upserting selection user: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM prompt_keys WHERE user_id = ?`, user); err != nil {
			return fmt.Errorf("clearing prompt keys: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM prompt_stats WHERE user_id = ?`, user); err != nil {
			return fmt.Errorf("clearing prompt stats: %w", err)
		}

		for kind, keys := range map[string]map[string]time.Time{kindShown: state.Shown, kindUsed: state.Used} {
			for key, at := range keys {
				if _, err := tx.ExecContext(ctx, `INSERT INTO prompt_keys (user_id, kind, prompt_key, touched_at) VALUES (?, ?, ?, ?)`,
					user, kind, key, formatTime(at)); err != nil {
					return fmt.Errorf("inserting %s key: %w", kind, err)
				}
			}
		}
		for key, st := range state.PerPrompt {
			if _, err := tx.ExecContext(ctx, `INSERT INTO prompt_stats
				(user_id, prompt_key, shown, completed, total_words, last_shown_at, last_completed_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				user, key, st.Shown, st.Completed, st.TotalWords,
				nullableTimeToString(st.LastShownAt), nullableTimeToString(st.LastCompletedAt)); err != nil {
				return fmt.Errorf("inserting prompt stats: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, user string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, q := range []string{
			`DELETE FROM prompt_keys WHERE user_id = ?`,
			`DELETE FROM prompt_stats WHERE user_id = ?`,
			`DELETE FROM selection_users WHERE user_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, user); err != nil {
				return fmt.Errorf("deleting selection state: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Prune(ctx context.Context, ttl time.Duration, maxKeys int) (int, error) {
	removed := 0
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if ttl > 0 {
			res, err := tx.ExecContext(ctx, `DELETE FROM selection_users WHERE updated_at < ?`, formatTime(s.now().Add(-ttl)))
			if err != nil {
				return fmt.Errorf("pruning stale users: %w", err)
			}
			n, _ := res.RowsAffected()
			removed += int(n)
		}
		if maxKeys > 0 {
			res, err := tx.ExecContext(ctx, `DELETE FROM selection_users WHERE user_id NOT IN (
				SELECT user_id FROM selection_users ORDER BY updated_at DESC LIMIT ?)`, maxKeys)
			if err != nil {
				return fmt.Errorf("pruning excess users: %w", err)
			}
			n, _ := res.RowsAffected()
			removed += int(n)
		}
		return deleteOrphans(ctx, tx)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// deleteOrphans clears child rows whose user is gone. Foreign keys are only
// enforced on connections that ran the pragma, so this does not rely on them.
func deleteOrphans(ctx context.Context, tx db.DBTX) error {
	for _, q := range []string{
		`DELETE FROM prompt_keys WHERE user_id NOT IN (SELECT user_id FROM selection_users)`,
		`DELETE FROM prompt_stats WHERE user_id NOT IN (SELECT user_id FROM selection_users)`,
	} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("deleting orphaned rows: %w", err)
		}
	}
	return nil
}
