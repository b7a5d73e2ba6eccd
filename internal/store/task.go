package store

import (
	"context"

	"github.com/google/uuid"

	"slotly/internal/model"
)

// ReplaceTasks overwrites the user's entire checklist in one transaction.
// Every previous row is deleted and each supplied task is inserted under a
// fresh id, so identifiers are not stable across syncs. On any error the
// prior list is left intact.
func (s *Store) ReplaceTasks(ctx context.Context, userID string, tasks []model.Task) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}

	for _, t := range tasks {
		_, err = tx.Exec(ctx,
			`INSERT INTO tasks (id, user_id, title, status, due_date, moved_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.New().String(), userID, t.Title, t.Status, t.DueDate, t.MovedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListTasks returns the user's checklist, newest batch first. Rows inserted
// by the same sync share a created_at, so seq keeps submission order stable.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, status, due_date, moved_at, created_at
		 FROM tasks WHERE user_id = $1
		 ORDER BY created_at DESC, seq`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		t := model.Task{UserID: userID}
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.DueDate, &t.MovedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TaskStats aggregates the checklist by the day each row was created,
// most recent day first. Days with no rows are simply absent.
func (s *Store) TaskStats(ctx context.Context, userID string) ([]model.DailyStat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS date,
		        COUNT(*) FILTER (WHERE status = 'done')             AS done,
		        COUNT(*) FILTER (WHERE status = 'skipped')          AS skipped,
		        COUNT(*) FILTER (WHERE status = 'move to tomorrow') AS postponed
		 FROM tasks
		 WHERE user_id = $1
		 GROUP BY date
		 ORDER BY date DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DailyStat
	for rows.Next() {
		var st model.DailyStat
		if err := rows.Scan(&st.Date, &st.Done, &st.Skipped, &st.Postponed); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
