package store

import (
	"context"

	"slotly/internal/model"
)

func (s *Store) CreateEvent(ctx context.Context, ev *model.ScheduleEvent) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO schedule_events (id, user_id, title, start_time, end_time)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at`,
		ev.ID, ev.UserID, ev.Title, ev.StartTime, ev.EndTime,
	).Scan(&ev.CreatedAt)
}

func (s *Store) ListEvents(ctx context.Context, userID string) ([]model.ScheduleEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, start_time, end_time, created_at
		 FROM schedule_events
		 WHERE user_id = $1
		 ORDER BY start_time`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScheduleEvent
	for rows.Next() {
		ev := model.ScheduleEvent{UserID: userID}
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.StartTime, &ev.EndTime, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
