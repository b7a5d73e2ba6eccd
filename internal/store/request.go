package store

import (
	"context"

	"slotly/internal/model"
)

// Booking requests are append-only; there is no update or delete path.

func (s *Store) CreateRequest(ctx context.Context, r *model.BookingRequest) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO requests (id, user_id, email, req_time, msg)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at`,
		r.ID, r.UserID, r.Email, r.Time, r.Msg,
	).Scan(&r.CreatedAt)
}

func (s *Store) ListRequests(ctx context.Context, userID string) ([]model.BookingRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, req_time, msg, created_at
		 FROM requests
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingRequest
	for rows.Next() {
		r := model.BookingRequest{UserID: userID}
		if err := rows.Scan(&r.ID, &r.Email, &r.Time, &r.Msg, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
