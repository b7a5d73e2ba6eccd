package model

import "time"

// Checklist task statuses. Transitions are one-directional per day:
// pending -> done | skipped | move to tomorrow.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusMoved   = "move to tomorrow"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Task is a checklist item. DueDate and MovedAt are calendar days in
// YYYY-MM-DD form; MovedAt is empty until the task is rolled forward.
type Task struct {
	ID        string
	UserID    string
	Title     string
	Status    string
	DueDate   string
	MovedAt   string
	CreatedAt time.Time
}

type ScheduleEvent struct {
	ID        string
	UserID    string
	Title     string
	StartTime time.Time
	EndTime   time.Time
	CreatedAt time.Time
}

// BookingRequest is append-only; the recipient is the owning user.
type BookingRequest struct {
	ID        string
	UserID    string
	Email     string
	Time      string
	Msg       string
	CreatedAt time.Time
}

// DailyStat is derived at query time, never stored. Counts are grouped by
// the day a task row was created, not the day it is due.
type DailyStat struct {
	Date      string
	Done      int
	Skipped   int
	Postponed int
}
