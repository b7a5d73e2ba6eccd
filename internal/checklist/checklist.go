// Package checklist implements the client side of the daily task list:
// an optimistic in-memory list mirrored to a backend (the REST API when
// logged in, session storage for guests) and the derived completion figure
// that reconciles lagging server statistics with local state.
package checklist

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"slotly/internal/model"
)

const dateLayout = "2006-01-02"

// Task is the client-side task shape. DueDate and MovedAt are calendar
// days; MovedAt records when the task was last rolled forward.
type Task struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	DueDate string `json:"dueDate,omitempty"`
	MovedAt string `json:"movedAt,omitempty"`
}

type DayStat struct {
	Date      string `json:"date"`
	Done      int    `json:"done"`
	Skipped   int    `json:"skipped"`
	Postponed int    `json:"postponed"`
}

// Backend persists the checklist and serves statistics. SaveTasks is the
// replace-all primitive: it always receives the complete desired list.
type Backend interface {
	SaveTasks(ctx context.Context, tasks []Task) error
	FetchTasks(ctx context.Context) ([]Task, error)
	FetchStats(ctx context.Context) ([]DayStat, error)
	Authenticated() bool
}

// List holds the task list and the most recent server statistics. Every
// mutation updates local state first, then hands a snapshot to a
// background persistence job; sync failures are logged and never block
// the caller.
type List struct {
	mu      sync.Mutex
	backend Backend
	log     *logrus.Logger
	now     func() time.Time

	tasks []Task
	stats []DayStat

	wg sync.WaitGroup
}

func New(backend Backend, log *logrus.Logger) *List {
	return &List{backend: backend, log: log, now: time.Now}
}

// Load pulls the persisted list and statistics from the backend. Fetch
// failures leave the list empty rather than erroring, matching the
// non-blocking UI contract.
func (l *List) Load(ctx context.Context) {
	tasks, err := l.backend.FetchTasks(ctx)
	if err != nil {
		l.log.WithError(err).Warn("checklist: load failed")
		tasks = nil
	}

	l.mu.Lock()
	l.tasks = Normalize(tasks, l.today())
	l.mu.Unlock()

	l.refreshStats(ctx)
}

// Normalize fills in the defaults the wire format may omit: status
// pending, due date today.
func Normalize(in []Task, today string) []Task {
	out := make([]Task, len(in))
	for i, t := range in {
		if t.Status == "" {
			t.Status = model.StatusPending
		}
		if t.DueDate == "" {
			t.DueDate = today
		}
		out[i] = t
	}
	return out
}

// Add appends a pending task due today. Blank titles are ignored.
func (l *List) Add(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, Task{
		ID:      uuid.New().String(),
		Title:   title,
		Status:  model.StatusPending,
		DueDate: l.today(),
	})
	snap := l.snapshot()
	l.mu.Unlock()

	l.enqueue(snap)
}

// ChangeStatus sets the status of one task. Unknown ids are a no-op.
func (l *List) ChangeStatus(id, status string) {
	l.mu.Lock()
	found := false
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].Status = status
			found = true
		}
	}
	if !found {
		l.mu.Unlock()
		return
	}
	snap := l.snapshot()
	l.mu.Unlock()

	l.enqueue(snap)
}

// MoveToTomorrow rolls a task one day forward from its current due date,
// so repeated moves cascade. MovedAt records today, which is what the
// completion fallback counts when the server aggregate lags.
func (l *List) MoveToTomorrow(id string) {
	l.mu.Lock()
	today := l.today()
	found := false
	for i := range l.tasks {
		if l.tasks[i].ID != id {
			continue
		}
		base := l.tasks[i].DueDate
		if base == "" {
			base = today
		}
		l.tasks[i].DueDate = addDays(base, 1)
		l.tasks[i].Status = model.StatusMoved
		l.tasks[i].MovedAt = today
		found = true
	}
	if !found {
		l.mu.Unlock()
		return
	}
	snap := l.snapshot()
	l.mu.Unlock()

	l.enqueue(snap)
}

// Delete removes one task. Like every other mutation it persists through
// replace-all; there is no per-item delete on the wire.
func (l *List) Delete(id string) {
	l.mu.Lock()
	kept := l.tasks[:0]
	found := false
	for _, t := range l.tasks {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	l.tasks = kept
	if !found {
		l.mu.Unlock()
		return
	}
	snap := l.snapshot()
	l.mu.Unlock()

	l.enqueue(snap)
}

// enqueue starts one persistence job for the snapshot. Jobs run
// independently: delivery is at-least-once and arrival order is not
// guaranteed, so a stale snapshot can overwrite a newer one (last write
// wins at the store).
func (l *List) enqueue(snap []Task) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := l.backend.SaveTasks(ctx, snap); err != nil {
			l.log.WithError(err).Warn("checklist: sync failed")
		}
		l.refreshStats(ctx)
	}()
}

// Flush waits for all in-flight persistence jobs.
func (l *List) Flush() {
	l.wg.Wait()
}

func (l *List) refreshStats(ctx context.Context) {
	stats, err := l.backend.FetchStats(ctx)
	if err != nil {
		l.log.WithError(err).Warn("checklist: stats refresh failed")
		stats = nil
	}
	l.mu.Lock()
	l.stats = stats
	l.mu.Unlock()
}

// Tasks returns a copy of the full list.
func (l *List) Tasks() []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Stats returns the most recent server statistics, empty for guests.
func (l *List) Stats() []DayStat {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]DayStat, len(l.stats))
	copy(out, l.stats)
	return out
}

// TodayTasks returns the tasks whose due date is today.
func (l *List) TodayTasks() []Task {
	return l.filter(func(t Task, today, _ string) bool {
		return t.DueDate == today
	})
}

func (l *List) Pending() []Task {
	return l.filter(func(t Task, today, _ string) bool {
		return t.DueDate == today && t.Status == model.StatusPending
	})
}

func (l *List) Done() []Task {
	return l.filter(func(t Task, today, _ string) bool {
		return t.DueDate == today && t.Status == model.StatusDone
	})
}

func (l *List) Skipped() []Task {
	return l.filter(func(t Task, today, _ string) bool {
		return t.DueDate == today && t.Status == model.StatusSkipped
	})
}

// MovedToTomorrow returns the tasks successfully rolled to tomorrow.
func (l *List) MovedToTomorrow() []Task {
	return l.filter(func(t Task, _, tomorrow string) bool {
		return t.Status == model.StatusMoved && t.DueDate == tomorrow
	})
}

// CompletionToday derives today's completion percentage as
// done / (done + skipped + moved). When logged in and the server has a row
// for today, its counts win, except a zero moved count, which falls back
// to the local number of tasks moved today: the server aggregate is keyed
// by creation day, so a task created earlier and moved today may not show
// up in today's row yet. Guests always use local counts. A zero
// denominator yields 0.
func (l *List) CompletionToday() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := l.today()
	var done, skipped, movedLocal int
	for _, t := range l.tasks {
		if t.Status == model.StatusMoved && t.MovedAt == today {
			movedLocal++
		}
		if t.DueDate != today {
			continue
		}
		switch t.Status {
		case model.StatusDone:
			done++
		case model.StatusSkipped:
			skipped++
		}
	}

	if l.backend.Authenticated() {
		for _, s := range l.stats {
			if s.Date != today {
				continue
			}
			moved := s.Postponed
			if moved == 0 {
				moved = movedLocal
			}
			return percent(s.Done, s.Done+s.Skipped+moved)
		}
	}

	return percent(done, done+skipped+movedLocal)
}

func percent(done, denom int) int {
	if denom == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(denom) * 100))
}

func (l *List) filter(keep func(t Task, today, tomorrow string) bool) []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	today := l.today()
	tomorrow := addDays(today, 1)
	var out []Task
	for _, t := range l.tasks {
		if keep(t, today, tomorrow) {
			out = append(out, t)
		}
	}
	return out
}

// snapshot copies the list; callers must hold l.mu.
func (l *List) snapshot() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *List) today() string {
	return l.now().Format(dateLayout)
}

func addDays(day string, n int) string {
	t, err := time.Parse(dateLayout, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}
