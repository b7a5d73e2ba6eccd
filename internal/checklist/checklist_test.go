package checklist

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"slotly/internal/model"
)

type fakeBackend struct {
	mu      sync.Mutex
	authed  bool
	tasks   []Task
	stats   []DayStat
	saved   [][]Task
	saveErr error
}

func (f *fakeBackend) SaveTasks(_ context.Context, tasks []Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	snap := make([]Task, len(tasks))
	copy(snap, tasks)
	f.saved = append(f.saved, snap)
	f.tasks = snap
	return nil
}

func (f *fakeBackend) FetchTasks(_ context.Context) ([]Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks, nil
}

func (f *fakeBackend) FetchStats(_ context.Context) ([]DayStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, nil
}

func (f *fakeBackend) Authenticated() bool { return f.authed }

func (f *fakeBackend) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeBackend) lastSaved() []Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fixed clock so "today" is stable across the test run
var testDay = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newList(b Backend) *List {
	l := New(b, quietLogger())
	l.now = func() time.Time { return testDay }
	return l
}

func TestAddCreatesPendingTaskDueToday(t *testing.T) {
	fb := &fakeBackend{}
	l := newList(fb)

	l.Add("Buy milk")
	l.Add("   ") // blank, ignored
	l.Flush()

	tasks := l.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy milk" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.Status != model.StatusPending {
		t.Errorf("status: got %q", got.Status)
	}
	if got.DueDate != "2026-03-10" {
		t.Errorf("due date: got %q", got.DueDate)
	}
	if got.MovedAt != "" {
		t.Errorf("moved at should be empty, got %q", got.MovedAt)
	}
	if fb.saveCount() != 1 {
		t.Errorf("expected 1 sync, got %d", fb.saveCount())
	}
}

func TestAnonymousCompletionScenario(t *testing.T) {
	fb := &fakeBackend{}
	l := newList(fb)

	l.Add("a")
	l.Add("b")
	l.Add("c")
	tasks := l.Tasks()
	l.ChangeStatus(tasks[0].ID, model.StatusDone)
	l.ChangeStatus(tasks[1].ID, model.StatusSkipped)
	l.MoveToTomorrow(tasks[2].ID)
	l.Flush()

	if got := l.CompletionToday(); got != 33 {
		t.Errorf("completion: expected 33, got %d", got)
	}
	if n := len(l.Done()); n != 1 {
		t.Errorf("done group: expected 1, got %d", n)
	}
	if n := len(l.Skipped()); n != 1 {
		t.Errorf("skipped group: expected 1, got %d", n)
	}
	if n := len(l.Pending()); n != 0 {
		t.Errorf("pending group: expected 0, got %d", n)
	}
	if n := len(l.MovedToTomorrow()); n != 1 {
		t.Errorf("moved group: expected 1, got %d", n)
	}
}

func TestCompletionZeroDenominator(t *testing.T) {
	l := newList(&fakeBackend{})
	if got := l.CompletionToday(); got != 0 {
		t.Fatalf("empty list: expected 0, got %d", got)
	}

	l.Add("only pending")
	l.Flush()
	if got := l.CompletionToday(); got != 0 {
		t.Fatalf("pending only: expected 0, got %d", got)
	}
}

func TestMoveToTomorrowTwiceCascades(t *testing.T) {
	l := newList(&fakeBackend{})
	l.Add("slippery")
	id := l.Tasks()[0].ID

	l.MoveToTomorrow(id)
	l.MoveToTomorrow(id)
	l.Flush()

	got := l.Tasks()[0]
	if got.DueDate != "2026-03-12" {
		t.Errorf("due date: expected 2026-03-12, got %q", got.DueDate)
	}
	if got.Status != model.StatusMoved {
		t.Errorf("status: got %q", got.Status)
	}
	if got.MovedAt != "2026-03-10" {
		t.Errorf("moved at: got %q", got.MovedAt)
	}

	// moved two days out, so it is no longer in the tomorrow group
	if n := len(l.MovedToTomorrow()); n != 0 {
		t.Errorf("moved group: expected 0, got %d", n)
	}
}

func TestChangeStatusUnknownIDIsNoop(t *testing.T) {
	fb := &fakeBackend{}
	l := newList(fb)
	l.Add("a")
	l.Flush()
	before := fb.saveCount()

	l.ChangeStatus("nope", model.StatusDone)
	l.Flush()

	if fb.saveCount() != before {
		t.Errorf("unexpected sync for unknown id")
	}
	if got := l.Tasks()[0].Status; got != model.StatusPending {
		t.Errorf("status changed: got %q", got)
	}
}

func TestDeleteSyncsWholeList(t *testing.T) {
	fb := &fakeBackend{}
	l := newList(fb)
	l.Add("keep")
	l.Add("drop")
	tasks := l.Tasks()

	l.Delete(tasks[1].ID)
	l.Flush()

	last := fb.lastSaved()
	if len(last) != 1 || last[0].Title != "keep" {
		t.Fatalf("expected replace-all with just 'keep', got %+v", last)
	}
	if n := len(l.Tasks()); n != 1 {
		t.Errorf("local list: expected 1, got %d", n)
	}
}

func TestServerStatsPreferredWhenAuthed(t *testing.T) {
	fb := &fakeBackend{
		authed: true,
		stats: []DayStat{
			{Date: "2026-03-10", Done: 2, Skipped: 1, Postponed: 1},
			{Date: "2026-03-09", Done: 5, Skipped: 0, Postponed: 0},
		},
	}
	l := newList(fb)
	l.Load(context.Background())

	// 2 / (2+1+1) = 50%, regardless of the empty local list
	if got := l.CompletionToday(); got != 50 {
		t.Errorf("completion: expected 50, got %d", got)
	}
}

func TestServerMovedCountFallsBackToLocal(t *testing.T) {
	// server row exists for today but its postponed count lags: the task
	// was created yesterday, so its move shows up under yesterday's row
	fb := &fakeBackend{
		authed: true,
		tasks: []Task{
			{ID: "1", Title: "old", Status: model.StatusMoved, DueDate: "2026-03-11", MovedAt: "2026-03-10"},
		},
		stats: []DayStat{
			{Date: "2026-03-10", Done: 1, Skipped: 0, Postponed: 0},
		},
	}
	l := newList(fb)
	l.Load(context.Background())

	// 1 / (1+0+1 local moved) = 50%
	if got := l.CompletionToday(); got != 50 {
		t.Errorf("completion: expected 50, got %d", got)
	}
}

func TestNoServerRowForTodayUsesLocalCounts(t *testing.T) {
	fb := &fakeBackend{
		authed: true,
		stats:  []DayStat{{Date: "2026-03-09", Done: 4, Skipped: 4, Postponed: 0}},
	}
	l := newList(fb)
	l.Add("a")
	l.Add("b")
	tasks := l.Tasks()
	l.ChangeStatus(tasks[0].ID, model.StatusDone)
	l.ChangeStatus(tasks[1].ID, model.StatusDone)
	l.Flush()
	// Flush refreshed stats from the fake, which still lacks a row for today
	if got := l.CompletionToday(); got != 100 {
		t.Errorf("completion: expected 100, got %d", got)
	}
}

func TestSyncFailureKeepsLocalState(t *testing.T) {
	fb := &fakeBackend{saveErr: errors.New("boom")}
	l := newList(fb)

	l.Add("survives")
	l.Flush()

	if n := len(l.Tasks()); n != 1 {
		t.Fatalf("optimistic state lost: expected 1 task, got %d", n)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	got := Normalize([]Task{
		{ID: "1", Title: "bare"},
		{ID: "2", Title: "set", Status: model.StatusDone, DueDate: "2026-01-01"},
	}, "2026-03-10")

	if got[0].Status != model.StatusPending || got[0].DueDate != "2026-03-10" {
		t.Errorf("defaults not applied: %+v", got[0])
	}
	if got[1].Status != model.StatusDone || got[1].DueDate != "2026-01-01" {
		t.Errorf("existing values clobbered: %+v", got[1])
	}
}

func TestTodayTasksExcludesOtherDays(t *testing.T) {
	fb := &fakeBackend{tasks: []Task{
		{ID: "1", Title: "today", Status: model.StatusPending, DueDate: "2026-03-10"},
		{ID: "2", Title: "tomorrow", Status: model.StatusMoved, DueDate: "2026-03-11", MovedAt: "2026-03-10"},
		{ID: "3", Title: "old", Status: model.StatusDone, DueDate: "2026-03-01"},
	}}
	l := newList(fb)
	l.Load(context.Background())

	today := l.TodayTasks()
	if len(today) != 1 || today[0].ID != "1" {
		t.Fatalf("today view wrong: %+v", today)
	}
}

func TestGuestPersistenceWithinSession(t *testing.T) {
	session := NewSessionStorage()
	l := newList(NewGuest(session, nil))

	l.Add("guest task")
	l.Flush()

	// same browsing session: a fresh list over the same storage recovers it
	l2 := newList(NewGuest(session, nil))
	l2.Load(context.Background())
	tasks := l2.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "guest task" {
		t.Fatalf("guest task not recovered: %+v", tasks)
	}

	// new session: nothing survives
	l3 := newList(NewGuest(NewSessionStorage(), nil))
	l3.Load(context.Background())
	if n := len(l3.Tasks()); n != 0 {
		t.Fatalf("fresh session should be empty, got %d tasks", n)
	}
}

func TestGuestCompletionIgnoresServerBranch(t *testing.T) {
	session := NewSessionStorage()
	l := newList(NewGuest(session, nil))
	l.Add("a")
	l.ChangeStatus(l.Tasks()[0].ID, model.StatusDone)
	l.Flush()

	if got := l.CompletionToday(); got != 100 {
		t.Errorf("completion: expected 100, got %d", got)
	}
	if n := len(l.Stats()); n != 0 {
		t.Errorf("guest stats should be empty, got %d rows", n)
	}
}

func TestLegacyGuestMigration(t *testing.T) {
	durable := NewSessionStorage() // any Storage works as the legacy side
	durable.Set(guestTasksKey, `[{"id":"1","title":"old","status":"pending"}]`)
	session := NewSessionStorage()

	g := NewGuest(session, durable)
	tasks, err := g.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "old" {
		t.Fatalf("migrated tasks wrong: %+v", tasks)
	}
	if _, ok := durable.Get(guestTasksKey); ok {
		t.Error("durable copy should be cleared after migration")
	}

	// session data wins over any later durable resurrection
	durable.Set(guestTasksKey, `[{"id":"9","title":"stale","status":"pending"}]`)
	g2 := NewGuest(session, durable)
	tasks, _ = g2.FetchTasks(context.Background())
	if len(tasks) != 1 || tasks[0].Title != "old" {
		t.Fatalf("session copy clobbered: %+v", tasks)
	}
}

func TestGuestCorruptDataTreatedAsAbsent(t *testing.T) {
	session := NewSessionStorage()
	session.Set(guestTasksKey, "{not json")

	g := NewGuest(session, nil)
	tasks, err := g.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if tasks != nil {
		t.Fatalf("expected nil, got %+v", tasks)
	}
}
