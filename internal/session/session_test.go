package session

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mschirtzinger/taskmgr/internal/persist"
	"github.com/mschirtzinger/taskmgr/internal/storage"
	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

// recordingStore wraps a Memory store and records every Set value.
type recordingStore struct {
	*storage.Memory

	mu     sync.Mutex
	writes []string
	setErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Memory: storage.NewMemory()}
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	r.writes = append(r.writes, string(value))
	err := r.setErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Memory.Set(ctx, key, value)
}

func (r *recordingStore) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.writes...)
}

func newTestSession(t *testing.T, store storage.Store) *Session {
	t.Helper()
	bridge := persist.New(store, &persist.Config{Logger: log.New(&bytes.Buffer{}, "", 0)})
	return New(context.Background(), bridge, Options{User: "Ada"})
}

func TestNew_SeedsFromStorage(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	_ = store.Memory.Set(ctx, "tasks", []byte(`[{"title":"A","completed":true}]`))

	s := newTestSession(t, store)

	want := Snapshot{
		User:   "Ada",
		Tasks:  tasks.List{{Title: "A", Completed: true}},
		Counts: tasks.Counts{Total: 1, Completed: 1},
	}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if len(store.Writes()) != 0 {
		t.Errorf("seeding should not save, got %v", store.Writes())
	}
}

func TestSession_Scenario(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	s := newTestSession(t, store)

	if s.User() != "Ada" {
		t.Errorf("User() = %q, want Ada", s.User())
	}
	if got := s.Snapshot().Tasks; len(got) != 0 {
		t.Fatalf("initial tasks = %v, want empty", got)
	}

	if ok, err := s.Submit(ctx, "Buy milk"); !ok || err != nil {
		t.Fatalf("Submit() = %v, %v", ok, err)
	}
	if ok, err := s.Submit(ctx, "Walk dog"); !ok || err != nil {
		t.Fatalf("Submit() = %v, %v", ok, err)
	}
	if err := s.Toggle(ctx, 0); err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	if err := s.Delete(ctx, 0); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	wantWrites := []string{
		`[{"title":"Buy milk","completed":false}]`,
		`[{"title":"Buy milk","completed":false},{"title":"Walk dog","completed":false}]`,
		`[{"title":"Buy milk","completed":true},{"title":"Walk dog","completed":false}]`,
		`[{"title":"Walk dog","completed":false}]`,
	}
	if diff := cmp.Diff(wantWrites, store.Writes()); diff != "" {
		t.Errorf("saved values mismatch (-want +got):\n%s", diff)
	}

	snap := s.Snapshot()
	if snap.Counts != (tasks.Counts{Total: 1, Completed: 0}) {
		t.Errorf("Counts = %+v, want total 1 completed 0", snap.Counts)
	}
}

func TestSubmit_EmptyTitleNotDispatched(t *testing.T) {
	store := newRecordingStore()
	s := newTestSession(t, store)
	notified := 0
	s.Subscribe(func(Snapshot) { notified++ })

	ok, err := s.Submit(context.Background(), "")

	if ok || err != nil {
		t.Errorf("Submit(\"\") = %v, %v, want false, nil", ok, err)
	}
	if len(store.Writes()) != 0 || notified != 0 {
		t.Errorf("empty title caused %d saves and %d notifications", len(store.Writes()), notified)
	}
}

func TestDispatch_OutOfRangeStillSaves(t *testing.T) {
	store := newRecordingStore()
	s := newTestSession(t, store)

	snap, err := s.Dispatch(context.Background(), tasks.Toggle{Index: 3})

	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if len(snap.Tasks) != 0 {
		t.Errorf("Tasks = %v, want empty", snap.Tasks)
	}
	if diff := cmp.Diff([]string{`[]`}, store.Writes()); diff != "" {
		t.Errorf("saved values mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_SaveErrorKeepsState(t *testing.T) {
	store := newRecordingStore()
	store.setErr = errors.New("disk full")
	var logs bytes.Buffer
	bridge := persist.New(store, nil)
	s := New(context.Background(), bridge, Options{User: "Ada", Logger: log.New(&logs, "", 0)})

	snap, err := s.Dispatch(context.Background(), tasks.Add{Title: "A"})

	if err == nil {
		t.Fatal("Dispatch() = nil error, want save failure")
	}
	if len(snap.Tasks) != 1 || len(s.Snapshot().Tasks) != 1 {
		t.Errorf("state should keep the new task, got %v", s.Snapshot().Tasks)
	}
	if !strings.Contains(logs.String(), "ADD_TASK") {
		t.Errorf("log = %q, want command name", logs.String())
	}
}

func TestDispatch_NilCommandSaveError(t *testing.T) {
	store := newRecordingStore()
	store.setErr = errors.New("disk full")
	var logs bytes.Buffer
	s := New(context.Background(), persist.New(store, nil), Options{User: "Ada", Logger: log.New(&logs, "", 0)})

	snap, err := s.Dispatch(context.Background(), nil)

	if err == nil {
		t.Fatal("Dispatch(nil) = nil error, want save failure")
	}
	if len(snap.Tasks) != 0 {
		t.Errorf("Dispatch(nil) tasks = %v, want unchanged", snap.Tasks)
	}
	if !strings.Contains(logs.String(), "after unknown") {
		t.Errorf("log = %q, want fallback command name", logs.String())
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newRecordingStore())
	_, _ = s.Submit(ctx, "A")

	snap := s.Snapshot()
	snap.Tasks[0].Title = "mutated"

	if got := s.Snapshot().Tasks[0].Title; got != "A" {
		t.Errorf("session state changed through snapshot: %q", got)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newRecordingStore())

	var got []int
	cancel := s.Subscribe(func(snap Snapshot) { got = append(got, snap.Counts.Total) })

	_, _ = s.Submit(ctx, "A")
	_, _ = s.Submit(ctx, "B")
	cancel()
	_, _ = s.Submit(ctx, "C")

	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	s := newTestSession(t, store)
	_, _ = s.Submit(ctx, "A")

	// Another process rewrites the stored list.
	_ = store.Memory.Set(ctx, "tasks", []byte(`[{"title":"X","completed":true},{"title":"Y","completed":false}]`))

	var notified Snapshot
	s.Subscribe(func(snap Snapshot) { notified = snap })
	snap := s.Reload(ctx)

	want := tasks.List{{Title: "X", Completed: true}, {Title: "Y"}}
	if diff := cmp.Diff(want, snap.Tasks); diff != "" {
		t.Errorf("Reload() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(snap, notified); diff != "" {
		t.Errorf("subscriber got a different snapshot (-want +got):\n%s", diff)
	}
	if n := len(store.Writes()); n != 1 {
		t.Errorf("Reload should not save, got %d writes", n)
	}
}

func TestDispatch_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	s := newTestSession(t, store)

	var last int
	s.Subscribe(func(snap Snapshot) {
		if snap.Counts.Total < last {
			t.Errorf("notification went backwards: %d after %d", snap.Counts.Total, last)
		}
		last = snap.Counts.Total
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Submit(ctx, "task")
		}()
	}
	wg.Wait()

	if got := s.Snapshot().Counts.Total; got != 20 {
		t.Errorf("Total = %d, want 20", got)
	}
	if n := len(store.Writes()); n != 20 {
		t.Errorf("writes = %d, want 20", n)
	}
}
