// Package session owns the live task list shared by every surface.
//
// A Session seeds itself from a persist.Bridge, applies commands one at a time
// through tasks.Apply, saves the whole list after each command, and notifies
// subscribers with the new Snapshot.
package session

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/mschirtzinger/taskmgr/internal/persist"
	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	User   string       `json:"user"`
	Tasks  tasks.List   `json:"tasks"`
	Counts tasks.Counts `json:"counts"`
}

// Options configures a Session.
type Options struct {
	// User is the display name shown as "Welcome, {user}". Read-only.
	User string

	// Logger receives save failures (default: discard).
	Logger *log.Logger
}

// Session serializes commands against a single task list.
type Session struct {
	bridge *persist.Bridge
	user   string
	logger *log.Logger

	mu    sync.Mutex
	state tasks.List

	// notifyMu is taken before mu is released so subscribers see
	// snapshots in the order the commands were applied.
	notifyMu sync.Mutex

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// New creates a Session seeded from bridge.Load.
func New(ctx context.Context, bridge *persist.Bridge, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		bridge: bridge,
		user:   opts.User,
		logger: logger,
		state:  bridge.Load(ctx),
		subs:   make(map[int]func(Snapshot)),
	}
}

// User returns the display name.
func (s *Session) User() string {
	return s.user
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		User:   s.user,
		Tasks:  s.state.Clone(),
		Counts: tasks.Stats(s.state),
	}
}

// Dispatch applies cmd, saves the resulting list and notifies subscribers.
// When the save fails the new list is kept in memory and the error returned.
func (s *Session) Dispatch(ctx context.Context, cmd tasks.Command) (Snapshot, error) {
	s.mu.Lock()
	s.state = tasks.Apply(s.state, cmd)
	snap := s.snapshotLocked()
	err := s.bridge.Save(ctx, s.state)
	s.notifyMu.Lock()
	s.mu.Unlock()

	if err != nil {
		s.logger.Printf("Warning: failed to save after %s: %v", commandName(cmd), err)
	}
	s.notify(snap)
	s.notifyMu.Unlock()
	return snap, err
}

func commandName(cmd tasks.Command) string {
	if cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}

// Submit adds a task with title. An empty title is not dispatched and
// accepted is false.
func (s *Session) Submit(ctx context.Context, title string) (accepted bool, err error) {
	if (tasks.Task{Title: title}).Validate() != nil {
		return false, nil
	}
	_, err = s.Dispatch(ctx, tasks.Add{Title: title})
	return true, err
}

// Toggle flips the completion flag of the task at index.
func (s *Session) Toggle(ctx context.Context, index int) error {
	_, err := s.Dispatch(ctx, tasks.Toggle{Index: index})
	return err
}

// Delete removes the task at index.
func (s *Session) Delete(ctx context.Context, index int) error {
	_, err := s.Dispatch(ctx, tasks.Delete{Index: index})
	return err
}

// Reload replaces the state with the stored list without saving.
func (s *Session) Reload(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.state = s.bridge.Load(ctx)
	snap := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.notify(snap)
	s.notifyMu.Unlock()
	return snap
}

// Subscribe registers fn to receive every new Snapshot. fn runs on the
// dispatching goroutine and must not call Dispatch or Reload. The returned
// func removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
