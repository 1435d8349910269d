package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// openAll returns one store per backend, each rooted in its own temp dir.
func openAll(t *testing.T) map[string]Store {
	t.Helper()

	stores := make(map[string]Store)
	for _, backend := range []string{BackendMemory, BackendFile, BackendSQLite} {
		s, err := Open(Options{Backend: backend, Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", backend, err)
		}
		t.Cleanup(func() { _ = s.Close() })
		stores[backend] = s
	}
	return stores
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "tasks")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_SetReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, "tasks", []byte(`[{"title":"A","completed":false}]`)); err != nil {
				t.Fatalf("first Set() failed: %v", err)
			}
			if err := s.Set(ctx, "tasks", []byte(`[]`)); err != nil {
				t.Fatalf("second Set() failed: %v", err)
			}

			got, err := s.Get(ctx, "tasks")
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if string(got) != `[]` {
				t.Errorf("Get() = %q, want %q", got, `[]`)
			}
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, "tasks", []byte("a")); err != nil {
				t.Fatalf("Set(tasks) failed: %v", err)
			}
			if err := s.Set(ctx, "tasks.backup", []byte("b")); err != nil {
				t.Fatalf("Set(tasks.backup) failed: %v", err)
			}

			got, err := s.Get(ctx, "tasks")
			if err != nil || string(got) != "a" {
				t.Errorf("Get(tasks) = %q, %v; want \"a\"", got, err)
			}
		})
	}
}

func TestStore_InvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", `a\b`} {
				if err := s.Set(ctx, key, []byte("x")); err == nil {
					t.Errorf("Set(%q) = nil, want error", key)
				}
				if _, err := s.Get(ctx, key); err == nil || errors.Is(err, ErrNotFound) {
					t.Errorf("Get(%q) error = %v, want invalid key error", key, err)
				}
			}
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	value[0] = 'x'

	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get() = %q, want %q (store must copy on Set)", got, "abc")
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewMemory().Set(ctx, "k", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestFile_WritesKeyFile(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")

	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile() failed: %v", err)
	}
	if err := f.Set(ctx, "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if f.Path("tasks") != filepath.Join(dir, "tasks.json") {
		t.Errorf("Path() = %q", f.Path("tasks"))
	}
	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("file content = %q, want %q", data, `[]`)
	}

	// No temp files may be left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("data dir entries = %v, want only tasks.json", names)
	}
}
