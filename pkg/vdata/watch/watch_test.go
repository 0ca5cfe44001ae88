package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDebouncer_CoalescesEvents(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	var last atomic.Int32
	for i := int32(1); i <= 5; i++ {
		n := i
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("expected latest callback to run, got %d", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no calls after Stop, got %d", got)
	}
}

func TestRunner_SerializesAndCoalesces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	var mu sync.Mutex
	var triggers []string

	runner := NewRunner(func(ctx context.Context, trigger string) error {
		mu.Lock()
		triggers = append(triggers, trigger)
		first := len(triggers) == 1
		mu.Unlock()
		if first {
			<-release
		}
		return errors.New("ignored")
	}, nil)

	done := make(chan struct{})
	go func() {
		runner.Loop(ctx)
		close(done)
	}()

	runner.Request("start")
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(triggers) == 1
	})

	// While the first run blocks, three requests collapse into one.
	runner.Request(TriggerChange)
	runner.Request(TriggerChange)
	runner.Request(TriggerSchedule)
	close(release)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(triggers) == 2
	})
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	if len(triggers) != 2 || triggers[1] != TriggerChange {
		t.Errorf("unexpected runs %v", triggers)
	}
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Loop did not return after cancel")
	}
}

func TestScheduler(t *testing.T) {
	runner := NewRunner(func(context.Context, string) error { return nil }, nil)

	if _, err := NewScheduler("not a cron", runner, nil); err == nil {
		t.Fatal("expected invalid cron expression error")
	}

	s, err := NewScheduler("*/5 * * * *", runner, nil)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	if s.NextRun() != nil {
		t.Error("expected no next run before Start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("expected error on second Start")
	}

	next := s.NextRun()
	if next == nil {
		t.Fatal("expected a next run time")
	}
	if next.Minute()%5 != 0 {
		t.Errorf("next run %v is not on a 5 minute boundary", next)
	}

	s.Stop()
	s.Stop()
}

func TestFileWatcher_ShouldProcessEvent(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	file := filepath.Join(other, "single.db")
	writeFile(t, file)

	fw, err := NewFileWatcher(&FileWatcherConfig{
		Paths:      []string{dir, file},
		Extensions: []string{".jsonl", ".db"},
		SkipHidden: true,
	}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer fw.Stop()

	for _, p := range fw.config.Paths {
		if err := fw.addPath(p); err != nil {
			t.Fatalf("addPath(%s): %v", p, err)
		}
	}

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"matching extension", filepath.Join(dir, "a.jsonl"), fsnotify.Write, true},
		{"upper case extension", filepath.Join(dir, "A.JSONL"), fsnotify.Create, true},
		{"other extension", filepath.Join(dir, "notes.md"), fsnotify.Write, false},
		{"hidden", filepath.Join(dir, ".a.jsonl"), fsnotify.Write, false},
		{"underscore", filepath.Join(dir, "_a.jsonl"), fsnotify.Write, false},
		{"chmod only", filepath.Join(dir, "a.jsonl"), fsnotify.Chmod, false},
		{"listed file", file, fsnotify.Rename, true},
		{"sibling of listed file", filepath.Join(other, "sibling.db"), fsnotify.Write, false},
		{"nested directory", filepath.Join(dir, "sub", "a.jsonl"), fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fw.shouldProcessEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			if got != tt.want {
				t.Errorf("shouldProcessEvent(%s, %s) = %v, want %v", tt.path, tt.op, got, tt.want)
			}
		})
	}
}

func TestFileWatcher_Watch(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher(&FileWatcherConfig{
		Paths:      []string{dir},
		Debounce:   20 * time.Millisecond,
		Extensions: []string{".jsonl"},
	}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- fw.Watch(ctx, func(path string) { changed <- path })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "ignored.txt"))
	writeFile(t, filepath.Join(dir, "run.jsonl"))

	select {
	case path := <-changed:
		if filepath.Base(path) != "run.jsonl" {
			t.Errorf("unexpected changed path %s", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	if err := fw.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

func TestNewFileWatcher_NoPaths(t *testing.T) {
	if _, err := NewFileWatcher(&FileWatcherConfig{}, nil); err == nil {
		t.Error("expected error for empty path list")
	}
	if _, err := NewFileWatcher(nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
