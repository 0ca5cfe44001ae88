package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TriggerChange names runs started by a file change.
const TriggerChange = "change"

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// FileWatcherConfig contains configuration for the file watcher.
type FileWatcherConfig struct {
	// Paths are the files or directories to watch. Directories are watched
	// one level deep, matching input discovery.
	Paths []string

	// Debounce is the quiet period after the last event before the
	// callback runs.
	Debounce time.Duration

	// Extensions limits events in watched directories to these file
	// extensions. Explicitly listed files always match.
	Extensions []string

	// SkipHidden ignores names starting with "." or "_".
	SkipHidden bool
}

// FileWatcher watches input files for changes and calls back after a
// debounce period.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *FileWatcherConfig
	debounce *Debouncer

	// files holds explicitly listed files; their parent directories are
	// watched so that atomic replaces are seen.
	files map[string]bool
	// dirs holds explicitly listed directories.
	dirs map[string]bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(config *FileWatcherConfig, logger *slog.Logger) (*FileWatcher, error) {
	if config == nil || len(config.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "watch.files"),
		config:   config,
		debounce: NewDebouncer(config.Debounce),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch watches for changes and calls onChange with the last changed path
// once events settle. It blocks until ctx is cancelled or Stop is called.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(path string)) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer close(fw.doneCh)

	for _, path := range fw.config.Paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	fw.logger.Info("file watcher started",
		"paths", fw.config.Paths,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.logger.Debug("file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			name := event.Name
			fw.debounce.Trigger(func() {
				onChange(name)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the file watcher and releases its resources. It is safe to
// call whether or not Watch is running.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.running = false
	fw.mu.Unlock()

	if running {
		select {
		case <-fw.stopCh:
		default:
			close(fw.stopCh)
		}
		<-fw.doneCh
	}

	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) addPath(path string) error {
	clean := filepath.Clean(path)

	info, err := os.Stat(clean)
	if err != nil {
		return err
	}

	if info.IsDir() {
		fw.dirs[clean] = true
		return fw.watcher.Add(clean)
	}

	fw.files[clean] = true
	return fw.watcher.Add(filepath.Dir(clean))
}

// shouldProcessEvent determines if an event should trigger a callback.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Clean(event.Name)
	if fw.files[name] {
		return true
	}
	if !fw.dirs[filepath.Dir(name)] {
		return false
	}

	base := filepath.Base(name)
	if fw.config.SkipHidden && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")) {
		return false
	}

	return fw.hasValidExtension(strings.ToLower(filepath.Ext(base)))
}

func (fw *FileWatcher) hasValidExtension(ext string) bool {
	if len(fw.config.Extensions) == 0 {
		return true
	}
	for _, validExt := range fw.config.Extensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}
