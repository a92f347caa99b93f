package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce drops repeat events for one file; editors often write twice.
const debounce = 100 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watcher reports changed spec names (e.g. "player.yaml") on Events. The
// game drains it between frames, so reloads never race the simulation.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan string
	Errors chan error

	seen    map[string]time.Time
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fsw,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		seen:    make(map[string]time.Time),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.stopped
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Drain returns every pending spec name without blocking, deduplicated.
func (w *Watcher) Drain() []string {
	var names []string
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return names
			}
			dup := false
			for _, n := range names {
				dup = dup || n == name
			}
			if !dup {
				names = append(names, name)
			}
		default:
			return names
		}
	}
}

func (w *Watcher) loop() {
	defer close(w.stopped)
	for {
		select {
		case <-w.stop:
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			name, ok := w.accept(ev, time.Now())
			if !ok {
				continue
			}
			select {
			case w.Events <- name:
			case <-w.stop:
				return
			}
		}
	}
}

// accept filters ev down to spec files and applies the debounce.
func (w *Watcher) accept(ev fsnotify.Event, now time.Time) (string, bool) {
	if ev.Op&relevantOps == 0 {
		return "", false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml":
	default:
		return "", false
	}
	if at, ok := w.seen[ev.Name]; ok && now.Sub(at) < debounce {
		return "", false
	}
	w.seen[ev.Name] = now
	return Name(ev.Name), true
}
