package wilt

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher keeps a Config in sync with its file on disk. Whenever the file is written or replaced, it's
// reparsed; a good parse replaces the current Config and is passed to OnChange, while a bad one is logged and
// the previous Config kept.
type ConfigWatcher struct {
	Path     string
	OnChange func(cfg Config) // Called from the watcher's goroutine

	watcher *fsnotify.Watcher
	mu      sync.RWMutex
	current Config
	done    chan struct{}
	once    sync.Once
}

// WatchConfig loads the config file at path and starts watching it for changes. The file must parse on the first
// load.
func WatchConfig(path string, onChange func(cfg Config)) (*ConfigWatcher, error) {

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory rather than the file, as editors often save by replacing the file.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		Path:     filepath.Clean(path),
		OnChange: onChange,
		watcher:  w,
		current:  cfg,
		done:     make(chan struct{}),
	}

	go cw.watch()

	return cw, nil

}

func (cw *ConfigWatcher) watch() {

	defer close(cw.done)

	for {
		select {

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.Path {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create:
				cw.reload()
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			Logger().Warn("config watcher error", "path", cw.Path, "error", err)

		}
	}

}

func (cw *ConfigWatcher) reload() {

	cfg, err := LoadConfig(cw.Path)
	if err != nil {
		Logger().Warn("config reload failed; keeping previous config", "path", cw.Path, "error", err)
		return
	}

	cw.mu.Lock()
	cw.current = cfg
	cw.mu.Unlock()

	Logger().Info("config reloaded", "path", cw.Path)

	if cw.OnChange != nil {
		cw.OnChange(cfg)
	}

}

// Config returns the most recently loaded Config.
func (cw *ConfigWatcher) Config() Config {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.current
}

// Close stops watching the file. It's safe to call more than once.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		err = cw.watcher.Close()
		<-cw.done
	})
	return err
}
