package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/channel"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Holder provides thread-safe access to the configuration and the
// channel credentials, with hot reload for both files.
type Holder struct {
	mu        sync.RWMutex
	config    *Config
	channels  []channel.Channel
	path      string // absolute config file path, "" when env-only
	credsPath string
	logger    zerolog.Logger
	watcher   *fsnotify.Watcher
	onChange  []func(*Config)
	onError   []func(error)
	stopCh    chan struct{}
}

// NewHolder loads the initial configuration and credentials. A missing
// config file falls back to environment variables; a missing or broken
// credentials file leaves the channel list empty.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := LoadWithFallback(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath := ""
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if absPath, err = filepath.Abs(path); err != nil {
				return nil, fmt.Errorf("absolute path: %w", err)
			}
		}
	}

	credsPath, err := filepath.Abs(cfg.Credentials.Path)
	if err != nil {
		return nil, fmt.Errorf("absolute credentials path: %w", err)
	}

	h := &Holder{
		config:    cfg,
		path:      absPath,
		credsPath: credsPath,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}

	chs, err := LoadCredentials(credsPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", credsPath).Msg("credentials unavailable, starting with no channels")
	}
	h.channels = chs

	return h, nil
}

// Get returns the current configuration (thread-safe).
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// Channels returns the current channel list (thread-safe copy).
func (h *Holder) Channels() []channel.Channel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]channel.Channel, len(h.channels))
	copy(out, h.channels)
	return out
}

// Reload reloads the configuration and credentials from disk.
// Returns error if config loading fails (keeps the old config).
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading configuration")

	newCfg, err := LoadWithFallback(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
		h.notifyError(err)
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.config
	h.config = newCfg
	h.mu.Unlock()

	h.logChanges(oldCfg, newCfg)

	if err := h.ReloadCredentials(); err != nil {
		h.logger.Warn().Err(err).Msg("credentials reload failed, keeping old channel list")
	}

	for _, fn := range h.onChange {
		fn(newCfg)
	}

	h.logger.Info().Msg("configuration reloaded successfully")
	return nil
}

// ReloadCredentials reloads only the credentials file.
// Returns error if loading fails (keeps the old channel list).
func (h *Holder) ReloadCredentials() error {
	chs, err := LoadCredentials(h.credsPath)
	if err != nil {
		h.notifyError(err)
		return err
	}

	h.mu.Lock()
	old := len(h.channels)
	h.channels = chs
	h.mu.Unlock()

	if old != len(chs) {
		h.logger.Info().Int("old", old).Int("new", len(chs)).Msg("channel count changed")
	}
	return nil
}

// OnChange registers a callback invoked after a successful reload.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnError registers a callback invoked when a reload fails.
func (h *Holder) OnError(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = append(h.onError, fn)
}

func (h *Holder) notifyError(err error) {
	h.mu.RLock()
	fns := h.onError
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(err)
	}
}

// WatchFiles starts watching the config and credentials files.
// Changes trigger automatic reload.
func (h *Holder) WatchFiles() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directories (more reliable for editors that do atomic saves)
	dirs := map[string]bool{filepath.Dir(h.credsPath): true}
	if h.path != "" {
		dirs[filepath.Dir(h.path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch directory: %w", err)
		}
	}

	go h.watchLoop()

	h.logger.Info().
		Str("config", h.path).
		Str("credentials", h.credsPath).
		Msg("watching files for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading config")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()
}

// Stop stops watching for file changes and signals.
func (h *Holder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

func (h *Holder) watchLoop() {
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			switch {
			case h.path != "" && filepath.Base(event.Name) == filepath.Base(h.path):
				h.logger.Debug().Str("file", event.Name).Msg("config file changed")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			case filepath.Base(event.Name) == filepath.Base(h.credsPath):
				h.logger.Debug().Str("file", event.Name).Msg("credentials file changed")
				if err := h.ReloadCredentials(); err != nil {
					h.logger.Error().Err(err).Msg("credentials watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) logChanges(old, new *Config) {
	if old.Logging.Level != new.Logging.Level {
		h.logger.Info().
			Str("old", old.Logging.Level).
			Str("new", new.Logging.Level).
			Msg("log level changed")
	}

	if old.Quota.DailyLimit != new.Quota.DailyLimit {
		h.logger.Info().
			Int64("old", old.Quota.DailyLimit).
			Int64("new", new.Quota.DailyLimit).
			Msg("daily limit changed")
	}

	if old.Fetch.Delay != new.Fetch.Delay {
		h.logger.Info().
			Stringer("old", old.Fetch.Delay).
			Stringer("new", new.Fetch.Delay).
			Msg("fetch delay changed")
	}
}

// ReloadableFields returns which fields can be changed without restart.
func ReloadableFields() []string {
	return []string{
		"quota.daily_limit",
		"quota.thresholds",
		"fetch.delay",
		"logging.level",
		"credentials file contents",
	}
}

// NonReloadableFields returns which fields require a restart.
func NonReloadableFields() []string {
	return []string{
		"server.host",
		"server.port",
		"upstream.base_url",
		"quota.ledger_path",
		"database.path",
	}
}
