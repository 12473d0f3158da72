package config

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/wayneeseguin/sgcore/internal/log"
)

// FileWatcher watches the configuration file for changes and triggers
// reloads. Registries (node classes, action classes, element classes) are
// populated once at init() and are not part of the configuration, so a
// reload never touches dispatch. Each reload goes through Manager.Load and
// replaces the whole configuration; only the changes ChangeDetector tracks
// below (Kernel.StrictMode, Logging.Level, Features) are logged.
type FileWatcher struct {
	manager     *Manager
	watchedPath string
	lastModTime time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	interval    time.Duration
	logger      Logger
}

// Logger is the interface FileWatcher logs through.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// DefaultLogger implements Logger through internal/log, matching the
// leveled, ansi-colored logging used everywhere else in this tree.
type DefaultLogger struct{}

func (l DefaultLogger) Infof(format string, args ...interface{}) {
	log.PrintfStdErr("[INFO] "+format+"\n", args...)
}

func (l DefaultLogger) Errorf(format string, args ...interface{}) {
	log.PrintfStdErr("[ERROR] "+format+"\n", args...)
}

func (l DefaultLogger) Debugf(format string, args ...interface{}) {
	log.DEBUG(format, args...)
}

// NewFileWatcher creates a new file watcher polling every 2 seconds by
// default; call SetInterval to change that.
func NewFileWatcher(manager *Manager, logger Logger) *FileWatcher {
	if logger == nil {
		logger = DefaultLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FileWatcher{
		manager:  manager,
		ctx:      ctx,
		cancel:   cancel,
		interval: 2 * time.Second,
		logger:   logger,
	}
}

// Watch starts watching configPath for modifications.
func (fw *FileWatcher) Watch(configPath string) error {
	expandedPath, err := expandPath(configPath)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	stat, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}

	fw.watchedPath = expandedPath
	fw.lastModTime = stat.ModTime()

	fw.logger.Infof("Starting to watch config file: %s", expandedPath)

	fw.wg.Add(1)
	go fw.watchLoop()

	return nil
}

// Stop stops watching and blocks until the watch loop has exited.
func (fw *FileWatcher) Stop() {
	fw.logger.Infof("Stopping config file watcher")
	fw.cancel()
	fw.wg.Wait()
}

// SetInterval sets the polling interval for file changes.
func (fw *FileWatcher) SetInterval(interval time.Duration) {
	fw.interval = interval
}

func (fw *FileWatcher) watchLoop() {
	defer fw.wg.Done()

	ticker := time.NewTicker(fw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			fw.logger.Debugf("Config watcher stopped")
			return

		case <-ticker.C:
			if err := fw.checkForChanges(); err != nil {
				fw.logger.Errorf("Error checking for config changes: %v", err)
			}
		}
	}
}

func (fw *FileWatcher) checkForChanges() error {
	stat, err := os.Stat(fw.watchedPath)
	if err != nil {
		if os.IsNotExist(err) {
			fw.logger.Errorf("Config file no longer exists: %s", fw.watchedPath)
			return nil
		}
		return err
	}

	modTime := stat.ModTime()
	if modTime.After(fw.lastModTime) {
		fw.logger.Infof("Config file changed, reloading: %s", fw.watchedPath)

		if err := fw.reloadConfig(); err != nil {
			fw.logger.Errorf("Failed to reload config: %v", err)
			return err
		}

		fw.lastModTime = modTime
		fw.logger.Infof("Config reloaded successfully")
	}

	return nil
}

func (fw *FileWatcher) reloadConfig() error {
	before := fw.manager.Get()

	if err := fw.manager.Load(fw.watchedPath); err != nil {
		fw.logger.Errorf("Failed to load new config, keeping current: %v", err)
		return err
	}

	after := fw.manager.Get()
	for _, ev := range NewChangeDetector(before, after).DetectChanges() {
		fw.logger.Infof("config changed: %s %v -> %v", ev.Path, ev.OldValue, ev.NewValue)
	}

	fw.logger.Infof("Config hot-reload completed successfully")
	return nil
}

// ConfigChangeEvent represents a configuration change event.
type ConfigChangeEvent struct {
	Type     ChangeType
	Path     string
	OldValue interface{}
	NewValue interface{}
	Time     time.Time
}

// ChangeType represents the type of configuration change.
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "add"
	ChangeTypeModify ChangeType = "modify"
	ChangeTypeDelete ChangeType = "delete"
)

// ChangeDetector detects changes between configurations, restricted to the
// fields that are safe to hot-reload mid-process.
type ChangeDetector struct {
	oldConfig *Config
	newConfig *Config
}

// NewChangeDetector creates a new change detector.
func NewChangeDetector(oldConfig, newConfig *Config) *ChangeDetector {
	return &ChangeDetector{
		oldConfig: oldConfig,
		newConfig: newConfig,
	}
}

// DetectChanges reports what changed between the two configurations.
func (cd *ChangeDetector) DetectChanges() []ConfigChangeEvent {
	var events []ConfigChangeEvent
	now := time.Now()

	if cd.oldConfig.Kernel.StrictMode != cd.newConfig.Kernel.StrictMode {
		events = append(events, ConfigChangeEvent{
			Type:     ChangeTypeModify,
			Path:     "kernel.strict_mode",
			OldValue: cd.oldConfig.Kernel.StrictMode,
			NewValue: cd.newConfig.Kernel.StrictMode,
			Time:     now,
		})
	}

	if cd.oldConfig.Logging.Level != cd.newConfig.Logging.Level {
		events = append(events, ConfigChangeEvent{
			Type:     ChangeTypeModify,
			Path:     "logging.level",
			OldValue: cd.oldConfig.Logging.Level,
			NewValue: cd.newConfig.Logging.Level,
			Time:     now,
		})
	}

	for featureName, newValue := range cd.newConfig.Features {
		if oldValue, exists := cd.oldConfig.Features[featureName]; exists {
			if oldValue != newValue {
				events = append(events, ConfigChangeEvent{
					Type:     ChangeTypeModify,
					Path:     fmt.Sprintf("features.%s", featureName),
					OldValue: oldValue,
					NewValue: newValue,
					Time:     now,
				})
			}
		} else {
			events = append(events, ConfigChangeEvent{
				Type:     ChangeTypeAdd,
				Path:     fmt.Sprintf("features.%s", featureName),
				NewValue: newValue,
				Time:     now,
			})
		}
	}

	for featureName, oldValue := range cd.oldConfig.Features {
		if _, exists := cd.newConfig.Features[featureName]; !exists {
			events = append(events, ConfigChangeEvent{
				Type:     ChangeTypeDelete,
				Path:     fmt.Sprintf("features.%s", featureName),
				OldValue: oldValue,
				Time:     now,
			})
		}
	}

	return events
}
