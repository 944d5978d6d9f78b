package config

import (
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file is written,
// invoking onReload after each successful reload. It blocks until stop is
// closed or the watcher fails.
func Watch(stop <-chan struct{}, onReload func(*Config)) error {
	cfg := Get()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.ConfigFilePath()); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", cfg.ConfigFilePath(), err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if err := Reload(); err != nil {
					log.Printf("config: reload failed: %v", err)
					continue
				}
				if onReload != nil {
					onReload(Get())
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config: watcher error: %v", err)
		case <-stop:
			return nil
		}
	}
}
