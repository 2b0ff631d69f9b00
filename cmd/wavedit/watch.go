package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ha1tch/wavecurve/pkg/config"
)

// watchConfig reloads the settings file whenever it is written or
// replaced and hands each successfully loaded config to apply. The
// directory is watched so editors that save by rename are seen too.
// The returned func stops the watcher.
func watchConfig(path string, log *slog.Logger, apply func(*config.Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Load(path)
				if err != nil {
					log.Warn("settings reload failed", "path", path, "err", err)
					continue
				}
				log.Debug("settings reloaded", "path", path)
				apply(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("settings watcher error", "err", err)
			}
		}
	}()

	return func() {
		watcher.Close()
		<-done
	}, nil
}
