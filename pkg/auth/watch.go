package auth

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/heyjunin/maaw/pkg/errors"
	"github.com/heyjunin/maaw/pkg/logger"
)

const defaultReloadDebounce = 100 * time.Millisecond

// Watch reloads the roster whenever its file changes until ctx ends. The
// parent directory is watched so that editors replacing the file by rename
// are noticed. onReload, when set, is called after every reload attempt.
func (r *Roster) Watch(ctx context.Context, onReload func(error)) error {
	if r.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapCode(err, errors.SystemError, errors.ErrWatchFailed)
	}

	target, err := filepath.Abs(r.path)
	if err != nil {
		watcher.Close()
		return errors.WrapCode(err, errors.SystemError, errors.ErrWatchFailed)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return errors.WrapCode(err, errors.SystemError, errors.ErrWatchFailed)
	}

	go func() {
		defer watcher.Close()
		var debounce *time.Timer
		reload := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if debounce == nil {
					debounce = time.AfterFunc(defaultReloadDebounce, func() {
						select {
						case reload <- struct{}{}:
						default:
						}
					})
				} else {
					debounce.Reset(defaultReloadDebounce)
				}
			case <-reload:
				err := r.Reload()
				if err != nil {
					logger.Warn("Roster reload failed", "auth", map[string]interface{}{
						"path":  r.path,
						"error": err.Error(),
					})
				} else {
					logger.Info("Roster reloaded", "auth", map[string]interface{}{
						"path":    r.path,
						"members": len(r.Members()),
					})
				}
				if onReload != nil {
					onReload(err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Roster watcher error", "auth", map[string]interface{}{
					"path":  r.path,
					"error": err.Error(),
				})
			}
		}
	}()
	return nil
}
