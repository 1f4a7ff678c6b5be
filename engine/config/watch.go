package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-gallery/engine/core"
)

// reloads closer together than this collapse into one
const debounce = 100 * time.Millisecond

// Watch reloads the file at path whenever it is written or recreated and
// hands each valid result to onChange. Invalid files are logged and the
// previous configuration stays in effect. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target, err := filepath.Abs(path)
	if err != nil {
		fsWatch.Close()
		return err
	}
	// editors replace files by rename, so watch the directory
	if err := fsWatch.Add(filepath.Dir(target)); err != nil {
		fsWatch.Close()
		return err
	}

	go func() {
		defer fsWatch.Close()

		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case e, ok := <-fsWatch.Events:
				if !ok {
					return
				}
				name, err := filepath.Abs(e.Name)
				if err != nil || name != target {
					continue
				}
				if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					timer.Reset(debounce)
				}

			case <-timer.C:
				cfg, err := Load(target)
				if err != nil {
					core.LogError("config reload failed, keeping previous: %v", err)
					continue
				}
				core.LogInfo("config reloaded from %s", target)
				onChange(cfg)

			case err, ok := <-fsWatch.Errors:
				if !ok {
					return
				}
				core.LogError("%s", err.Error())

			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
