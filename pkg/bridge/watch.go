package bridge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// reloadDebounce is how long the manifest directory must stay quiet before a
// reload runs. Editors save in bursts of create, write and chmod events.
const reloadDebounce = 100 * time.Millisecond

// WatchManifests reloads the engine's registry whenever a manifest file under
// dir changes, then tells connected editors with a manifests/reloaded
// notification. The reloaded set is the built-in core types with the site
// directory layered on top. Watching stops when ctx is cancelled.
func (s *Server) WatchManifests(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("bridge: start manifest watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("bridge: watch %s: %w", dir, err)
	}
	go s.watchManifests(ctx, watcher, dir)
	return nil
}

func (s *Server) watchManifests(ctx context.Context, watcher *fsnotify.Watcher, dir string) {
	defer watcher.Close()

	reload := time.NewTimer(reloadDebounce)
	if !reload.Stop() {
		<-reload.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !manifestEvent(ev) {
				continue
			}
			reload.Reset(reloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("manifest watcher error", "dir", dir, "error", err)
		case <-reload.C:
			s.reloadManifests(dir)
		}
	}
}

func manifestEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(ev.Name), ".json")
}

func (s *Server) reloadManifests(dir string) {
	site, err := manifest.LoadDir(dir)
	if err != nil {
		// Keep serving the registry we have; a half-written file will
		// trigger another event once the save finishes.
		s.log.Error("manifest reload failed", "dir", dir, "error", err)
		return
	}

	s.engine.Registry().Reload(append(manifest.CoreManifests(), site...))
	s.log.Info("manifests reloaded", "dir", dir, "site", len(site))
	s.broadcast(RPCNotification{Method: "manifests/reloaded"})
}
