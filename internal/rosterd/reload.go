package rosterd

import (
	"context"

	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/pubsub"
	"github.com/zjrosen/rosterboard/internal/watcher"
)

// WatchSeed replaces the store's activities whenever the seed file at path
// changes, until ctx is done. A seed that fails to parse is logged and
// leaves the store as it was. The returned function stops the watcher.
func WatchSeed(ctx context.Context, store Store, path string) (func() error, error) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	events := w.Subscribe(ctx)
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return nil, err
	}

	go func() {
		for ev := range events {
			if ev.Type != pubsub.ChangedEvent {
				continue
			}
			reloadSeed(ctx, store, ev.Payload)
		}
	}()
	return w.Stop, nil
}

func reloadSeed(ctx context.Context, store Store, path string) {
	entries, err := LoadSeed(path)
	if err != nil {
		log.ErrorErr(log.CatServer, "Ignoring invalid seed file", err, "path", path)
		return
	}
	if err := store.Replace(ctx, entries); err != nil {
		log.ErrorErr(log.CatServer, "Failed to apply seed file", err, "path", path)
		return
	}
	log.Info(log.CatServer, "Reloaded seed file", "path", path, "activities", len(entries))
}
