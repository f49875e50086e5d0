package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/watch"
	"github.com/huangsam/crewcast/schema"
)

// ExecuteWatch prints the daily forecast once and again after every change of
// its inputs, until ctx ends. File sources are watched on disk and PostgreSQL
// sources through LISTEN on cfg.NotifyChannel. Every refresh is anchored to
// the current time.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	notifiers, err := watchNotifiers(cfg)
	if err != nil {
		return err
	}

	refresh := func(reason string) {
		if !shouldSuppressHeader(ctx) {
			fmt.Fprintf(os.Stderr, "Refreshing forecast (%s)\n", reason)
		}
		runCfg, err := cfg.At(time.Now())
		if err != nil {
			contract.LogWarn("Forecast refresh failed", err)
			return
		}
		if err := ExecuteDaily(ctx, runCfg, mgr); err != nil {
			contract.LogWarn("Forecast refresh failed", err)
		}
	}

	refresh("startup")
	return watch.Run(ctx, cfg.Debounce, refresh, notifiers...)
}

// watchNotifiers picks a notifier for every configured source.
func watchNotifiers(cfg *contract.Config) ([]watch.Notifier, error) {
	var notifiers []watch.Notifier
	var files []string
	listening := false
	for _, src := range []contract.SourceConfig{cfg.Events, cfg.Tasks} {
		if src.Path == "" {
			continue
		}
		if src.Format != schema.SQLSource {
			files = append(files, src.Path)
			continue
		}
		if src.Backend == schema.PostgreSQLBackend && !listening {
			notifiers = append(notifiers, watch.NewPGListener(src.DBConnect, cfg.NotifyChannel))
			listening = true
		}
	}
	if len(files) > 0 {
		notifiers = append(notifiers, watch.NewFileWatcher(files...))
	}
	if len(notifiers) == 0 {
		return nil, fmt.Errorf("%w: use a file source or a postgresql source", watch.ErrNoNotifiers)
	}
	return notifiers, nil
}
