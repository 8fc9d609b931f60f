// Package app wires configuration, logging, migration, store, repositories
// and the preview cache into one process-wide instance.
package app

import (
	"fmt"

	"github.com/tkoster/linkmark/internal/config"
	"github.com/tkoster/linkmark/internal/logger"
	"github.com/tkoster/linkmark/internal/notify"
	"github.com/tkoster/linkmark/internal/preview"
	"github.com/tkoster/linkmark/internal/repo"
	"github.com/tkoster/linkmark/internal/store"
)

// App is the composition root. One instance is created at startup and
// passed to callers explicitly; there are no ambient singletons.
type App struct {
	Config    *config.Config
	Log       logger.Logger
	Store     *store.Store
	Bookmarks *repo.Bookmarks
	Folders   *repo.Folders
	Previews  *preview.Cache
	Notifier  *notify.Notifier
}

// New builds the app: config, logger, store relocation, load, reconcile,
// repositories, preview cache, reload notifier. The store relocation and
// the reconciler run before any repository becomes usable.
func New(configPath string) (*App, error) {
	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	storePath := store.Relocate(cfg.LegacyStorePath(), cfg.StorePath(), log)
	st, err := store.Open(storePath, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.Load(); err != nil {
		st.Close()
		return nil, fmt.Errorf("load store: %w", err)
	}
	if _, err := st.Reconcile(); err != nil {
		log.Error("reconcile failed", logger.Error(err))
	}

	fetcher := preview.NewFetcher(cfg.FetchTimeout(), log)
	previews, err := preview.NewCache(cfg.PreviewDir(), fetcher, log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open preview cache: %w", err)
	}
	previews.SweepLegacy(cfg.LegacyPreviewDir())

	notifier := notify.NewNotifier(cfg.ReloadMarkerPath(), log)

	bookmarks := repo.NewBookmarks(repo.BookmarksParams{
		Store:        st,
		Fetcher:      fetcher,
		Previews:     previews,
		Notifier:     notifier,
		Log:          log,
		FetchTimeout: cfg.FetchTimeout(),
	})
	folders := repo.NewFolders(repo.FoldersParams{
		Store:    st,
		Notifier: notifier,
		Log:      log,
	})

	return &App{
		Config:    cfg,
		Log:       log,
		Store:     st,
		Bookmarks: bookmarks,
		Folders:   folders,
		Previews:  previews,
		Notifier:  notifier,
	}, nil
}

// Close flushes pending state and releases the store.
func (a *App) Close() error {
	if err := a.Store.Save(); err != nil {
		a.Log.Error("final save failed", logger.Error(err))
	}
	_ = a.Log.Sync()
	return a.Store.Close()
}
