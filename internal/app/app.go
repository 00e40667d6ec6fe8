package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/docstore"
	"github.com/atomicstack/listy-city/internal/logging"
	"github.com/atomicstack/listy-city/internal/logging/events"
	"github.com/atomicstack/listy-city/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Backends lists every supported backend.
var Backends = []string{BackendMemory, BackendSQLite, BackendPostgres, BackendFirestore}

// Config describes user-provided application options.
type Config struct {
	Backend          string
	Collection       string
	SQLitePath       string
	SQLitePoll       time.Duration
	PostgresDSN      string
	FirestoreProject string
	Width            int
	Height           int
	ShowFooter       bool
	Verbose          bool
	SeedDemo         bool
	CellWidthPx      int
	CellHeightPx     int
}

// Run opens the configured store and executes the Bubble Tea program until
// the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Failure("close store", err)
		}
	}()
	events.Store.Open(cfg.Backend, cfg.Collection)
	if cfg.SeedDemo {
		written, err := SeedDemo(ctx, store, cfg.Collection)
		if err != nil {
			return fmt.Errorf("seed demo cities: %w", err)
		}
		events.Store.Seed(cfg.Collection, written)
	}

	watcher := backend.NewWatcher(store, cfg.Collection)
	model := ui.NewModel(ui.Options{
		Collection:   cfg.Collection,
		Store:        store,
		Watcher:      watcher,
		Width:        cfg.Width,
		Height:       cfg.Height,
		ShowFooter:   cfg.ShowFooter,
		Verbose:      cfg.Verbose,
		CellWidthPx:  cfg.CellWidthPx,
		CellHeightPx: cfg.CellHeightPx,
	})
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	_, err = program.Run()
	watcher.Stop()
	// the store must outlive the subscription goroutines
	watcher.Wait()
	switch {
	case errors.Is(err, tea.ErrProgramKilled):
		events.App.Stop("killed")
		return nil
	case err != nil:
		return fmt.Errorf("run program: %w", err)
	}
	events.App.Stop("quit")
	return nil
}

// OpenStore connects to the backend named in cfg.
func OpenStore(ctx context.Context, cfg Config) (docstore.Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		mem := docstore.NewMemory()
		mem.Seed(cfg.Collection, DemoDocuments()...)
		return mem, nil
	case BackendSQLite:
		store, err := docstore.OpenSQLite(cfg.SQLitePath, cfg.SQLitePoll)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case BackendPostgres:
		store, err := docstore.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	case BackendFirestore:
		store, err := docstore.OpenFirestore(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, fmt.Errorf("open firestore store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
