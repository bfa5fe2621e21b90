package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"excel-comparator/core/config"
	"excel-comparator/core/database"
	"excel-comparator/core/logger"
	"excel-comparator/core/source"
	"excel-comparator/core/storage"
	"excel-comparator/core/table"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles what the commands share. The database and the storage client
// are opened on first use.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	loader *source.Loader

	db    *gorm.DB
	store storage.Client
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &app{cfg: cfg, logger: logg, loader: source.NewLoader(logg)}, nil
}

func (a *app) database() (*gorm.DB, error) {
	if a.db == nil {
		db, err := database.Connect(a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		a.db = db
	}
	return a.db, nil
}

func (a *app) storage() (storage.Client, error) {
	if a.store == nil {
		client, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.store = client
	}
	return a.store, nil
}

// profile loads the named source profile from its query or its file.
func (a *app) profile(ctx context.Context, name string) (*table.Table, error) {
	p, err := a.cfg.Profile(name)
	if err != nil {
		return nil, err
	}
	if !p.IsSet() {
		return nil, fmt.Errorf("profile %s has no excelpath or query configured", name)
	}

	if p.Query != "" {
		db, err := a.database()
		if err != nil {
			return nil, err
		}
		done := logger.Track(a.logger, "Query profile", zap.String("profile", name))
		t, err := database.LoadTable(ctx, db, name, p.Query)
		if err != nil {
			return nil, err
		}
		done(zap.Int("rows", t.Len()))
		return t, nil
	}

	opts := p.Options(a.cfg.Files.Directory)
	if err := a.fetch(ctx, p.ExcelPath, opts.Path); err != nil {
		return nil, err
	}
	return a.loader.Load(ctx, opts)
}

// file loads a table from a local path, fetching it first in remote mode.
func (a *app) file(ctx context.Context, path string) (*table.Table, error) {
	if err := a.fetch(ctx, filepath.Base(path), path); err != nil {
		return nil, err
	}
	return a.loader.Load(ctx, source.Options{Path: path})
}

// fetch downloads name from the files prefix to dest when running remote.
func (a *app) fetch(ctx context.Context, name, dest string) error {
	if !a.cfg.Files.Remote {
		return nil
	}
	client, err := a.storage()
	if err != nil {
		return err
	}
	object := storage.ObjectName(a.cfg.Files.Prefix, name)
	fetched, err := storage.Fetch(ctx, client, a.cfg.Storage.Bucket, object, dest)
	if err != nil {
		return err
	}
	if fetched {
		a.logger.Info("Fetched remote source file", zap.String("object", object), zap.String("file", dest))
	}
	return nil
}

// profilePaths returns the local spreadsheet paths of every configured file profile.
func (a *app) profilePaths() []string {
	var paths []string
	for _, name := range config.ProfileNames {
		p, _ := a.cfg.Profile(name)
		if p.ExcelPath != "" {
			paths = append(paths, p.Options(a.cfg.Files.Directory).Path)
		}
	}
	return paths
}
