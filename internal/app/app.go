// Package app wires configuration into a ready Factory and Service for the
// spelld binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sagerenn/spelld/internal/backend/platform"
	"github.com/sagerenn/spelld/internal/config"
	"github.com/sagerenn/spelld/internal/detect"
	"github.com/sagerenn/spelld/internal/locator"
	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/service"
	"github.com/sagerenn/spelld/internal/spellcheck"
	"github.com/sagerenn/spelld/internal/userdict/filesync"
	"github.com/sagerenn/spelld/internal/userdict/sqlitestore"
)

type App struct {
	Factory *spellcheck.Factory
	Service *service.Service

	closers []func() error
}

// Build assembles the Factory described by cfg. Bundle files that cannot be
// read are logged and skipped.
func Build(ctx context.Context, cfg config.Config, log *observability.Logger) (*App, error) {
	log = log.OrDiscard()
	if cfg.Dictionaries.DownloadBase != "" {
		locator.SetBaseURL(cfg.Dictionaries.DownloadBase)
	}

	ctor := platform.NewConstructor(platform.Options{
		DictDirs:       []string{locator.New(cfg.Dictionaries.Dir, cfg.Dictionaries.ArchiveSuffixes...).ResolveDictionaryDirectory()},
		SystemDirs:     cfg.Dictionaries.SystemDirs,
		PreferHunspell: cfg.Dictionaries.PreferHunspell,
	})
	opts := []spellcheck.Option{
		spellcheck.WithDictionaryDir(cfg.Dictionaries.Dir, cfg.Dictionaries.ArchiveSuffixes...),
		spellcheck.WithUserDictionaryDir(cfg.UserDictionary.Dir),
		spellcheck.WithBootstrapWord(cfg.UserDictionary.BootstrapWord),
		spellcheck.WithLogger(log.With("component", "spellcheck")),
	}
	if !cfg.Detection.Disabled {
		opts = append(opts, spellcheck.WithDetector(detect.Whatlang{}))
	}
	if cfg.Platform != "" {
		opts = append(opts, spellcheck.WithPlatform(cfg.Platform))
	}
	f := spellcheck.New(ctor, opts...)
	a := &App{Factory: f}

	for _, b := range cfg.Dictionaries.Bundles {
		data, err := os.ReadFile(b.Path)
		if err != nil {
			log.Error("dictionary bundle load error", "tag", b.Tag, "error", err)
			continue
		}
		f.SetDictionaryData(b.Tag, data)
	}

	switch cfg.UserDictionary.Provider {
	case "sqlite":
		p, err := sqlitestore.Open(cfg.UserDictionary.SQLite)
		if err != nil {
			return nil, fmt.Errorf("user dictionary: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		f.SetUserDictProvider(ctx, p)
	case "watch":
		path := cfg.UserDictionary.WatchFile
		if path == "" {
			path = f.UserDictionary().FilePath()
		}
		p := filesync.New(path, log.With("component", "filesync"))
		if err := p.Start(); err != nil {
			return nil, fmt.Errorf("user dictionary: %w", err)
		}
		a.closers = append(a.closers, p.Stop)
		f.SetUserDictProvider(ctx, p)
	}

	a.Service = service.New(f, service.Options{
		CacheSize:       cfg.Suggest.CacheSize,
		CacheTTL:        cfg.Suggest.CacheTTL,
		DetectWhitelist: cfg.Detection.Whitelist,
		Log:             log.With("component", "service"),
	})
	return a, nil
}

// Close detaches providers and waits for pending user dictionary writes.
func (a *App) Close() error {
	a.Factory.SetUserDictProvider(context.Background(), nil)
	a.Factory.Wait()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
