package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sagerenn/spelld/internal/app"
	"github.com/sagerenn/spelld/internal/config"
	"github.com/sagerenn/spelld/internal/httpx"
	"github.com/sagerenn/spelld/internal/observability"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("SPELLD_CONFIG"), "path to YAML config (empty: environment only)")
	basePath := flag.String("base-path", "", "URL prefix the API is also served under")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal("config", err)
	}

	log := observability.New(cfg.Log.Level)
	ctx := context.Background()
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		fatal("app", err)
	}

	if len(cfg.Dictionaries.Preload) > 0 {
		if err := a.Service.Preload(ctx, cfg.Dictionaries.Preload); err != nil {
			log.Error("dictionary preload error", "error", err)
		}
	}

	h := httpx.NewRouter(a.Service, log, *basePath)
	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("server listening", "addr", cfg.Listen, "dictionaries", a.Factory.GetDictionaryPath())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if err := a.Close(); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func fatal(stage string, err error) {
	_, _ = os.Stderr.WriteString(stage + ": " + err.Error() + "\n")
	os.Exit(1)
}
