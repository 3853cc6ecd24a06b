package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"leadscout-engine/internal/config"
	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/events"
	"leadscout-engine/internal/httpapi"
	"leadscout-engine/internal/scrape"
	"leadscout-engine/internal/scrape/browser"
	"leadscout-engine/internal/scrape/types"
	"leadscout-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided (the UI can pass one), else local folder.
	dataDir := os.Getenv("LEADSCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir: two instances would fight over the
	// Chrome profile and each other's result set.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("engine lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance already owns %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, fmt.Errorf("config invalid: %s", strings.Join(vr.Errors, "; "))
		}
		return cfg, nil
	}

	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	db, err := store.Open(store.MemoryDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var scrapeStatus atomic.Value
	scrapeStatus.Store(httpapi.ScrapeStatus{})

	// One full pipeline run: the browser session is owned here and
	// lives exactly as long as the run.
	runScrape := func(ctx context.Context, cfg config.Config, req httpapi.ScrapeRequest, progress func(float64)) (int, error) {
		domains, err := config.DomainsFor(cfg, req.Platforms)
		if err != nil {
			return 0, err
		}

		session := browser.NewSession(ctx, browser.Config{
			Headless:   cfg.Browser.Headless,
			UserAgent:  cfg.Browser.UserAgent,
			NavTimeout: time.Duration(cfg.Browser.NavTimeoutSeconds) * time.Second,
		})
		defer session.Close()

		records, err := scrape.RunOnce(ctx, session, scrape.Settings{
			PageSettle:    time.Duration(cfg.Scrape.PageSettleMS) * time.Millisecond,
			SearchSettle:  time.Duration(cfg.Scrape.SearchSettleMS) * time.Millisecond,
			HostRateLimit: cfg.Scrape.HostRateLimit,
			HostBurst:     cfg.Scrape.HostBurst,
		}, types.Options{
			Keyword:    req.Keyword,
			Domains:    domains,
			MaxResults: req.MaxResults,
			Progress:   progress,
			OnRecord: func(rec domain.ContactRecord) {
				hub.Emit("", events.TypeContactFound, rec)
			},
		})
		if err != nil {
			return 0, err
		}

		if err := store.ReplaceRun(ctx, db.Pool, records); err != nil {
			return 0, err
		}
		return len(records), nil
	}

	deps := httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		CfgVal:       &cfgVal,
		ScrapeStatus: &scrapeStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		RunScrape:    runScrape,
	}

	handler := httpapi.Chain(httpapi.NewMux(deps),
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Recover,
		httpapi.Cors,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
