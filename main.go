package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"otodom_scraper/api"
	"otodom_scraper/cache"
	"otodom_scraper/config"
	"otodom_scraper/httputil"
	"otodom_scraper/logging"
	"otodom_scraper/scheduler"
	"otodom_scraper/scraper"
	"otodom_scraper/storage"
)

var (
	scrapeNow  = flag.Bool("scrape", false, "Run all profiles once and exit")
	profileID  = flag.String("profile", "", "Run a single profile once and exit")
	noCacheDB  = flag.Bool("no-cache-db", false, "Use an in-memory response cache instead of SQLite")
	purgeCache = flag.Duration("purge-cache", 24*time.Hour, "Drop cached responses older than this on startup")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("scraper.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting otodom_scraper...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loaded %d profiles", len(cfg.Profiles))
	for id, profile := range cfg.Profiles {
		log.Printf("  - %s (%s/%s %q)", id, profile.MainCategory, profile.DetailCategory, profile.Region)
	}

	var responseCache cache.Cache = cache.NewMemoryCache()
	var store *storage.SQLiteStore
	if !*noCacheDB {
		store, err = storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open SQLite: %v", err)
		}
		defer store.Close()
		log.Printf("SQLite database: %s", cfg.DBPath)

		if purged, err := store.PurgeCacheOlderThan(*purgeCache); err != nil {
			log.Printf("Warning: cache purge failed: %v", err)
		} else if purged > 0 {
			log.Printf("Purged %d stale cached responses", purged)
		}
		responseCache = store
	}

	fetcher := httputil.NewClient(cfg.ProxyURL, 30*time.Second)
	client := scraper.New(fetcher, responseCache, scraper.Options{
		BaseURL:  cfg.BaseURL,
		PageSize: cfg.Scraper.PageSize,
		HardCap:  cfg.Scraper.HardCap,
		Delay:    time.Duration(cfg.Scraper.DelayMS) * time.Millisecond,
	})
	orchestrator := scraper.NewOrchestrator(cfg, client, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *profileID != "" {
		offers, err := orchestrator.RunProfile(ctx, *profileID)
		if err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
		log.Printf("Scrape complete: %d offers", len(offers))
		return
	}

	if *scrapeNow {
		log.Println("Running all profiles...")
		if err := orchestrator.RunAll(ctx); err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
		log.Println("Scrape complete!")
		return
	}

	// Daemon mode: scheduler plus HTTP trigger API.
	sched := scheduler.New(cfg, orchestrator)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	server := api.NewServer(cfg, client, orchestrator, store)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Printf("API server stopped: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: API shutdown: %v", err)
	}
	log.Println("Goodbye!")
}
