package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/htfilia/tradingboard/internal/bookcache"
	"github.com/htfilia/tradingboard/internal/bus"
	"github.com/htfilia/tradingboard/internal/config"
	"github.com/htfilia/tradingboard/internal/dashboard"
	"github.com/htfilia/tradingboard/internal/httpapi"
	"github.com/htfilia/tradingboard/internal/instrument"
	"github.com/htfilia/tradingboard/internal/marketdata"
	"github.com/htfilia/tradingboard/internal/store"
)

func main() {
	cfg := config.LoadMarketDataConfig()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("market-data service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	catalog, err := instrument.LoadCatalog(cfg.InstrumentsFile)
	if err != nil {
		log.Fatalf("load instrument catalog: %v", err)
	}
	log.Printf("loaded %d instruments from %s", len(catalog), cfg.InstrumentsFile)

	db, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close(context.Background())

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	stream := bus.NewMongoStream(db.DB())
	sink := store.NewMarketDataSink(db.DB(), stream)
	cache := bookcache.New()

	var broadcaster marketdata.Broadcaster
	var dashMgr *dashboard.Manager
	if cfg.DashboardEnabled {
		dashMgr = dashboard.NewManager(cfg.DashboardBufferSize)
		broadcaster = dashMgr
	}

	retry := marketdata.RetryPolicy{Attempts: cfg.RetryAttempts, BaseDelay: cfg.RetryBaseDelay}

	feeds, err := buildFeeds(catalog, sink, cache, broadcaster, retry)
	if err != nil {
		log.Fatalf("build feeds: %v", err)
	}
	log.Printf("built %d feeds", len(feeds))

	pipeline := &marketdata.Pipeline{Feeds: feeds}
	runner := &marketdata.Runner{Pipeline: pipeline, Interval: cfg.PumpInterval}
	go runner.Run(ctx)
	log.Println("started emission pump")

	go store.RunRetention(ctx, db, cfg.TickRetentionDays)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","instruments":%d}`, len(catalog))
	})

	var clients httpapi.ClientCounter
	if dashMgr != nil {
		mux.HandleFunc("/feed", dashboard.Handler(dashMgr))
		clients = dashMgr
	}

	apiServer := httpapi.NewMarketDataServer(sink, clients, len(catalog))
	apiServer.Register(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("HTTP server listening on http://%s", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	log.Println("market-data service stopped")
}
