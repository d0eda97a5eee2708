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

	"github.com/htfilia/tradingboard/internal/bus"
	"github.com/htfilia/tradingboard/internal/config"
	"github.com/htfilia/tradingboard/internal/httpapi"
	"github.com/htfilia/tradingboard/internal/session"
	"github.com/htfilia/tradingboard/internal/store"
	"github.com/htfilia/tradingboard/internal/trading"
)

func main() {
	cfg := config.LoadTradingConfig()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("trading service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

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
	books := store.NewBookSource(sink)
	runner := store.NewUnitOfWorkRunner(db, stream)

	sessions := session.NewMongoStore(db.DB())

	orders := trading.NewOrderService(books, runner)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	tradingServer := httpapi.NewTradingServer(orders, sessions, cfg.CookieName)
	tradingServer.Register(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: httpapi.CORS(cfg.CORSOrigins, mux)}

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

	log.Println("trading service stopped")
}
