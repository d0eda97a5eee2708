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

	"github.com/shopspring/decimal"

	"github.com/htfilia/tradingboard/internal/auth"
	"github.com/htfilia/tradingboard/internal/config"
	"github.com/htfilia/tradingboard/internal/httpapi"
	"github.com/htfilia/tradingboard/internal/session"
	"github.com/htfilia/tradingboard/internal/store"
)

func main() {
	cfg := config.LoadAuthConfig()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("auth service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	startingBalance, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil {
		log.Fatalf("invalid starting balance %q: %v", cfg.StartingBalance, err)
	}

	db, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close(context.Background())

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	sessions := session.NewMongoStore(db.DB())
	if err := sessions.EnsureIndexes(ctx); err != nil {
		log.Fatalf("session index bootstrap failed: %v", err)
	}

	users := store.NewUserRepository(db.DB())
	accounts := store.NewAccountRepository(db.DB())
	hasher := auth.NewArgonHasher()

	authSvc := auth.NewService(users, accounts, sessions, hasher, auth.Config{
		StartingBalance: startingBalance,
		BaseCurrency:    cfg.BaseCurrency,
		SessionTTL:      cfg.SessionTTL,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	authServer := httpapi.NewAuthServer(authSvc, httpapi.CookieConfig{
		Name:       cfg.CookieName,
		Domain:     cfg.CookieDomain,
		Secure:     cfg.CookieSecure,
		SessionTTL: cfg.SessionTTL,
	})
	authServer.Register(mux)

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

	log.Println("auth service stopped")
}
