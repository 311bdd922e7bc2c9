package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/tallyhq/tally/internal/auth"
	"github.com/tallyhq/tally/internal/server"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/storage/sqlite"
	"github.com/tallyhq/tally/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := getEnv("DB_PATH", "./data/tally.db")
	addr := getEnv("ADDR", ":8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	tokenDuration := 24 * time.Hour
	if raw := os.Getenv("TOKEN_DURATION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return errors.New("TOKEN_DURATION must be a Go duration like 24h")
		}
		tokenDuration = d
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store)
	groupSvc := service.NewGroupService(store)
	expenseSvc := service.NewExpenseService(store)
	financeSvc := service.NewFinanceService(store)

	handler := server.NewHandler(authSvc, groupSvc, expenseSvc, financeSvc)
	router := server.NewRouter(handler, jwtManager)

	srv := &http.Server{
		Addr: addr,
		// h2c lets HTTP/2 clients connect without TLS; a proxy terminates
		// TLS in front of this process.
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
