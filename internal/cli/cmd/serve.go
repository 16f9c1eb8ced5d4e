package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nookcoder/inventory-gateway/config"
	"github.com/nookcoder/inventory-gateway/internal/auth"
	"github.com/nookcoder/inventory-gateway/internal/logger"
	"github.com/nookcoder/inventory-gateway/internal/metrics"
	"github.com/nookcoder/inventory-gateway/internal/notify"
	"github.com/nookcoder/inventory-gateway/internal/payment"
	"github.com/nookcoder/inventory-gateway/internal/router"
	"github.com/nookcoder/inventory-gateway/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envName)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.SetupDefault(os.Stdout, cfg.Server.LogLevel)
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Error("store close failed", slog.Any("error", err))
		}
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := router.New(router.Deps{
		Logger:     log,
		DB:         db,
		Tokens:     auth.NewJWTService(cfg.JWT.Secret),
		Payments:   payment.NewStripeService(cfg.Payment.SecretKey),
		Notifier:   saleNotifier(cfg),
		Metrics:    metrics.NewCollector(reg),
		Gatherer:   reg,
		Currency:   cfg.Payment.Currency,
		AdminID:    cfg.Admin.ID,
		CORSOrigin: cfg.Server.CORSOrigin,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			slog.String("addr", server.Addr),
			slog.String("store", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Database, error) {
	if cfg.Store.Driver == config.DriverMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryDatabase(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	return store.NewMongoDatabase(connectCtx, cfg.MongoURI(), cfg.Store.Database)
}

func saleNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		slog.Info("telegram not configured, sale notifications disabled")
		return notify.Nop{}
	}
	bot, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		slog.Error("failed to init telegram notifier", slog.Any("error", err))
		return notify.Nop{}
	}
	return bot
}
