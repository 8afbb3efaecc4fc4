package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"stockwatch/internal/api/handlers"
	"stockwatch/internal/api/middleware"
	"stockwatch/internal/config"
	"stockwatch/internal/engine"
	"stockwatch/internal/notify"
	"stockwatch/internal/registry"
	"stockwatch/internal/scrape"
	"stockwatch/internal/store"
	"stockwatch/pkg/logger"
	domain "stockwatch/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stock scheduler and API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return fmt.Errorf("loading secrets: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return fmt.Errorf("creating storage dir: %w", err)
	}
	fileStore := store.NewFileStore(cfg.Storage.Path, log)

	client := scrape.NewClient(cfg.Poll.FetchTimeout, cfg.Poll.UserAgent)
	sites := scrape.NewSelector(client, cfg.SiteHosts())

	reg := registry.New(fileStore, log)
	reg.Seed(builtinsFromConfig(cfg, sites, log))
	if err := reg.LoadCustom(context.Background()); err != nil {
		return fmt.Errorf("loading custom products: %w", err)
	}

	notifier := buildNotifier(secrets, log)

	eng := engine.NewEngine(reg, sites, notifier, secrets.ChannelID, engine.WithLogger(log))

	sched, err := engine.NewScheduler(eng, cfg.Poll.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := buildServer(log, reg, eng, secrets.OperatorID)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "poll_interval", cfg.Poll.Interval)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// builtinsFromConfig turns the static product block into registry records.
// Entries on unsupported hosts are skipped with a warning instead of
// poisoning every later pass.
func builtinsFromConfig(cfg *config.Config, sites *scrape.Selector, log *slog.Logger) []domain.Product {
	builtins := make([]domain.Product, 0, len(cfg.Products))
	for key, bp := range cfg.Products {
		site := sites.Resolve(bp.URL)
		if site == domain.SiteUnknown {
			log.Warn("skipping built-in product on unsupported site", "id", key, "url", bp.URL)
			continue
		}
		builtins = append(builtins, domain.Product{
			ID:   key,
			Name: bp.Name,
			URL:  bp.URL,
			Site: site,
		})
	}
	return builtins
}

func buildNotifier(secrets *config.Secrets, log *slog.Logger) notify.Notifier {
	if secrets.DiscordToken == "" || secrets.ChannelID == "" {
		log.Warn("discord token or channel missing, notifications disabled")
		return notify.NewNoOpNotifier(log)
	}
	return notify.NewDiscordNotifier(secrets.DiscordToken)
}

func buildServer(log *slog.Logger, reg *registry.Registry, eng *engine.Engine, operatorID string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	products := handlers.NewProductHandler(reg, eng)
	resync := handlers.NewResyncHandler(eng, operatorID)

	v1 := e.Group("/api/v1")
	v1.GET("/products", products.List)
	v1.POST("/products", products.Register)
	v1.GET("/products/:id", products.Get)
	v1.DELETE("/products/:id", products.Remove)
	v1.GET("/products/:id/stock", products.Stock)
	v1.GET("/stock", products.StockByURL)
	v1.POST("/resync", resync.Resync)

	return e
}
