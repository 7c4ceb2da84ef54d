package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"comanda-dashboard-backend/config"
	"comanda-dashboard-backend/internal/api"
	"comanda-dashboard-backend/internal/cart"
	"comanda-dashboard-backend/internal/db"
	"comanda-dashboard-backend/internal/devserver"
	"comanda-dashboard-backend/internal/logging"
	"comanda-dashboard-backend/internal/notification"
	"comanda-dashboard-backend/internal/poller"
	"comanda-dashboard-backend/internal/state"
	"comanda-dashboard-backend/internal/store"
	"comanda-dashboard-backend/internal/upstream"
	"comanda-dashboard-backend/internal/worker"
)

func main() {
	var configPath string
	var dev bool

	rootCmd := &cobra.Command{
		Use:   "dashboardd",
		Short: "Serve the restaurant dashboard state over HTTP",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if dev {
				cfg.Dev.Enabled = true
			}
			return run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration (defaults to $CONFIG_PATH, then ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&dev, "dev", false, "Start the seeded development API and point the dashboard at it")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/config.yaml"
	}
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("no configuration at %s, using defaults", path)
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "dashboardd")
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var servers []*http.Server

	if cfg.Dev.Enabled {
		gormDB, err := db.Init(cfg.Dev.DSN, logger)
		if err != nil {
			return err
		}
		docs := store.NewGormStore(gormDB)
		if cfg.Dev.Seed {
			if err := devserver.Seed(ctx, docs); err != nil {
				return err
			}
		}
		devSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Dev.Port),
			Handler: devserver.New(docs, logger.Named("devserver")).Router(),
		}
		servers = append(servers, devSrv)
		cfg.Upstream.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Dev.Port)
		logger.Info("development API enabled", zap.Int("port", cfg.Dev.Port), zap.String("dsn", cfg.Dev.DSN))
	}

	client := upstream.New(cfg.Upstream, logger.Named("upstream"))

	pool := worker.NewPool(cfg.WorkerPool.Size, cfg.Upstream.Timeout, logger.Named("worker"))
	pool.Start(ctx)

	root := state.NewRoot(client, pool, state.TabOptions{LegacyFallback: cfg.Upstream.LegacyFallback}, logger.Named("state"))

	subs := notification.NewSubscriptions()
	var webpushOptions *webpush.Options
	var alerter poller.Alerter
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Warn("VAPID keys not configured, idle table alerts are disabled")
	} else {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		cooldown := time.Duration(cfg.Push.AlertCooldownMinutes) * time.Minute
		alerter = notification.NewIdleAlerter(subs, webpushOptions, pool, cooldown, logger.Named("alerts"))
	}

	pollerSvc := poller.NewService(cfg.Poller, root, alerter, logger.Named("poller"))

	handler := api.NewHandler(api.Deps{
		Root:          root,
		Catalog:       cart.NewCatalog(cfg.Menu),
		Carts:         cart.NewRegistry(cfg.Workflow.SessionTTL),
		Subscriptions: subs,
		WebPush:       webpushOptions,
		SearchWindow:  cfg.Search.Debounce,
		SessionTTL:    cfg.Workflow.SessionTTL,
		Logger:        logger.Named("api"),
	})
	defer handler.Close()
	pollerSvc.OnRefresh(handler.FlushAreaCache)

	servers = append(servers, &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, cfg.Server, logger.Named("http")),
	})

	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("HTTP server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("HTTP server ListenAndServe", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}(srv)
	}

	go pollerSvc.Run(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	for i := len(servers) - 1; i >= 0; i-- {
		if err := servers[i].Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown", zap.String("addr", servers[i].Addr), zap.Error(err))
		}
	}

	logger.Info("server gracefully stopped")
	return nil
}
