package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	billStore "github.com/MrJamesThe3rd/condobill/internal/bill/store"
	"github.com/MrJamesThe3rd/condobill/internal/config"
	"github.com/MrJamesThe3rd/condobill/internal/database"
	"github.com/MrJamesThe3rd/condobill/internal/export"
	condoHttp "github.com/MrJamesThe3rd/condobill/internal/http"
	billHandler "github.com/MrJamesThe3rd/condobill/internal/http/bill"
	exportHandler "github.com/MrJamesThe3rd/condobill/internal/http/export"
	notificationHandler "github.com/MrJamesThe3rd/condobill/internal/http/notification"
	configHandler "github.com/MrJamesThe3rd/condobill/internal/http/tenantconfig"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
	"github.com/MrJamesThe3rd/condobill/internal/logger"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/condobill/internal/notification/store"
	"github.com/MrJamesThe3rd/condobill/internal/tenantconfig"
	configStore "github.com/MrJamesThe3rd/condobill/internal/tenantconfig/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.App.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	zap.ReplaceGlobals(log)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var publisher notification.Publisher

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		publisher = notification.NewRedisPublisher(client, cfg.Redis.Stream)
		log.Info("publishing notification events", zap.String("stream", cfg.Redis.Stream))
	}

	loc := cfg.Location()

	var (
		configService       = tenantconfig.NewService(configStore.New(db))
		notificationService = notification.NewService(notificationStore.New(db), configService, publisher, log)
		importService       = importer.NewService(importer.NewHTTPFetcher(cfg.Upload.Dir, cfg.Upload.FetchTimeout, cfg.Upload.FetchRetries))
		billService         = bill.NewService(billStore.New(db), importService, notificationService, log, loc)
		exportService       = export.NewService(billService, loc)
	)

	var (
		exportH       = exportHandler.NewHandler(exportService, log)
		billH         = billHandler.NewHandler(billService, exportH.Excel, log)
		notificationH = notificationHandler.NewHandler(notificationService, log)
		configH       = configHandler.NewHandler(configService, log)
	)

	router := condoHttp.New(condoHttp.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		JWTSecret:      cfg.Server.JWTSecret,
	}, billH, notificationH, configH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + cfg.Server.Timeout/2,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("timezone", loc.String()))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
