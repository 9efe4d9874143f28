package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nrasaily/SleepSentinelPro/internal"
	"github.com/nrasaily/SleepSentinelPro/internal/api"
	"github.com/nrasaily/SleepSentinelPro/internal/auth"
	"github.com/nrasaily/SleepSentinelPro/internal/config"
	"github.com/nrasaily/SleepSentinelPro/internal/provider"
	"github.com/nrasaily/SleepSentinelPro/internal/service"
	"github.com/nrasaily/SleepSentinelPro/internal/storage"
)

type app struct {
	logger     internal.Logger
	sleep      *service.SleepService
	provider   provider.SegmentProvider
	exportPath string
}

func (a *app) Logger() internal.Logger            { return a.logger }
func (a *app) Sleep() *service.SleepService       { return a.sleep }
func (a *app) Provider() provider.SegmentProvider { return a.provider }
func (a *app) ExportPath() string                 { return a.exportPath }

func main() {
	cfg, err := config.Load(os.Getenv("SLEEP_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := internal.NewLogger(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewRepository(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	sleep := service.NewSleepService(logger, repo, time.Local, cfg.Demo.DescriptorFile)
	if err := sleep.Restore(ctx); err != nil {
		logger.Fatalf("failed to restore snapshot: %v", err)
	}

	// Same behavior as first launch of the app: with nothing synced yet
	// and no authorization, start from the demo dataset.
	if len(sleep.Nights()) == 0 && !sleep.State().Authorized {
		if n, err := sleep.LoadDemo(ctx, time.Now()); err != nil {
			logger.Warnf("failed to load demo data: %v", err)
		} else {
			logger.Infof("no data yet, loaded %d demo nights", n)
		}
	}

	a := &app{logger: logger, sleep: sleep, exportPath: cfg.Export.Path}

	if cfg.Provider.Mode == "simulated" {
		prov := provider.NewSimulated(time.Now(), time.Local)
		a.provider = prov
		syncer := provider.NewSyncer(prov, logger)
		go syncer.Run(ctx, cfg.SyncIntervalDuration(), sleep.State)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case batch := <-syncer.Events():
					sleep.ApplyBatch(ctx, batch)
				}
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestIDMiddleware())

	authProvider := auth.NewProvider(cfg, logger)
	protected := router.Group("/api", auth.Middleware(authProvider, cfg))
	protected.GET("/nights", api.GetNights(a))
	protected.GET("/status", api.GetStatus(a))
	protected.POST("/demo", api.PostDemo(a))
	protected.POST("/sync", api.PostSync(a))
	protected.POST("/segments", api.PostSegments(a))
	protected.PUT("/authorization", api.PutAuthorization(a))
	protected.GET("/settings", api.GetSettings(a))
	protected.PUT("/settings", api.PutSettings(a))
	protected.GET("/export.csv", api.GetExportCSV(a))
	protected.POST("/export", api.PostExport(a))

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		logger.Infof("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if err := repo.Close(); err != nil {
		logger.Errorf("storage close: %v", err)
	}
}
