package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/api"
	"github.com/yourname/fasttrack/internal/auth"
	"github.com/yourname/fasttrack/internal/billing"
	"github.com/yourname/fasttrack/internal/config"
	"github.com/yourname/fasttrack/internal/scheduler"
	"github.com/yourname/fasttrack/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewZapLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	var repos *storage.Repositories
	switch cfg.DBType {
	case "postgres":
		repos, err = storage.NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		if _, statErr := os.Stat("data"); os.IsNotExist(statErr) {
			_ = os.Mkdir("data", 0755)
		}
		repos, err = storage.NewFileRepositories(cfg.FileFasts, cfg.FileProfiles, cfg.FileLeaderboard, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer repos.Closer.Close()

	var provider auth.Provider
	if cfg.Env == "development" {
		provider = auth.NewLocalAuthProvider(cfg.AuthToken, logger)
	} else {
		provider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	}

	billingClient := billing.NewClient(cfg.BillingURL, cfg.BillingSecret, logger)
	app := api.NewApp(logger, repos, billingClient)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	api.RegisterRoutes(r, app, provider, cfg)

	sched := scheduler.New(repos.Fasts, repos.Profiles, cfg.SchedulerInterval, logger)
	go sched.Run()
	defer sched.Stop()

	go func() {
		logger.Infof("Server running on :%s", cfg.Port)
		if err := r.Run(":" + cfg.Port); err != nil {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")
}
