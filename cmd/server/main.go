package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"vezoh_backend/internal/config"
	"vezoh_backend/internal/controllers"
	"vezoh_backend/internal/logger"
	"vezoh_backend/internal/mailer"
	"vezoh_backend/internal/maps"
	"vezoh_backend/internal/matching"
	"vezoh_backend/internal/middleware"
	"vezoh_backend/internal/routes"
	"vezoh_backend/internal/upload"
	"vezoh_backend/internal/worker"
)

func main() {
	logger.Setup()

	config.InitDB()
	db := config.GetDB()

	controllers.SeedServices(db)

	mapsClient := maps.NewClient(config.GoogleMapsAPIKey(), config.MapsTimeout())
	smtpMailer := mailer.New(
		config.GetEnv("SMTP_HOST", ""),
		config.GetEnv("SMTP_PORT", "587"),
		config.GetEnv("SMTP_USER", ""),
		config.GetEnv("SMTP_PASSWORD", ""),
		config.GetEnv("SMTP_FROM", "no-reply@vezoh.com"),
	)
	matcher := matching.NewMatcher(db, mapsClient)
	uploads := upload.NewStore(config.UploadDir())
	hub := controllers.NewLocationHub()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	approver := worker.NewAutoApprover(&worker.GormStore{DB: db}, config.SweepInterval(), config.SweepThreshold())
	go approver.Run(ctx)

	router := routes.SetupRouter(routes.Controllers{
		Auth:       controllers.NewAuthController(smtpMailer),
		Driver:     controllers.NewDriverController(uploads),
		Dashboard:  controllers.NewDashboardController(mapsClient, matcher),
		LocationWS: controllers.NewLocationWSController(hub),
	})

	addr := config.ListenAddr()
	server := &http.Server{
		Addr:    addr,
		Handler: middleware.EnableCORS(router),
	}

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down server")
		server.Shutdown(context.Background())
	}()

	logrus.WithField("addr", addr).Info("Server starting")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("Server failed")
	}
}
