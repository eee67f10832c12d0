package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"policeapp/internal/api"
	"policeapp/internal/api/handlers"
	"policeapp/internal/api/middleware"
	"policeapp/internal/config"
	"policeapp/internal/distancematrix"
	"policeapp/internal/geo"
	"policeapp/internal/logger"
	"policeapp/internal/nearest"
	"policeapp/internal/services"
	"policeapp/internal/sms"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "policeapp:", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, flush, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The service must not start without its dataset.
	datasets, err := geo.OpenDatasetStore(cfg.Location.DatasetPath)
	if err != nil {
		log.Error("dataset_load_failed", zap.Error(err))
		return err
	}
	log.Info("dataset_loaded",
		zap.String("path", cfg.Location.DatasetPath),
		zap.Int("points", datasets.Snapshot().Len()),
	)

	// Initialize repositories
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	// Initialize services
	matrixClient := distancematrix.NewClient(distancematrix.Config{
		BaseURL: cfg.DistanceMatrix.BaseURL,
		APIKey:  cfg.DistanceMatrix.APIKey,
		Mode:    cfg.DistanceMatrix.Mode,
		Units:   cfg.DistanceMatrix.Units,
	}, nil, log.Named("distancematrix"))

	var sender sms.Sender = sms.NewLogSender(log.Named("sms"))
	if cfg.SMS.Enabled() {
		sender = sms.NewTwilioSender(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber, log.Named("sms"))
	} else {
		log.Warn("sms_disabled", zap.String("reason", "TWILIO_* not configured"))
	}

	tokens := services.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(st.users, tokens, log.Named("auth"))
	locationService := services.NewLocationService(datasets, nearest.NewResolver(matrixClient, log.Named("nearest")), cfg.Location, log.Named("location"))
	notificationService := services.NewNotificationService(sender, log.Named("notify"))
	reportService := services.NewReportService(st.reports, st.users, st.locks, locationService, notificationService, cfg.Reports, log.Named("reports"))
	feedbackService := services.NewFeedbackService(st.feedback, st.users, log.Named("feedback"))

	// Initialize handlers
	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}
	router := api.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewLocationHandler(locationService),
		handlers.NewReportHandler(reportService),
		handlers.NewFeedbackHandler(feedbackService),
		handlers.NewSMSHandler(notificationService),
		handlers.NewAdminHandler(locationService),
		locationService,
	)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")), middleware.Metrics())
	router.Setup(engine, authService, cfg.Auth.AdminToken)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		ExposedHeaders: []string{"Retry-After", "Content-Disposition"},
		MaxAge:         300,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsHandler.Handler(engine),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server_start", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("server_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
