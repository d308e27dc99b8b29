package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"airwatch/internal/alerts"
	"airwatch/internal/api"
	"airwatch/internal/audit"
	"airwatch/internal/config"
	"airwatch/internal/db"
	"airwatch/internal/email"
	"airwatch/internal/ingest"
	"airwatch/internal/logging"
	"airwatch/internal/notify"
	"airwatch/internal/readings"
	"airwatch/internal/scheduler"
	"airwatch/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("DB connect failed: %v", err)
	}
	defer dbConn.Close()

	hub := ws.NewHub(logger)
	broadcaster := notify.NewBroadcaster(hub, logger)
	cache := readings.NewCache()

	alertSvc := alerts.New(dbConn, dbConn, cache, broadcaster, logger)
	if err := alertSvc.EnsureDefaultThresholds(ctx); err != nil {
		log.Fatalf("Threshold seed failed: %v", err)
	}

	mailer, err := email.NewMailer(cfg.Email)
	if err != nil {
		log.Fatalf("Mailer init failed: %v", err)
	}

	notifySvc := notify.New(dbConn, hub, mailer, logger, cfg.Notification.QueueSize, cfg.Notification.MaxWorkers)
	var wg sync.WaitGroup
	notifySvc.Start(&wg)

	recorder := audit.NewRecorder(dbConn, logger)

	consumer := ingest.NewConsumer(cfg.Kafka, cache, alertSvc, broadcaster, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(ctx)
	}()

	sched := scheduler.New(logger)
	sched.Add(scheduler.Job{
		Name:     "alert-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			_, err := alertSvc.CleanupOld(ctx, time.Duration(cfg.Retention.AlertDays)*24*time.Hour)
			return err
		},
	})
	sched.Add(scheduler.Job{
		Name:     "notification-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			_, err := notifySvc.CleanupOld(ctx, time.Duration(cfg.Retention.NotificationDays)*24*time.Hour)
			return err
		},
	})
	sched.Add(scheduler.Job{
		Name:     "audit-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			_, err := recorder.CleanupOld(ctx, time.Duration(cfg.Retention.LoginLogDays)*24*time.Hour)
			return err
		},
	})
	sched.Start(ctx, &wg)

	handler := api.NewHandler(alertSvc, notifySvc, recorder, cache, hub, dbConn, logger)
	router := api.NewRouter(handler, logger, cfg)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	cancel()
	notifySvc.Stop()
	if err := consumer.Close(); err != nil {
		logger.Errorf("Consumer close failed: %v", err)
	}
	wg.Wait()
	logger.Infof("Service stopped")
}
