package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/config"
	dbpkg "github.com/gardenpro/landscape-api/internal/db"
	"github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/infra/cache"
	"github.com/gardenpro/landscape-api/internal/infra/notify"
	"github.com/gardenpro/landscape-api/internal/infra/payments"
	infraRepo "github.com/gardenpro/landscape-api/internal/infra/repository"
	"github.com/gardenpro/landscape-api/internal/infra/storage"
	"github.com/gardenpro/landscape-api/internal/jobs"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/routes"
	"github.com/gardenpro/landscape-api/internal/timezone"
	ucAppointment "github.com/gardenpro/landscape-api/internal/usecase/appointment"
	ucEstimate "github.com/gardenpro/landscape-api/internal/usecase/estimate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	timezone.SetBusiness(cfg.BusinessTimezone)

	db := dbpkg.NewDB(cfg)

	// ======================================================
	// INFRA
	// ======================================================
	var slots appointment.SlotCache = cache.NoopSlotCache{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[cache] redis unavailable, availability cache disabled: %v", err)
		} else {
			defer client.Close()
			slots = cache.NewRedisSlotCache(client, cfg.AvailabilityCacheTTL)
		}
	}

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("failed to configure storage: %v", err)
	}

	gateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken)
	if err != nil {
		log.Printf("[payment][gateway] card payments disabled: %v", err)
		gateway = &payments.MercadoPagoGateway{}
	}

	notifier := notify.New(cfg)

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	go limiter.RunCleanup(10*time.Minute, ctx.Done())

	// ======================================================
	// JOBS
	// ======================================================
	var scheduler *jobs.Scheduler
	if cfg.CronEnabled {
		scheduler = jobs.New(timezone.Business())

		expire := ucEstimate.NewExpireOverdue(infraRepo.NewEstimateGormRepository(db))
		reminders := ucAppointment.NewSendReminders(infraRepo.NewAppointmentGormRepository(db), notifier)

		if err := scheduler.Add("expire_estimates", jobs.ExpireEstimatesSchedule, func(ctx context.Context) (int, error) {
			n, err := expire.Execute(ctx)
			return int(n), err
		}); err != nil {
			log.Fatalf("failed to schedule estimate expiry: %v", err)
		}
		if err := scheduler.Add("appointment_reminders", jobs.RemindersSchedule, reminders.Execute); err != nil {
			log.Fatalf("failed to schedule reminders: %v", err)
		}
		scheduler.Start()
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Slots:    slots,
		Store:    store,
		Gateway:  gateway,
		Notifier: notifier,
		Audit:    auditDispatcher,
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
}
