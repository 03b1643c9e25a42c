package server

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"orbithr/internal/domain/attendance"
	"orbithr/internal/domain/audit"
	"orbithr/internal/domain/auth"
	"orbithr/internal/domain/core"
	"orbithr/internal/domain/engagement"
	"orbithr/internal/domain/leave"
	"orbithr/internal/domain/notifications"
	"orbithr/internal/domain/payroll"
	"orbithr/internal/domain/performance"
	"orbithr/internal/domain/reports"
	"orbithr/internal/domain/tenant"
	"orbithr/internal/platform/config"
	cryptoutil "orbithr/internal/platform/crypto"
	"orbithr/internal/platform/db"
	"orbithr/internal/platform/email"
	"orbithr/internal/platform/jobs"
	"orbithr/internal/platform/metrics"
	attendancehandler "orbithr/internal/transport/http/handlers/attendance"
	audithandler "orbithr/internal/transport/http/handlers/audit"
	authhandler "orbithr/internal/transport/http/handlers/auth"
	corehandler "orbithr/internal/transport/http/handlers/core"
	engagementhandler "orbithr/internal/transport/http/handlers/engagement"
	leavehandler "orbithr/internal/transport/http/handlers/leave"
	notificationshandler "orbithr/internal/transport/http/handlers/notifications"
	payrollhandler "orbithr/internal/transport/http/handlers/payroll"
	performancehandler "orbithr/internal/transport/http/handlers/performance"
	reportshandler "orbithr/internal/transport/http/handlers/reports"
	tenanthandler "orbithr/internal/transport/http/handlers/tenant"
	"orbithr/internal/transport/http/middleware"
)

// App carries everything the integration tests need to exercise the server
// without binding a port.
type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

func New(cfg config.Config, pool *pgxpool.Pool) *App {
	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}

	authStore := auth.NewStore(pool)
	tenantSvc := tenant.NewService(tenant.NewStore(pool))
	coreSvc := core.NewService(core.NewStore(pool))
	attendanceSvc := attendance.NewService(attendance.NewStore(pool))
	leaveStore := leave.NewStore(pool)
	leaveSvc := leave.NewService(leaveStore)
	payrollStore := payroll.NewStore(pool)
	payrollSvc := payroll.NewService(payrollStore, leaveStore, cryptoSvc)
	performanceSvc := performance.NewService(performance.NewStore(pool))
	engagementSvc := engagement.NewService(engagement.NewStore(pool))
	notifySvc := notifications.New(notifications.NewStore(pool), email.New(cfg))
	auditSvc := audit.New(pool)
	reportsSvc := reports.New(pool)
	jobsSvc := jobs.New(pool, cfg, leaveSvc, coreSvc, notifySvc)
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(cfg.RateLimitPerMinute, time.Minute))
			authhandler.NewHandler(authStore, cfg.JWTSecret, cryptoSvc).RegisterRoutes(r)
			tenanthandler.NewHandler(tenantSvc, auditSvc).RegisterRoutes(r)
		})

		corehandler.NewHandler(coreSvc, payrollSvc, authStore, auditSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, coreSvc, authStore, auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, coreSvc, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, coreSvc, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		performancehandler.NewHandler(performanceSvc, coreSvc, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		engagementhandler.NewHandler(engagementSvc, coreSvc, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, authStore).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router, Jobs: jobsSvc, Metrics: collector}
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	app := New(cfg, pool)
	app.Jobs.Start(ctx)

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
