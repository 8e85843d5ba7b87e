package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/restro-backend/internal/modules/auth"
	"github.com/georgemunganga/restro-backend/internal/modules/menu"
	"github.com/georgemunganga/restro-backend/internal/modules/notification"
	"github.com/georgemunganga/restro-backend/internal/modules/order"
	"github.com/georgemunganga/restro-backend/internal/modules/realtime"
	"github.com/georgemunganga/restro-backend/internal/modules/report"
	"github.com/georgemunganga/restro-backend/internal/modules/settings"
	"github.com/georgemunganga/restro-backend/internal/modules/staff"
	"github.com/georgemunganga/restro-backend/internal/platform/config"
	"github.com/georgemunganga/restro-backend/internal/platform/database"
	"github.com/georgemunganga/restro-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("restro api stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("database ready")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// ── Phase 1: Realtime & Notifications ───────────────────
	hub := realtime.NewHub(log)
	hub.RegisterRoutes(router)

	events := realtime.Fanout{hub}
	if cfg.AMQPURL != "" {
		broker, err := realtime.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer broker.Close()
		events = append(events, broker)
		log.WithField("exchange", cfg.AMQPExchange).Info("mirroring events to amqp")
	}

	smsProviders := notification.Registry{
		notification.ProviderLog:  notification.NewLogSender(log),
		notification.ProviderHTTP: notification.NewHTTPSender(cfg.SMS.GatewayURL, cfg.SMS.APIKey, cfg.SMS.SenderID),
	}
	sender, err := smsProviders.Lookup(notification.Provider(cfg.SMS.Provider))
	if err != nil {
		return err
	}
	dispatcher := notification.NewDispatcher(sender, cfg.SMS.QueueSize, log)
	renderer := notification.NewRenderer(cfg.SMS.Language)

	// ── Phase 2: Staff & Auth ───────────────────────────────
	staffRepo := staff.NewPostgresRepository(db)
	staffService := staff.NewService(staffRepo, log)
	if cfg.AdminEmail != "" {
		if err := staffService.Bootstrap(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	authService := auth.NewService(staffRepo, cfg.JWTSecret, cfg.TokenTTL)
	auth.NewHandler(authService).RegisterRoutes(router)
	requireStaff := auth.RequireStaff(authService)
	staff.NewHandler(staffService, requireStaff, auth.RequireAdmin).RegisterRoutes(router)

	// ── Phase 3: Settings & Menu ────────────────────────────
	settingsService := settings.NewService(settings.NewPostgresRepository(db), events, log)
	settings.NewHandler(settingsService, requireStaff, auth.RequireAdmin).RegisterRoutes(router)

	menuService := menu.NewService(menu.NewPostgresRepository(db), events, log)
	menu.NewHandler(menuService, requireStaff, auth.RequireAdmin).RegisterRoutes(router)

	// ── Phase 4: Orders & Reports ───────────────────────────
	orderService := order.NewService(
		order.NewPostgresRepository(db),
		menuService,
		settingsService,
		events,
		dispatcher,
		renderer,
		log,
	)
	order.NewHandler(orderService, requireStaff).RegisterRoutes(router)

	report.NewHandler(report.NewService(orderService), requireStaff).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	ln, err := net.Listen("tcp", ":"+cfg.AppPort)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: router}
	log.WithField("port", cfg.AppPort).Info("restro api server starting")
	return serve(ctx, srv, ln, dispatcher, cfg.ShutdownTimeout, log)
}

type runner interface {
	Run(ctx context.Context) error
}

// serve runs srv on ln alongside worker until ctx ends. worker keeps running
// until srv has drained its in-flight requests, so work they queue is not lost.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, worker runner, shutdownTimeout time.Duration, log logrus.FieldLogger) error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(workerCtx)
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		err := srv.Shutdown(shutdownCtx)
		stopWorker()
		return err
	})
	return g.Wait()
}
