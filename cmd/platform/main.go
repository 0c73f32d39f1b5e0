package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nursle/platform/internal/adapters/his"
	"github.com/nursle/platform/internal/identity"
	"github.com/nursle/platform/internal/patient"
	"github.com/nursle/platform/internal/predictionlog"
	"github.com/nursle/platform/internal/shared/auth"
	"github.com/nursle/platform/internal/shared/config"
	"github.com/nursle/platform/internal/shared/database"
	"github.com/nursle/platform/internal/shared/events"
	"github.com/nursle/platform/internal/shared/metrics"
	secmiddleware "github.com/nursle/platform/internal/shared/middleware"
	"github.com/nursle/platform/internal/triage"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	DB     *database.DB
	Bus    *events.Bus
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	// Initialize database (optional - the engine endpoints work without it)
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Printf("Warning: Database not available: %v\n", err)
		fmt.Println("Running in limited mode without database...")
	} else {
		app.DB = db
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool); err != nil {
			fmt.Printf("Warning: Migration failed: %v\n", err)
		}
	}

	// Initialize event bus with EventStoreDB (optional)
	bus, err := events.NewBus(ctx, cfg.EventStore)
	if err != nil {
		fmt.Printf("Warning: EventStoreDB not available: %v\n", err)
		fmt.Println("Running without event streaming...")
	} else {
		app.Bus = bus
		defer bus.Close()
		fmt.Println("EventStoreDB event bus initialized")
	}

	// The bus is passed around as an interface; keep it nil when absent so
	// publishers can skip it.
	var eventBus events.EventBus
	if app.Bus != nil {
		eventBus = app.Bus
	}

	var pool *pgxpool.Pool
	if app.DB != nil {
		pool = app.DB.Pool
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.BodyLimit(1 << 20))
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	// Rate limit credential endpoints
	authLimiter := secmiddleware.NewIPRateLimiter(5, 10)

	identityHandler := identity.NewHandler(identity.NewRepository(pool), cfg.Auth, eventBus)
	patientHandler := patient.NewHandler(patient.NewRepository(pool), eventBus)
	triageHandler := triage.NewHandler(triage.NewRepository(pool), eventBus)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Mount("/auth", identityHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			if cfg.Server.Env == "production" {
				r.Use(auth.Middleware(cfg.Auth))
			}

			r.Mount("/patients", patientHandler.Routes())
			r.Mount("/symptoms", triageHandler.SymptomRoutes())
			r.Mount("/analytics", triageHandler.AnalyticsRoutes())
			r.Mount("/engine", triageHandler.EngineRoutes())

			// Prediction log - append-only, backed by EventStoreDB
			if app.Bus != nil {
				logRepo := predictionlog.NewRepository(app.Bus.Client())
				if err := logRepo.Initialize(ctx); err != nil {
					fmt.Printf("Warning: Prediction log initialization failed: %v\n", err)
				}
				logHandler := predictionlog.NewHandler(logRepo)
				r.Mount("/prediction-log", logHandler.Routes())

				logSubscriber := predictionlog.NewSubscriber(logRepo, app.Bus)
				if err := logSubscriber.Start(ctx); err != nil {
					fmt.Printf("Warning: Prediction log subscriber failed to start: %v\n", err)
				} else {
					fmt.Println("Prediction log subscriber started")
				}
			}
		})
	})

	// Legacy HIS importer
	var hisAdapter *his.Adapter
	if cfg.HIS.Enabled && app.DB != nil {
		sink := patient.NewImporter(patient.NewRepository(pool), eventBus)
		hisAdapter = his.New(cfg.HIS, sink)
		if err := hisAdapter.Start(ctx); err != nil {
			fmt.Printf("Warning: HIS importer failed to start: %v\n", err)
			hisAdapter = nil
		} else {
			fmt.Printf("HIS importer started (%s:%d, every %ds)\n",
				cfg.HIS.Host, cfg.HIS.Port, cfg.HIS.PollIntervalSecs)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if hisAdapter != nil {
			if err := hisAdapter.Stop(ctx); err != nil {
				fmt.Printf("HIS importer shutdown error: %v\n", err)
			}
		}

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("Nursle Patient Intake Platform")
	fmt.Println("============================================")
	fmt.Printf("Environment:  %s\n", cfg.Server.Env)
	fmt.Printf("Server:       http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:          http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:       http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("EventStore:   %s:%d\n", cfg.EventStore.Host, cfg.EventStore.Port)
	fmt.Printf("HIS importer: %v\n", cfg.HIS.Enabled)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "Nursle Patient Intake Platform",
		"version": "1.0.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
			"engine": "ready",
		}

		if app.DB != nil {
			if err := app.DB.Health(r.Context()); err != nil {
				checks["database"] = "not ready: " + err.Error()
			} else {
				checks["database"] = "ready"
			}
		} else {
			checks["database"] = "not configured"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(); err != nil {
				checks["eventstore"] = "not ready: " + err.Error()
			} else {
				checks["eventstore"] = "ready"
			}
		} else {
			checks["eventstore"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
