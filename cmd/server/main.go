package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gridrr/admin-backend/internal/auth"
	"github.com/gridrr/admin-backend/internal/config"
	"github.com/gridrr/admin-backend/internal/dashboard"
	"github.com/gridrr/admin-backend/internal/middleware"
	"github.com/gridrr/admin-backend/internal/review"
	"github.com/gridrr/admin-backend/internal/store"
	"github.com/gridrr/admin-backend/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB (review audit trail) ─────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	auditStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis (sessions) ─────────────────────────────────────
	sessions, err := auth.DialSessionStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer sessions.Close()

	// ── MinIO (media) ────────────────────────────────────────
	mediaStore, err := store.NewMediaStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(pgStore, sessions, cfg.BaseURL)
	reviewHandler := review.NewHandler(pgStore, auditStore)
	uploadHandler := upload.NewHandler(pgStore, mediaStore)
	dashboardHandler := dashboard.NewHandler(pgStore, mediaStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.SessionGuard(sessions))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Email verification callback (guard-excluded)
	r.Get("/auth/callback", authHandler.VerifyCallback)

	// Page routes: navigation targets for the session guard. The dashboard
	// UI itself ships separately and talks to /api.
	for _, p := range []string{
		"/dashboard", "/submissions", "/submissions/{id}",
		"/upload/design", "/upload/website",
		"/signin", "/signup", "/verify-email",
	} {
		r.Get(p, pageShell)
	}

	// Auth routes (public)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/me", authHandler.Me)
	})

	// Review routes (protected)
	r.Route("/api/submissions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Get("/", reviewHandler.List)
		r.Get("/{id}", reviewHandler.Get)
		r.Post("/{id}/status", reviewHandler.UpdateStatus)
		r.Post("/{id}/approve", reviewHandler.Approve)
		r.Get("/{id}/history", reviewHandler.History)
		r.Get("/{id}/resubmit", reviewHandler.Resubmit)
	})

	// Upload routes (protected)
	r.Route("/api/upload", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Post("/design", uploadHandler.Design)
		r.Post("/website", uploadHandler.Website)
		r.Get("/prefill", uploadHandler.Prefill)
	})

	// Dashboard routes (protected)
	r.With(middleware.RequireAuth(sessions)).Get("/api/dashboard/stats", dashboardHandler.Get)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

func pageShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html><html><head><title>Gridrr Admin</title></head><body><div id="root"></div></body></html>`)
}
