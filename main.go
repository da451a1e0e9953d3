// VibeScape is a music-streaming backend: authentication, a song catalog
// with media uploads, per-user playlists/favorites/history and a shared
// comment wall. The player state machine and catalog cache used by clients
// live in the player and songcache packages.
//
// @title VibeScape API
// @version 1.0
// @description Music streaming API: auth, song catalog, playlists, favorites, history and comments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/santhiya1818/vibescape/auth"
	"github.com/santhiya1818/vibescape/catalog"
	"github.com/santhiya1818/vibescape/collections"
	"github.com/santhiya1818/vibescape/comments"
	"github.com/santhiya1818/vibescape/config"
	"github.com/santhiya1818/vibescape/db"
	_ "github.com/santhiya1818/vibescape/docs" // generated Swagger spec
	"github.com/santhiya1818/vibescape/logger"
	"github.com/santhiya1818/vibescape/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(os.Getenv("APP_ENV") != "production")
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	media, err := catalog.NewMediaStore(cfg.Media.Dir)
	if err != nil {
		zapLogger.Fatal("failed to create media store", zap.Error(err))
	}

	authService := auth.NewService(pool, *cfg.Auth, zapLogger)
	authHandlers := auth.NewHandlers(authService)

	if err := authService.EnsureDefaultAdmin(context.Background()); err != nil {
		zapLogger.Fatal("failed to ensure default admin", zap.Error(err))
	}

	catalogService := catalog.NewService(pool, media, zapLogger)
	catalogHandlers := catalog.NewHandlers(catalogService, media)

	collectionsHandlers := collections.NewHandlers(collections.NewService(pool, zapLogger))
	commentHandler := comments.NewHandler(comments.NewService(pool))
	userHandlers := users.NewHandlers(users.NewService(pool, zapLogger))

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(zapLogger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Credential endpoints are rate limited per IP.
	r.Group(func(r chi.Router) {
		r.Use(auth.RateLimit(cfg.RateLimit))
		r.Post("/api/register", authHandlers.HandleRegister())
		r.Post("/api/login", authHandlers.HandleLogin())
		r.Post("/api/forgot-password", authHandlers.HandleForgotPassword())
		r.Post("/api/reset-password", authHandlers.HandleResetPassword())
	})

	// Public reads.
	r.Get("/api/songs", catalogHandlers.HandleListSongs())
	commentHandler.RegisterPublicRoutes(r)

	// Signed-in users.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))
		collectionsHandlers.RegisterRoutes(r)
		commentHandler.RegisterRoutes(r)
		userHandlers.RegisterRoutes(r)
	})

	// Catalog mutation is admin only.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))
		r.Use(auth.RequireAdmin)
		r.Post("/api/upload", catalogHandlers.HandleUpload())
		r.Delete("/api/songs/{id}", catalogHandlers.HandleDelete())
		r.Get("/api/admin/verify", authHandlers.HandleAdminVerify())
	})

	// Uploaded media is served straight off disk.
	serveMedia(r, cfg.Media.Dir, catalog.KindSong)
	serveMedia(r, cfg.Media.Dir, catalog.KindAlbumArt)
	serveMedia(r, cfg.Media.Dir, catalog.KindArtistArt)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("forced shutdown", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

// serveMedia mounts one media subdirectory, e.g. /songs/* onto
// <mediaDir>/songs.
func serveMedia(r chi.Router, mediaDir, kind string) {
	prefix := "/" + kind + "/"
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(mediaDir+"/"+kind)))
	r.Get(prefix+"*", fs.ServeHTTP)
}

// requestLogger logs each request with its status and duration. Panics are
// handled by chi's Recoverer, registered inside this middleware, so by the
// time the deferred log runs the wrapped writer already carries the 500.
func requestLogger(l *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				l.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
