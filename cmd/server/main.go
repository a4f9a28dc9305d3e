package main

import (
	"context"
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

	"github.com/sandeul/website-backend/internal/admin"
	"github.com/sandeul/website-backend/internal/auth"
	"github.com/sandeul/website-backend/internal/config"
	"github.com/sandeul/website-backend/internal/contact"
	"github.com/sandeul/website-backend/internal/middleware"
	"github.com/sandeul/website-backend/internal/notice"
	"github.com/sandeul/website-backend/internal/product"
	"github.com/sandeul/website-backend/internal/setting"
	"github.com/sandeul/website-backend/internal/store"
	"github.com/sandeul/website-backend/internal/upload"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	users := store.NewPostgresStore(pgPool)
	if err := users.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)
	notices := store.NewNoticeStore(mongoDB)
	products := store.NewProductStore(mongoDB)
	contacts := store.NewContactStore(mongoDB)
	settings := store.NewSettingStore(mongoDB)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	settingCache := setting.NewCache(rdb)

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}
	uploads := upload.NewSaver(minioStore)

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenService(cfg.JWTSecret)
	authHandler := auth.NewHandler(users, tokens)
	noticeHandler := notice.NewHandler(notices, uploads)
	productHandler := product.NewHandler(products, uploads)
	contactHandler := contact.NewHandler(contacts, uploads)
	settingHandler := setting.NewHandler(settings, settingCache, uploads)
	adminHandler := admin.NewHandler(notices, products, contacts)

	requireAuth := middleware.RequireAuth(tokens, users)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Uploaded files
	r.Get("/uploads/*", upload.ServeFile(minioStore))

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Get("/me", authHandler.Me)
		r.With(requireAuth).Post("/change-password", authHandler.ChangePassword)
		r.With(requireAuth, middleware.RequireAdmin).Post("/users", authHandler.CreateUser)
	})

	// Notices (reads public, writes admin)
	r.Route("/api/notices", func(r chi.Router) {
		r.Get("/", noticeHandler.List)
		r.Get("/{id}", noticeHandler.Get)
		r.With(requireAuth, middleware.RequireAdmin).Post("/", noticeHandler.Create)
		r.With(requireAuth, middleware.RequireAdmin).Put("/{id}", noticeHandler.Update)
		r.With(requireAuth, middleware.RequireAdmin).Delete("/{id}", noticeHandler.Delete)
	})

	// Products (reads public, writes admin)
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.Get)
		r.With(requireAuth, middleware.RequireAdmin).Post("/", productHandler.Create)
		r.With(requireAuth, middleware.RequireAdmin).Put("/{id}", productHandler.Update)
		r.With(requireAuth, middleware.RequireAdmin).Delete("/{id}", productHandler.Delete)
	})

	// Contact form (create public, the rest admin)
	r.Route("/api/contact", func(r chi.Router) {
		r.Post("/", contactHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireAdmin)
			r.Get("/", contactHandler.List)
			r.Get("/{id}", contactHandler.Get)
			r.Patch("/{id}/status", contactHandler.UpdateStatus)
			r.Patch("/{id}/assign", contactHandler.Assign)
			r.Post("/{id}/responses", contactHandler.AddResponse)
		})
	})

	// Settings (reads public, writes admin)
	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/", settingHandler.GetAll)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireAdmin)
			r.Put("/menu/update", settingHandler.UpdateMenu)
			r.Post("/upload/{fileType}", settingHandler.UploadFile)
			r.Put("/{type}", settingHandler.Put)
		})
		r.Get("/{type}", settingHandler.Get)
	})

	// Back office
	r.Route("/api/admin", func(r chi.Router) {
		r.With(requireAuth).Get("/dashboard", adminHandler.Dashboard)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireAdmin)
			r.Get("/check-admin", adminHandler.CheckAdmin)
			r.Post("/notices/bulk", adminHandler.NoticesBulk)
			r.Post("/products/bulk", adminHandler.ProductsBulk)
			r.Post("/contacts/bulk", adminHandler.ContactsBulk)
		})
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
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
