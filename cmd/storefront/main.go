package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/pricing"
	"github.com/fjod/go_storefront/internal/recommend"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	h "github.com/fjod/go_storefront/internal/http"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Cart persistence
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartRepo := repository.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.Printf("failed to create cart indexes: %v", err)
	}

	// Catalog store
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	if err := catalogRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog database ready at %s", cfg.CatalogDBPath)

	// Catalog cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	catalogSvc := catalog.NewService(catalogRepo, catalog.NewRedisCache(redisClient))

	// Order hand-off
	publisher := checkout.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	engine := pricing.NewEngine(cfg.DiscountCode)
	carts := cart.NewManager(cartRepo)
	checkoutSvc := checkout.NewService(engine, publisher)
	recommender := recommend.NewClient(cfg.RecommenderURL, cfg.RequestTimeout)

	cartHandler := h.NewCartHandler(carts, catalogSvc, engine, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(carts, checkoutSvc, engine, cfg.RequestTimeout)
	catalogHandler := h.NewCatalogHandler(catalogSvc, cfg.RequestTimeout)
	recommendHandler := h.NewRecommendHandler(recommender, cfg.RequestTimeout, cfg.MaxUploadSize)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.ListEntities)
			r.Post("/{kind}", catalogHandler.CreateEntity)
			r.Get("/{kind}/{id}", catalogHandler.GetEntity)
			r.Delete("/{kind}/{id}", catalogHandler.DeleteEntity)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{kind}/{id}/{size}", cartHandler.UpdateQuantity)
			r.Delete("/items/{kind}/{id}/{size}", cartHandler.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/quote", checkoutHandler.Quote)
			r.Post("/order", checkoutHandler.PlaceOrder)
		})
		r.Post("/recommendations", recommendHandler.Recommend)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	disconnectMongo(ctx, mongoDB)
	if err := catalogRepo.Close(); err != nil {
		log.Printf("failed to close catalog database: %v", err)
	}

	log.Println("server exited")
}

func disconnectMongo(ctx context.Context, db *mongo.Database) {
	if err := db.Client().Disconnect(ctx); err != nil {
		log.Printf("failed to disconnect MongoDB: %v", err)
	}
}
