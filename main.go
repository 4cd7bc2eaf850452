package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gudang/internal/cache"
	"gudang/internal/handlers"
	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"
	"gudang/pkg/rabbitmq"
)

// App bundles the wired application so main and tests share one
// construction path.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService
	Cache cache.Store

	mq *rabbitmq.Client
}

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("JWT_SECRET", "change_me")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RESET_BASE_URL", "http://localhost:8080/reset-password")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	app, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer app.Close()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires configuration, storage, cache, broker, services and
// routes into a ready-to-listen application. Redis and RabbitMQ are
// optional; the app degrades to an in-process cache and no events.
func NewApp() (*App, error) {
	// --- Database ---
	db, err := gorm.Open(openDialector(viper.GetString("DATABASE_DSN")), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, err
	}

	// --- Cache ---
	var store cache.Store = cache.NewMemoryStore()
	if addr := viper.GetString("REDIS_ADDR"); addr != "" {
		redisStore, err := cache.NewRedisStore(addr)
		if err != nil {
			log.Printf("Warning: %v. Falling back to in-process cache.", err)
		} else {
			store = redisStore
		}
	}

	// --- Message broker (optional) ---
	var mq *rabbitmq.Client
	var events services.EventPublisher
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Printf("Warning: %v. Product events disabled.", err)
			mq = nil
		} else {
			events = mq
		}
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Services ---
	productService := services.NewLocalProductService(productRepo, events)
	cachedProducts := services.NewCachedProductService(productService, store)
	authService := services.NewAuthService(
		userRepo,
		viper.GetString("JWT_SECRET"),
		services.LogMailer{},
		viper.GetString("RESET_BASE_URL"),
	)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(cachedProducts)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Fiber app and routes ---
	f := fiber.New()
	f.Use(logger.New())

	apiV1 := f.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	productHandler.RegisterRoutes(protectedRoutes)

	f.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Mutation events from other instances drop this instance's cached
	// entries for the affected owner.
	if mq != nil {
		err := mq.ConsumeProductEvents(func(event rabbitmq.ProductEvent) error {
			return store.Delete(
				context.Background(),
				cache.ProductsKey(event.UserID),
				cache.ProductKey(event.UserID, event.ProductID),
			)
		})
		if err != nil {
			log.Printf("Warning: failed to start product event consumer: %v", err)
		}
	}

	return &App{
		Fiber: f,
		Auth:  authService,
		Cache: store,
		mq:    mq,
	}, nil
}

// Close releases the app's long-lived resources.
func (a *App) Close() {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
}

// openDialector picks the database driver from the DSN: empty means a
// local SQLite file, file:-style DSNs stay on SQLite, anything else is
// treated as PostgreSQL.
func openDialector(dsn string) gorm.Dialector {
	switch {
	case dsn == "":
		return sqlite.Open("gudang.db")
	case strings.HasPrefix(dsn, "file:") || strings.HasPrefix(dsn, ":memory:"):
		return sqlite.Open(dsn)
	default:
		return postgres.Open(dsn)
	}
}
