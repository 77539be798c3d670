package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/shopverse/storefront/docs"
	"github.com/shopverse/storefront/internal/api/handler"
	"github.com/shopverse/storefront/internal/api/middleware"
	"github.com/shopverse/storefront/internal/core/domain"
	"github.com/shopverse/storefront/internal/core/service"
	"github.com/shopverse/storefront/internal/infrastructure/config"
	mongodb "github.com/shopverse/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/shopverse/storefront/internal/infrastructure/db/redis"
	"github.com/shopverse/storefront/internal/infrastructure/storage"
)

// imagePrefix is the public path uploaded product images are served under.
const imagePrefix = "/images"

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Dependencies ---
	images, err := storage.NewLocalImageStore(cfg.ImageDir, imagePrefix, log)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	idemStore := redisdb.NewIdempotencyStore(rdb)

	authService := service.NewAuthService(userRepo, service.TokenSettings{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	catalogService := service.NewCatalogService(productRepo, images, log)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, idemStore, log)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)

	authRequired := middleware.Auth(authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	customerOnly := middleware.RBAC(domain.RoleCustomer)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog routes ---
	products := e.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/public", productHandler.Public)
	products.GET("/categories", productHandler.Categories)
	products.GET("/:id", productHandler.Get)

	// admin mutations, multipart bodies capped at 10 MB
	products.POST("", productHandler.Create, authRequired, adminOnly, echomiddleware.BodyLimit("10M"))
	products.PUT("/:id", productHandler.Update, authRequired, adminOnly, echomiddleware.BodyLimit("10M"))
	products.DELETE("/:id", productHandler.Delete, authRequired, adminOnly)

	// --- Order routes ---
	orders := e.Group("/orders", authRequired)
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.ListAll, adminOnly)
	orders.GET("/my", orderHandler.ListMine, customerOnly)
	orders.GET("/:id", orderHandler.Get)

	// --- Static images ---
	e.Static(imagePrefix, cfg.ImageDir)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
