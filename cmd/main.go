package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"github.com/Dnicola11/repuestos/internal/caching"
	"github.com/Dnicola11/repuestos/internal/config"
	"github.com/Dnicola11/repuestos/internal/handlers"
	"github.com/Dnicola11/repuestos/internal/jobs"
	"github.com/Dnicola11/repuestos/internal/logging"
	"github.com/Dnicola11/repuestos/internal/middleware"
	"github.com/Dnicola11/repuestos/internal/repositories"
	"github.com/Dnicola11/repuestos/internal/services"
	"github.com/Dnicola11/repuestos/internal/store"
	"github.com/Dnicola11/repuestos/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		// An ephemeral secret keeps local runs working; restarts invalidate
		// every outstanding token.
		cfg.Auth.JWTSecret = random.String(32)
		logger.Warn("JWT_SECRET not set, generated an ephemeral secret")
	}

	mongoClient, err := database.Connect(cfg.Mongo.URI)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer database.Disconnect(mongoClient)
	logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	db := mongoClient.Database(cfg.Mongo.Database)
	partRepo := repositories.NewPartRepository(db.Collection(cfg.Mongo.PartsCollection))
	categoryRepo := repositories.NewCategoryRepository(db.Collection(cfg.Mongo.CategoriesCollection))
	userRepo := repositories.NewUserRepository(db.Collection(cfg.Mongo.UsersCollection))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("user index creation failed", zap.Error(err))
	}

	cache := caching.NewRedisSessionCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	blobs, err := services.NewMinioBlobService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Bucket)
	if err != nil {
		logger.Fatal("blob store client failed", zap.Error(err))
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Fatal("bucket setup failed", zap.Error(err))
	}

	state := store.New()
	auth := services.NewAuthService(userRepo, cache, logger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sessions := services.NewSessionService(state, auth, logger)
	parts := services.NewPartsService(state, partRepo, blobs, logger)
	categories := services.NewCategoriesService(state, categoryRepo, logger)
	images := services.NewImagesService(state, blobs, logger)

	scheduler, err := jobs.NewScheduler(state, cache, logger)
	if err != nil {
		logger.Fatal("job scheduler setup failed", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	healthHandlers := handlers.NewHealthHandlers(mongoClient)
	authHandlers := handlers.NewAuthHandlers(sessions, auth)
	partHandlers := handlers.NewPartHandlers(parts, state)
	categoryHandlers := handlers.NewCategoryHandlers(categories, state)
	imageHandlers := handlers.NewImageHandlers(images)
	stateHandlers := handlers.NewStateHandlers(state)

	e.GET("/health", healthHandlers.Health)
	e.GET("/ready", healthHandlers.Ready)

	v1 := e.Group("/v1")
	v1.POST("/auth/signin", authHandlers.SignIn)
	v1.POST("/auth/register", authHandlers.Register)
	v1.POST("/auth/password-reset", authHandlers.RequestPasswordReset)

	protected := v1.Group("", middleware.JWTMiddleware(auth))
	protected.POST("/auth/signout", authHandlers.SignOut)
	protected.GET("/auth/me", authHandlers.Me)

	protected.GET("/parts", partHandlers.ListParts)
	protected.POST("/parts", partHandlers.CreatePart)
	protected.PATCH("/parts/:id", partHandlers.UpdatePart)
	protected.DELETE("/parts/:id", partHandlers.DeletePart)
	protected.GET("/parts/low-stock", partHandlers.LowStockParts)
	protected.GET("/parts/statistics", partHandlers.Statistics)

	protected.GET("/categories", categoryHandlers.ListCategories)
	protected.POST("/categories", categoryHandlers.CreateCategory)
	protected.PATCH("/categories/:id", categoryHandlers.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	protected.POST("/images", imageHandlers.UploadImage)
	protected.DELETE("/images", imageHandlers.DeleteImage)

	protected.GET("/state", stateHandlers.GetState)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Server.Port))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
