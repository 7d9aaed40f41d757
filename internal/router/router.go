package router

import (
	"context"
	"fmt"
	"log"

	"github.com/anonto42/loop/backend/internal/handlers"
	"github.com/anonto42/loop/backend/internal/middleware"
	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
	"github.com/anonto42/loop/backend/internal/services"
	"github.com/anonto42/loop/backend/internal/validators"
	"github.com/anonto42/loop/backend/pkg/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the process-level resources the routes are built from.
type Dependencies struct {
	Config *config.Config
	SQL    *gorm.DB
	Mongo  *mongo.Client
	// Firebase is nil when no credentials are configured.
	Firebase services.TokenVerifier
	Logger   zerolog.Logger
	// Clock defaults to services.SystemClock.
	Clock services.Clock
}

// New builds a fully wired Echo instance.
func New(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	SetupMiddleware(e, deps.Config, deps.Logger)
	if err := SetupRoutes(e, deps); err != nil {
		return nil, err
	}
	return e, nil
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, base zerolog.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(base))
	e.Use(eMiddleware.CORSWithConfig(cfg.CORS()))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	cfg := deps.Config
	db := deps.SQL

	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate models: %w", err)
	}
	log.Println("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}))

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	storyRepo := repositories.NewPostgresStoryRepository(db)

	var historyRepo repositories.SearchHistoryRepository = repositories.NewPostgresSearchHistoryRepository(db)
	if cfg.SearchHistoryStore == "mongo" {
		if deps.Mongo == nil {
			return fmt.Errorf("SEARCH_HISTORY_STORE=mongo requires a MongoDB client")
		}
		mongoRepo := repositories.NewMongoSearchHistoryRepository(deps.Mongo.Database(cfg.MongoDatabase))
		if err := mongoRepo.EnsureIndexes(context.Background()); err != nil {
			return fmt.Errorf("create search history indexes: %w", err)
		}
		historyRepo = mongoRepo
		log.Println("Search history stored in MongoDB.")
	}

	// --- Initialize Services ---
	clock := deps.Clock
	if clock == nil {
		clock = services.SystemClock
	}
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, deps.Firebase)
	engagementService := services.NewEngagementService(userRepo, postRepo, likeRepo, bookmarkRepo, commentRepo, followRepo)
	postService := services.NewPostService(postRepo, engagementService)
	interactionService := services.NewInteractionService(userRepo, postRepo, likeRepo, bookmarkRepo, followRepo)
	commentService := services.NewCommentService(postRepo, commentRepo)
	storyService := services.NewStoryService(storyRepo, followRepo, clock)
	userService := services.NewUserService(userRepo, postRepo, followRepo)
	historyService := services.NewSearchHistoryService(historyRepo, clock)

	// Every /api route resolves an optional viewer; mutating routes add RequireAuth.
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(authService))

	handlers.NewAuthHandler(authService).RegisterAuthRoutes(api.Group("/auth"))
	log.Println("Auth routes configured.")

	handlers.NewPostHandler(postService, engagementService).RegisterPostRoutes(api)
	handlers.NewLikeHandler(interactionService).RegisterLikeRoutes(api)
	handlers.NewBookmarkHandler(interactionService).RegisterBookmarkRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	log.Println("Post routes configured.")

	handlers.NewFeedHandler(engagementService).RegisterFeedRoutes(api)
	handlers.NewSearchHandler(engagementService, historyService).RegisterSearchRoutes(api)
	log.Println("Explore, reels and search routes configured.")

	handlers.NewUserHandler(userService, engagementService).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(interactionService).RegisterFollowRoutes(api)
	log.Println("User routes configured.")

	handlers.NewStoryHandler(storyService).RegisterStoryRoutes(api)
	log.Println("Story routes configured.")

	log.Println("All routes configured.")
	return nil
}
