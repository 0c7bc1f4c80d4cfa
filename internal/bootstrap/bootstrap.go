package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/materias/internal/app/controllers"
	appMigrations "github.com/yigit/materias/internal/app/migrations"
	appRepos "github.com/yigit/materias/internal/app/repositories"
	appRoutes "github.com/yigit/materias/internal/app/routes"
	appServices "github.com/yigit/materias/internal/app/services"
	"github.com/yigit/materias/internal/config"
	"github.com/yigit/materias/internal/db"
	appMiddleware "github.com/yigit/materias/internal/middleware"
	pkgAuth "github.com/yigit/materias/internal/pkg/auth"
	"github.com/yigit/materias/internal/pkg/cache"
	"github.com/yigit/materias/internal/pkg/helpers"
	"github.com/yigit/materias/internal/pkg/logger"
	"github.com/yigit/materias/internal/pkg/validation"
	"github.com/yigit/materias/internal/seed"
)

// ConfigPathEnv overrides the default config file location
const ConfigPathEnv = "CONFIG_PATH"

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService     appServices.CourseService
	InstructorService appServices.InstructorService
	ChartService      appServices.ChartService
	ExportService     appServices.ExportService
	AuthService       appServices.AuthService
	Controllers       appRoutes.Controllers
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Cache             cache.Cache
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv(ConfigPathEnv); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "pretty"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	userRepo := appRepos.NewUserRepository(database.Pool)
	if err := seed.CreateDefaultData(ctx, database, userRepo, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// SetupCache connects to Redis when it is enabled. An unreachable Redis disables caching
// instead of failing startup.
func SetupCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) cache.Cache {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, chart caching off")
		return cache.Noop{}
	}

	redisCache, err := cache.NewRedis(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   "materias:",
	})
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, chart caching off")
		return cache.Noop{}
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
	return redisCache
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, chartCache cache.Cache, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, Cache: chartCache}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.ChartService = appServices.NewChartService(
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		chartCache,
		helpers.ParseDuration(cfg.Redis.ChartTTL, 5*time.Minute),
	)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.ChartService)
	deps.ExportService = appServices.NewExportService(deps.Repos.CourseRepository)
	deps.InstructorService = appServices.NewInstructorService(deps.Repos.UserRepository)
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		Catalog:    appControllers.NewCatalogController(database),
		Course:     appControllers.NewCourseController(deps.CourseService, deps.ExportService),
		Instructor: appControllers.NewInstructorController(deps.InstructorService),
		Chart:      appControllers.NewChartController(deps.ChartService),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	binding.Validator = validation.GinValidator{}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(),
		gin.Recovery(),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router, nil
}
