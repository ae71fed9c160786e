package app

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookvault/internal/auth"
	"bookvault/internal/config"
	"bookvault/internal/handlers"
	"bookvault/internal/middleware"
	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/services"
	"bookvault/internal/storage"
)

// bodyLimit leaves room for audio uploads plus form overhead.
const bodyLimit = 110 << 20

// Deps are the collaborators the HTTP app is built from.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Notifier services.AccountNotifier
	Store    storage.ObjectStore
	// HashCost overrides the bcrypt cost. Zero selects auth.DefaultHashCost.
	HashCost int
}

// App is the assembled HTTP application.
type App struct {
	Fiber    *fiber.App
	Auth     *services.AuthService
	Users    repositories.UserRepository
	Sessions *auth.SessionIssuer
	// Limiter is nil when auth rate limiting is disabled.
	Limiter *middleware.IPRateLimiter
}

// New wires repositories, services, handlers and middleware into a Fiber app.
func New(d Deps) *App {
	cfg, log := d.Config, d.Log

	users := repositories.NewGORMUserRepository(d.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(d.DB)
	subCategoryRepo := repositories.NewGORMSubCategoryRepository(d.DB)
	bookRepo := repositories.NewGORMBookRepository(d.DB)
	episodeRepo := repositories.NewGORMEpisodeRepository(d.DB)
	sliderRepo := repositories.NewGORMSliderRepository(d.DB)
	cartRepo := repositories.NewGORMCartRepository(d.DB)

	hashCost := d.HashCost
	if hashCost == 0 {
		hashCost = auth.DefaultHashCost
	}
	sessions := auth.NewSessionIssuer(auth.SessionConfig{
		Secret:     cfg.JWTSecret,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.SessionCookieName,
		Production: cfg.IsProduction(),
	})
	authService := services.NewAuthService(users, auth.NewPasswordHasher(hashCost), sessions, d.Notifier, log, services.AuthOptions{
		GenericLoginErrors: cfg.GenericLoginErrors,
		RequireVerifiedOTP: cfg.ResetRequiresVerifiedOTP,
	})
	userService := services.NewUserService(users, d.Store, log)
	categoryService := services.NewCategoryService(categoryRepo, log)
	subCategoryService := services.NewSubCategoryService(subCategoryRepo, categoryRepo, d.Store, log)
	bookService := services.NewBookService(bookRepo, categoryRepo, subCategoryRepo, episodeRepo, d.Store, log)
	episodeService := services.NewEpisodeService(episodeRepo, bookRepo, d.Store, log)
	sliderService := services.NewSliderService(sliderRepo, d.Store, log)
	cartService := services.NewCartService(cartRepo, bookRepo)

	app := fiber.New(fiber.Config{
		AppName:      "bookvault",
		ErrorHandler: handlers.ErrorHandler(log),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    bodyLimit,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowCredentials: cfg.FrontendURL != "*",
	}))
	app.Use(middleware.RequestLogger(log))

	guards := handlers.Guards{
		Auth:  middleware.AuthRequired(authService, sessions.CookieName()),
		Staff: middleware.RestrictTo(models.RoleAdmin, models.RoleModerator),
	}

	var limiter *middleware.IPRateLimiter
	authOpts := handlers.AuthHandlerOptions{ResetOTPRequiresAuth: cfg.ResetOTPRequiresAuth}
	if cfg.AuthRateLimitPerMin > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.AuthRateLimitPerMin, cfg.AuthRateLimitBurst, log)
		authOpts.RateLimit = limiter.Handler()
	}

	app.Get("/health", handlers.HandleHealth)
	if mem, ok := d.Store.(*storage.MemoryStore); ok {
		handlers.NewFileHandler(mem).RegisterRoutes(app)
	}

	api := app.Group("/api")
	handlers.NewAuthHandler(authService, userService, sessions, guards, authOpts).RegisterRoutes(api)
	handlers.NewCategoryHandler(categoryService, guards).RegisterRoutes(api)
	handlers.NewSubCategoryHandler(subCategoryService, guards).RegisterRoutes(api)
	handlers.NewBookHandler(bookService, guards).RegisterRoutes(api)
	handlers.NewEpisodeHandler(episodeService, guards).RegisterRoutes(api)
	handlers.NewSliderHandler(sliderService, guards).RegisterRoutes(api)
	handlers.NewCartHandler(cartService, guards).RegisterRoutes(api)

	return &App{
		Fiber:    app,
		Auth:     authService,
		Users:    users,
		Sessions: sessions,
		Limiter:  limiter,
	}
}
