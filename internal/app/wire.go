package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ketball/backend/internal/auth"
	"github.com/ketball/backend/internal/guard"
	"github.com/ketball/backend/internal/handler"
	"github.com/ketball/backend/internal/infra"
	"github.com/ketball/backend/internal/repository"
	"github.com/ketball/backend/internal/scheduler"
	"github.com/ketball/backend/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool      *pgxpool.Pool
	JWTMgr    *auth.JWTManager
	Publisher *infra.EventPublisher
	Logger    *slog.Logger

	LoginAttempts int
	LoginWindow   time.Duration

	SweepGrace time.Duration
	WaitingTTL time.Duration
}

// App is the assembled application: the HTTP router plus the background
// sweeper, wired over one connection pool.
type App struct {
	Router  chi.Router
	Sweeper *scheduler.Sweeper
}

// New assembles repositories, services, handlers, and the sweeper.
func New(deps RouterDeps) *App {
	pool := deps.Pool
	logger := deps.Logger

	// Repositories
	playerRepo := repository.NewPlayerRepository()
	gameRepo := repository.NewGameRepository()
	eventRepo := repository.NewEventRepository()
	queueRepo := repository.NewQueueRepository()
	authUserRepo := repository.NewAuthUserRepository()

	// Services
	loginLimiter := guard.NewRateLimiter(deps.LoginAttempts, deps.LoginWindow)
	authSvc := service.NewAuthService(pool, authUserRepo, playerRepo, deps.JWTMgr, loginLimiter)
	playerSvc := service.NewPlayerService(pool, playerRepo)
	matchSvc := service.NewMatchService(pool, gameRepo, playerRepo, queueRepo, logger)
	gameSvc := service.NewGameService(pool, gameRepo, playerRepo, eventRepo, deps.Publisher, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	playerHandler := handler.NewPlayerHandler(playerSvc)
	gameHandler := handler.NewGameHandler(playerSvc, matchSvc, gameSvc)

	// Background sweeper
	sweeper := scheduler.NewSweeper(pool, gameRepo, queueRepo, gameSvc, deps.SweepGrace, deps.WaitingTTL, logger)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Player-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(deps.JWTMgr))

		r.Route("/players", func(r chi.Router) {
			r.Get("/me", playerHandler.GetMe)
			r.Patch("/me/username", playerHandler.UpdateUsername)
			r.Patch("/me/color", playerHandler.UpdateAvatarColor)
			r.Get("/{playerID}", playerHandler.GetPlayer)
		})

		r.Get("/leaderboard", playerHandler.Leaderboard)

		r.Route("/games", func(r chi.Router) {
			r.Post("/matchmake", gameHandler.Matchmake)
			r.Get("/active", gameHandler.GetActive)
			r.Get("/recent", gameHandler.Recent)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", gameHandler.GetGame)
				r.Get("/events", gameHandler.GetEvents)
				r.Post("/score", gameHandler.Score)
				r.Post("/time", gameHandler.UpdateTime)
				r.Post("/end", gameHandler.End)
				r.Post("/leave", gameHandler.Leave)
			})
		})
	})

	return &App{Router: r, Sweeper: sweeper}
}
