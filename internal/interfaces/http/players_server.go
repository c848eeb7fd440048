package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/service"
)

// PlayersServer serves the team condition tracker API.
type PlayersServer struct {
	config   ServerConfig
	router   *gin.Engine
	handlers *playersHandlers
	logger   *zap.Logger
}

func NewPlayersServer(cfg ServerConfig, playersService *service.PlayersService, logger *zap.Logger) *PlayersServer {
	s := &PlayersServer{
		config: cfg,
		router: newRouter(logger),
		handlers: &playersHandlers{
			service: playersService,
			logger:  logger,
		},
		logger: logger,
	}
	s.setupRoutes()
	return s
}

func (s *PlayersServer) setupRoutes() {
	s.router.GET("/health", healthHandler("1.0.0"))

	s.router.POST("/api/login", s.handlers.Login)

	api := s.router.Group("/api")
	api.Use(s.handlers.authRequired())
	{
		api.POST("/logout", s.handlers.Logout)

		api.GET("/players", s.handlers.ListPlayers)
		api.POST("/players", s.handlers.adminOnly(), s.handlers.CreatePlayer)
		api.PUT("/players/:name", s.handlers.adminOnly(), s.handlers.UpdatePlayer)
		api.POST("/players/:name/image", s.handlers.adminOnly(), s.handlers.UploadImage)
		api.GET("/players/:name/summary", s.handlers.PlayerSummary)

		api.POST("/conditions", s.handlers.SubmitCondition)
		api.DELETE("/conditions", s.handlers.DeleteCondition)

		api.POST("/physicals", s.handlers.adminOnly(), s.handlers.AddPhysical)
		api.DELETE("/physicals/:id", s.handlers.adminOnly(), s.handlers.DeletePhysical)

		api.GET("/dashboard/status", s.handlers.adminOnly(), s.handlers.TeamStatus)
		api.GET("/dashboard/leaderboards", s.handlers.Leaderboards)
		api.GET("/dashboard/missing", s.handlers.adminOnly(), s.handlers.MissingToday)
	}
}

// Start blocks until the context is cancelled or the listener fails.
func (s *PlayersServer) Start(ctx context.Context) error {
	return serve(ctx, s.config, s.router, s.logger)
}

// Router exposes the gin engine for tests.
func (s *PlayersServer) Router() *gin.Engine { return s.router }
