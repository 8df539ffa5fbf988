package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datalens/app"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/ports"
)

// Server represents the web server for the analytics API
type Server struct {
	router  *gin.Engine
	logger  *internal.Logger
	data    *DataHandler
	status  *StatusHandler
	origins []string
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config, service *app.AnalyticsService, statuses ports.StatusRepository, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:  gin.Default(),
		logger:  logger,
		data:    NewDataHandler(service, logger),
		status:  NewStatusHandler(statuses, logger),
		origins: cfg.Server.CORSOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(s.corsMiddleware())
}

// corsMiddleware allows the configured origins to reach the API.
// An empty or "*" configuration allows any origin.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	allowAll := len(s.origins) == 0
	allowed := make(map[string]bool, len(s.origins))
	for _, origin := range s.origins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/", s.data.HandleRoot())
		api.POST("/status", s.status.HandleCreateStatus())
		api.GET("/status", s.status.HandleListStatus())

		api.POST("/fetch-data", s.data.HandleFetchData())
		api.GET("/session/:id", s.data.HandleGetSession())
		api.GET("/session/:id/data", s.data.HandleSessionData())
		api.POST("/analyze", s.data.HandleAnalyze())
		api.GET("/session/:id/analytics", s.data.HandleGetAnalytics())
		api.DELETE("/session/:id", s.data.HandleDeleteSession())
	}
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting analytics API on http://%s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
