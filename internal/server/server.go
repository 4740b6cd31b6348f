package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/api"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/classifier"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/config"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dispatch"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/session"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
	api    *api.Handler
}

// NewServer wires the session store, classifier, and API handler into a gin
// engine. The classifier's tool schema is derived from the same dispatch
// catalogue that will validate its output.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	catalogFuncs := dispatch.NewCatalog(nil, nil, nil).Funcs()
	cls := classifier.NewOpenAI(config.APIKey(), cfg.OpenAI.Model, catalogFuncs)
	handler := api.NewHandler(session.NewStore(), cls)

	s := &Server{
		router: gin.Default(),
		api:    handler,
	}

	s.setupRoutes()

	return s
}

// setupRoutes registers middleware, the API group, and the embedded front
// end.
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	sub, _ := fs.Sub(staticFiles, "static")

	s.router.GET("/", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})

	s.router.NoRoute(func(c *gin.Context) {
		data, _ := fs.ReadFile(sub, "index.html")
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
