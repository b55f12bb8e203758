package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/store"
)

// Pipeline is what the transport needs from the conversation engine.
type Pipeline interface {
	Process(ctx context.Context, userID, text string) (string, error)
	Notification(ctx context.Context, userID string) string
	RunDaily(ctx context.Context) error
}

type Server struct {
	engine Pipeline
	store  store.Store
	log    *zap.Logger
}

func NewServer(engine Pipeline, st store.Store, log *zap.Logger) *Server {
	return &Server{engine: engine, store: st, log: log}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.GET("/health/store", s.StoreHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/chat", s.Chat)
	r.POST("/notification", s.Notification)
	r.POST("/tasks/daily", s.Daily)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) StoreHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.Error("store health check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store is not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "store is initialized and working"})
}

type ChatRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format."})
		return
	}
	if req.Email == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide 'email' and 'message'."})
		return
	}

	reply, err := s.engine.Process(c.Request.Context(), req.Email, req.Message)
	if err != nil {
		s.log.Error("chat processing failed", zap.String("user", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}

type NotificationRequest struct {
	Email string `json:"email"`
}

func (s *Server) Notification(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide 'email'."})
		return
	}

	text := s.engine.Notification(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"notification": text})
}

func (s *Server) Daily(c *gin.Context) {
	if err := s.engine.RunDaily(c.Request.Context()); err != nil {
		s.log.Error("daily maintenance failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Daily maintenance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
