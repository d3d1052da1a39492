package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/medwise/internal/config"
	"github.com/agenthands/medwise/internal/core/apperr"
	"github.com/agenthands/medwise/internal/core/shape"
	"github.com/agenthands/medwise/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// Service is the question and drug lookup surface the handlers call.
type Service interface {
	Ask(ctx context.Context, question string) (shape.AnswerResponse, error)
	CompareDrug(ctx context.Context, drugName string) (shape.DrugResponse, error)
}

type Server struct {
	Service Service
	Config  config.ServerConfig
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

func NewServer(svc Service, cfg config.ServerConfig, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Service: svc,
		Config:  cfg,
		Metrics: m,
		Logger:  logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog(), s.cors())

	r.POST("/ask", s.Ask)
	r.POST("/drug", s.CompareDrug)
	r.GET("/drugs/:name", s.GetDrug)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	return r
}

func (s *Server) cors() gin.HandlerFunc {
	if len(s.Config.AllowedOrigins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = s.Config.AllowedOrigins
	cfg.ExposeHeaders = []string{requestIDHeader}
	return cors.New(cfg)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDHeader)))
	}
}

type AskRequest struct {
	Question string `json:"question"`
}

type DrugRequest struct {
	DrugName string `json:"drugName"`
}

func (s *Server) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &apperr.ValidationError{Field: "body", Message: "Invalid request"})
		return
	}

	resp, err := s.Service.Ask(c.Request.Context(), req.Question)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.Metrics.ObserveRequest(c.FullPath(), "ok")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CompareDrug(c *gin.Context) {
	var req DrugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &apperr.ValidationError{Field: "body", Message: "Invalid request"})
		return
	}
	s.lookup(c, req.DrugName)
}

func (s *Server) GetDrug(c *gin.Context) {
	s.lookup(c, c.Param("name"))
}

func (s *Server) lookup(c *gin.Context, name string) {
	resp, err := s.Service.CompareDrug(c.Request.Context(), name)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.Metrics.ObserveRequest(c.FullPath(), "ok")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) fail(c *gin.Context, err error) {
	class, body := shape.Error(err)
	s.Metrics.ObserveRequest(c.FullPath(), class.String())

	if class == apperr.ClassServer {
		s.Logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.Error(err))
	}
	c.JSON(StatusCode(class), body)
}

// StatusCode maps an error class onto its HTTP status.
func StatusCode(class apperr.Class) int {
	switch class {
	case apperr.ClassClient:
		return http.StatusBadRequest
	case apperr.ClassNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
