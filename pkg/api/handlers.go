package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neurostream/intake/pkg/middleware"
	"github.com/neurostream/intake/pkg/services"
)

// Submissions are small; message and use case are capped well below this
const maxBodyBytes = 64 << 10

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	intake services.IntakeService
	log    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(intake services.IntakeService, log *zap.Logger) *Handlers {
	return &Handlers{
		intake: intake,
		log:    log.Named("api"),
	}
}

// NewRouter wires middleware and routes for one intake deployment
func NewRouter(h *Handlers, log *zap.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log.Named("http")),
		middleware.Recovery(log),
		middleware.CORS(allowedOrigins),
	)

	router.POST("/", h.HandleSubmission)
	router.GET("/", h.HandleLiveness)
	router.GET("/health", h.HealthCheck)
	return router
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HandleLiveness answers GET with the fixed plaintext string and has no side effects
func (h *Handlers) HandleLiveness(c *gin.Context) {
	c.String(http.StatusOK, h.intake.Liveness())
}

// HandleSubmission persists a posted record and always answers with an envelope
func (h *Handlers) HandleSubmission(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, services.Envelope{Error: "Request body too large"})
			return
		}
		h.log.Warn("error reading request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, services.Envelope{Error: "Error reading request"})
		return
	}

	env, err := h.intake.Process(c.Request.Context(), body)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, env)
	case services.IsInputError(err):
		c.JSON(http.StatusBadRequest, env)
	default:
		c.JSON(http.StatusInternalServerError, env)
	}
}
