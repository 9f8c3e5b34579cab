package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"landing-waitlist/pkg/metrics"
	"landing-waitlist/pkg/middleware"
	"landing-waitlist/pkg/models"
	"landing-waitlist/pkg/services"
)

var registerOnce sync.Once

// registerValidators adds the waitlist_email rule to gin's validator
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("waitlist_email", func(fl validator.FieldLevel) bool {
				return models.ValidEmail(fl.Field().String())
			})
		}
	})
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissionService services.WaitlistSubmissionService
	metrics           *metrics.Metrics
}

// NewHandlers creates a new Handlers instance. m may be nil.
func NewHandlers(submissionService services.WaitlistSubmissionService, m *metrics.Metrics) *Handlers {
	registerValidators()
	return &Handlers{
		submissionService: submissionService,
		metrics:           m,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HandleJoin validates a waitlist signup and stores it
func (h *Handlers) HandleJoin(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req models.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		msg := bindErrorMessage(err)
		logger.Debug().Err(err).Msg("Rejected join request")
		h.metrics.Signup(metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	err := h.submissionService.ProcessSignup(c.Request.Context(), req, ClientInfo(c.Request))

	var validationErr *services.ValidationError
	var storeErr *services.StoreError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, models.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, models.ErrServerNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server not configured"})
	case errors.As(err, &storeErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": storeErr.Message()})
	default:
		logger.Error().Err(err).Msg("Unexpected error handling join request")
		c.JSON(http.StatusBadRequest, gin.H{"error": services.MsgInvalidRequest})
	}
}

// bindErrorMessage turns a binding failure into the message shown to the visitor
func bindErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			if fe.Field() != "Email" {
				continue
			}
			if fe.Tag() == "required" {
				return services.MsgEmailRequired
			}
			return services.MsgInvalidEmail
		}
		return services.MsgInvalidRequest
	}

	// email sent as a number, object or array
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "email" {
		return services.MsgEmailRequired
	}
	return services.MsgInvalidRequest
}

// ClientInfo reads the caller's address and agent from proxy headers
func ClientInfo(r *http.Request) models.ClientInfo {
	ip := r.Header.Get("X-Forwarded-For")
	if first, _, found := strings.Cut(ip, ","); found {
		ip = first
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	}

	return models.ClientInfo{
		IP:    ip,
		Agent: r.UserAgent(),
	}
}
