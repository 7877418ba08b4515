package handler

import (
	"errors"
	"net/http"
	"reflect"
	"sync"

	"ticketify/internal/model"
	apperrors "ticketify/pkg/app_errors"
	"ticketify/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidators installs the domain validation tags on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return model.Category(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("signup_role", func(fl validator.FieldLevel) bool {
			_, err := model.ParseStoredRole(fl.Field().String())
			return err == nil
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// ParamUUID reads a uuid path parameter, answering 400 when it is malformed.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrProfileNotFound):
		log.Warn("Profile not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, apperrors.ErrAuthRejected):
		log.Warn("Authentication rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, apperrors.ErrForbiddenRole):
		log.Warn("Forbidden role")
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden for this role"})
	case errors.Is(err, apperrors.ErrWriteRejected):
		log.Warn("Write rejected")
		c.JSON(http.StatusForbidden, gin.H{"error": "Write rejected"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrEncodingFailure):
		log.Warn("Encoding failure")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Ticket could not be encoded"})
	case errors.Is(err, apperrors.ErrPurchaseInProgress):
		log.Warn("Purchase in progress")
		c.JSON(http.StatusConflict, gin.H{"error": "Purchase already in progress"})
	case errors.Is(err, apperrors.ErrIdempotencyReused):
		log.Warn("Idempotency key reused")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Idempotency key was used for a different purchase"})
	case errors.Is(err, apperrors.ErrSignOutFailed):
		log.Error("Sign out failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Sign out failed"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func handleSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
