package handlers

import (
	"net/http"
	"strings"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/middleware"
	"travel_crm_backend/internal/models"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	rules := map[string]validator.Func{
		"calendar_date": func(fl validator.FieldLevel) bool {
			return core.IsCalendarDate(fl.Field().String())
		},
		"sale_status": func(fl validator.FieldLevel) bool {
			return models.IsValidSaleStatus(fl.Field().String())
		},
		"sale_category": func(fl validator.FieldLevel) bool {
			return models.IsValidSaleCategory(fl.Field().String())
		},
		"payment_method": func(fl validator.FieldLevel) bool {
			return models.IsValidPaymentMethod(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// accountID returns the authenticated account, set by AuthMiddleware.
func accountID(c *gin.Context) string {
	return c.GetString(middleware.ContextAccountID)
}

// confirmed reads the ?confirm=true flag destructive endpoints require.
func confirmed(c *gin.Context) bool {
	return utils.IsTruthy(c.Query("confirm"))
}

func respondInternal(c *gin.Context, message string) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, message, "Internal error"))
}

func respondBindError(c *gin.Context, handler string, err error) {
	utils.LogError(err, handler+": Failed to bind request")
	utils.RespondValidationFailed(c, err.Error())
}

// optionalQuery returns nil for an absent or blank query parameter.
func optionalQuery(c *gin.Context, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}
