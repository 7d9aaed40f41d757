package validators

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/loop/backend/internal/models"
)

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Surrounding whitespace is trimmed by the services before storing.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidUsername(strings.TrimSpace(fl.Field().String()))
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator. Failures surface as 400.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
