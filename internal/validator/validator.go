// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("severity", validateSeverity)
		_ = v.RegisterValidation("interval", validateInterval)
		_ = v.RegisterValidation("frequency", validateFrequency)
	}
}

func validateSeverity(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "info", "success", "warning", "error":
		return true
	}
	return false
}

func validateInterval(fl validator.FieldLevel) bool {
	return recurrence.Interval(fl.Field().String()).Valid()
}

func validateFrequency(fl validator.FieldLevel) bool {
	return recurrence.Frequency(fl.Field().String()).Valid()
}
