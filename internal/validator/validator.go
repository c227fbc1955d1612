// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"networth/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("link_kind", validateLinkKind)
		_ = v.RegisterValidation("source", validateSource)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	value := models.TransactionType(fl.Field().String())
	for _, known := range models.TransactionTypes {
		if value == known {
			return true
		}
	}
	return false
}

func validateLinkKind(fl validator.FieldLevel) bool {
	switch models.LinkKind(fl.Field().String()) {
	case models.LinkSecurity, models.LinkOtherAsset, models.LinkLiability:
		return true
	}
	return false
}

func validateSource(fl validator.FieldLevel) bool {
	switch models.Source(fl.Field().String()) {
	case models.SourceManual, models.SourceSnapTrade, models.SourcePlaid:
		return true
	}
	return false
}
