package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// GetErrorMsg converts the first validation error into a human readable message.
func GetErrorMsg(ve validator.ValidationErrors) string {
	fe := ve[0]

	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("%s must not equal %s", fe.Field(), fe.Param())
	}

	return fe.Field() + " is invalid"
}
