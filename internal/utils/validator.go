package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the validator tags on a request DTO and returns a
// single human-readable message covering every failed field, or nil.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("%s must be exactly %s characters long", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("%s must be numeric", fe.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed validation for %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
