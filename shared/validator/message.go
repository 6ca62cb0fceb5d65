package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"email":    "{field} must be a valid email address",
		"eq":       "{field} must be {param}",
		"datetime": "{field} must be in {param} format",
		"clock":    "{field} must be in HH:MM format",
	}

	collectionMessages = map[string]string{
		"min": "{field} must contain at least {param} item(s)",
	}

	stringMessages = map[string]string{
		"min": "{field} must be at least {param} characters long",
	}
)

func lookup(valErr val.FieldError) string {
	switch valErr.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if msg, ok := collectionMessages[valErr.Tag()]; ok {
			return msg
		}
	case reflect.String:
		if msg, ok := stringMessages[valErr.Tag()]; ok {
			return msg
		}
	}

	return messages[valErr.Tag()]
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			field := valErr.Field()
			param := valErr.Param()

			errStr := lookup(valErr)
			if errStr != "" {
				errStr = strings.ReplaceAll(errStr, "{field}", field)
				errStr = strings.ReplaceAll(errStr, "{param}", param)

				return errStr
			}
		}

		return valErrors.Error()
	}

	return err.Error()
}
