package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "min":
		if param != "" {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return "Value is too short"
	case "max":
		if param != "" {
			return fmt.Sprintf("Must not exceed %s characters", param)
		}
		return "Value is too long"
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", param)
	case "alphanum":
		return "Value must contain only letters and numbers"
	case "hexadecimal":
		return "Value must be hexadecimal"
	case "startswith":
		return fmt.Sprintf("Value must start with %q", param)
	default:
		return "Invalid value"
	}
}

func getJSONFieldName(structType reflect.Type, fieldName string) string {
	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return fieldName
	}

	return strings.Split(jsonTag, ",")[0]
}

// FormatValidationErrors turns binding failures into per-field messages keyed by JSON name.
// It returns nil for errors that are neither validation nor type-mismatch failures.
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{
			{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
			},
		}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	errorsList := make([]ValidationErrorResponse, len(validationErrors))
	for i, fieldError := range validationErrors {
		jsonField := fieldError.Field()
		if structType != nil {
			jsonField = getJSONFieldName(structType, fieldError.Field())
		}

		errorsList[i] = ValidationErrorResponse{
			Field:   jsonField,
			Message: msgForTag(fieldError.Tag(), fieldError.Param()),
		}
	}

	return errorsList
}
