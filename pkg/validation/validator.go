package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxPromptLength = 4000
	MaxNodeIDLength = 64
)

func init() {
	validate = validator.New()
	// Report fields by their JSON names so messages match the request body.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// PromptRequest is the body of an add-node request. A blank prompt is
// valid here; the store treats it as a no-op.
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"max=4000"`
}

// EdgeRequest is the body of a connect request.
type EdgeRequest struct {
	Source string `json:"source" validate:"required,max=64"`
	Target string `json:"target" validate:"required,max=64"`
}

// ValidatePromptRequest validates an add-node request
func ValidatePromptRequest(req *PromptRequest) error {
	if req == nil {
		return errors.New("prompt request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateEdgeRequest validates a connect request. Only the shape is
// checked; self-loops and unknown endpoints are the store's concern.
func ValidateEdgeRequest(req *EdgeRequest) error {
	if req == nil {
		return errors.New("edge request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
