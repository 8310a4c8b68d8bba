package validation

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	colorRegex    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Validator validates request structs and sanitises free text.
// It satisfies gin's binding.StructValidator so it can replace the default engine.
type Validator struct {
	validator *validator.Validate
	logger    *zap.Logger
	sanitizer *bluemonday.Policy
}

// NewValidator creates a new validator reading rules from `binding` tags
func NewValidator(logger *zap.Logger) *Validator {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	validator := &Validator{
		validator: v,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
	validator.registerCustomValidators()

	return validator
}

// ValidateStruct validates a struct (or pointer to one) and returns an Invalid error listing the failed fields
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	err := v.validator.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Invalid.Explain("validation error").Wrap(err)
	}

	validationErr := errors.Invalid.Explain("validation error")
	for _, fe := range fieldErrs {
		validationErr = validationErr.WithField(fe.Tag(), fe.Field(), v.getErrorMessage(fe))
	}
	v.logger.Debug("request validation failed", zap.Int("fields", len(fieldErrs)))
	return validationErr
}

// Engine returns the underlying validator
func (v *Validator) Engine() any {
	return v.validator
}

const maxSanitizePasses = 8

// Sanitize strips any markup from user supplied text. Entity-escaped markup is
// unescaped and stripped again until the text stops changing.
func (v *Validator) Sanitize(input string) string {
	if input == "" {
		return input
	}
	out := input
	for i := 0; i < maxSanitizePasses; i++ {
		stripped := v.sanitizer.Sanitize(out)
		next := html.UnescapeString(stripped)
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	// still unstable: keep the escaped form
	return strings.TrimSpace(v.sanitizer.Sanitize(out))
}

func (v *Validator) registerCustomValidators() {
	v.validator.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	v.validator.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	v.validator.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return colorRegex.MatchString(fl.Field().String())
	})
}

// getErrorMessage returns a human-readable error message for validation errors
func (v *Validator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "username":
		return fmt.Sprintf("%s may contain only letters, digits and @/./+/-/_", fe.Field())
	case "slug":
		return fmt.Sprintf("%s must be a valid slug", fe.Field())
	case "color":
		return fmt.Sprintf("%s must be a HEX color like #E26C2D", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// IsSlug reports whether s is a valid tag slug.
func IsSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// IsColor reports whether s is a #RRGGBB color.
func IsColor(s string) bool {
	return colorRegex.MatchString(s)
}
