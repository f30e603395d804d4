package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "vgsales/internal/errors"
	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
)

// Validator checks request contracts against their validate tags.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator with the dashboard's custom tags registered.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	v.RegisterValidation("metric", isMetric)
	v.RegisterValidation("dimension", isDimension)
	v.RegisterValidation("filename", isValidFilename)

	// Use query tag names in error messages, then JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		validate: v,
		logger:   infrastructure.WithComponent(logger, "validator"),
	}
}

// ValidateStruct validates v and returns an *apierrors.APIError listing every
// failing field, or nil.
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	m.logger.Debug("request validation failed",
		slog.String("type", reflect.TypeOf(v).String()),
		slog.Int("errors", len(validationErrors)))
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if err.Kind() == reflect.Slice || err.Kind() == reflect.String {
			return fmt.Sprintf("%s must have at least %s items or characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if err.Kind() == reflect.Slice || err.Kind() == reflect.String {
			return fmt.Sprintf("%s must have at most %s items or characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "metric":
		return fmt.Sprintf("%s must be one of: global, na, eu, jp, other, count", field)
	case "dimension":
		return fmt.Sprintf("%s must be one of: year, platform, genre, publisher, name", field)
	case "filename":
		return fmt.Sprintf("%s must be a valid filename", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isMetric(fl validator.FieldLevel) bool {
	_, ok := domain.ParseMetric(fl.Field().String())
	return ok
}

func isDimension(fl validator.FieldLevel) bool {
	_, ok := domain.ParseDimension(fl.Field().String())
	return ok
}

// isValidFilename rejects empty names and anything that could leave the directory.
func isValidFilename(fl validator.FieldLevel) bool {
	filename := fl.Field().String()
	if filename == "" || filename == "." {
		return false
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return false
	}
	return len(filename) <= 255
}

// QueryParamValidator parses typed query parameters, collecting a
// ValidationError for each malformed value.
type QueryParamValidator struct {
	errs []apierrors.ValidationError
}

// NewQueryParamValidator creates an empty collector.
func NewQueryParamValidator() *QueryParamValidator {
	return &QueryParamValidator{}
}

// IntPtr parses param as an integer; absent parameters yield nil.
func (v *QueryParamValidator) IntPtr(r *http.Request, param string) *int {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		v.add(param, fmt.Sprintf("%s must be a valid integer", param))
		return nil
	}
	return &n
}

// FloatPtr parses param as a number; absent parameters yield nil.
func (v *QueryParamValidator) FloatPtr(r *http.Request, param string) *float64 {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		v.add(param, fmt.Sprintf("%s must be a valid number", param))
		return nil
	}
	return &f
}

// Bool parses param as a boolean, defaulting to false.
func (v *QueryParamValidator) Bool(r *http.Request, param string) bool {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		v.add(param, fmt.Sprintf("%s must be true or false", param))
		return false
	}
	return b
}

// List collects comma separated and repeated values of param.
func (v *QueryParamValidator) List(r *http.Request, param string) []string {
	var out []string
	for _, raw := range r.URL.Query()[param] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Repeated collects the repeated values of param without splitting on
// commas, for values such as publisher names that may contain one.
func (v *QueryParamValidator) Repeated(r *http.Request, param string) []string {
	var out []string
	for _, raw := range r.URL.Query()[param] {
		if raw = strings.TrimSpace(raw); raw != "" {
			out = append(out, raw)
		}
	}
	return out
}

// Err returns the collected parse errors as a validation APIError, or nil.
func (v *QueryParamValidator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apierrors.NewValidationErrors(v.errs)
}

func (v *QueryParamValidator) add(field, message string) {
	v.errs = append(v.errs, apierrors.ValidationError{Field: field, Message: message})
}
