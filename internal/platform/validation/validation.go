// Package validation registers the custom binding rules used by request DTOs
// and turns validator errors into client-facing messages.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	crnPattern = regexp.MustCompile(`^[0-9]{5}$`)

	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom rules on gin's validator engine.
// It is safe to call more than once.
//
//   - crn:        exactly five digits
//   - notblank:   non-empty after trimming whitespace
//   - social_url: empty, or an absolute http(s) URL with a host
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("crn", isCRN); err != nil {
			registerErr = err
			return
		}
		if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("social_url", isSocialURL)
	})
	return registerErr
}

// MustRegister is Register for program start-up and tests.
func MustRegister() {
	if err := Register(); err != nil {
		panic(err)
	}
}

// IsCRN reports whether s is a well-formed course registration number.
func IsCRN(s string) bool {
	return crnPattern.MatchString(s)
}

func isCRN(fl validator.FieldLevel) bool {
	return IsCRN(fl.Field().String())
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// IsSocialURL reports whether s may be stored as a social link.
// The empty string clears a link and is accepted.
func IsSocialURL(s string) bool {
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isSocialURL(fl validator.FieldLevel) bool {
	return IsSocialURL(fl.Field().String())
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// FormatValidationError converts a binding error into a single message.
// Array bodies report the messages of every failing element.
// Decoder errors (malformed JSON, wrong types) collapse into a generic one.
func FormatValidationError(err error) string {
	var sliceErr binding.SliceValidationError
	if errors.As(err, &sliceErr) {
		msgs := make([]string, 0, len(sliceErr))
		for _, e := range sliceErr {
			if e != nil {
				msgs = append(msgs, FormatValidationError(e))
			}
		}
		return strings.Join(msgs, "; ")
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldErrorMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "crn":
		return fmt.Sprintf("%s must be a 5-digit CRN", field)
	case "social_url", "http_url", "url":
		return fmt.Sprintf("%s must be an http(s) URL", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
