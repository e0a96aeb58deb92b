package validators

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = time.DateOnly

// New builds the validator used across the API. Field errors are reported
// under their JSON names.
func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("calendardate", CalendarDate)
	return validate
}

// CalendarDate accepts a plain date (2024-12-31) or an RFC 3339 timestamp.
func CalendarDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	_, ok := NormalizeDate(field.String())
	return ok
}

// NormalizeDate parses a calendar date and returns it in DateLayout.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout), true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(DateLayout), true
	}
	return "", false
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return fld.Name
	}
	return name
}
