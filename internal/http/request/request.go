package request

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
)

var (
	ErrMalformedBody = apperr.Validation("VALIDATION_FAILED", "request body is not valid JSON")
	ErrMissing       = apperr.Validation("MISSING_REQUIRED", "required fields are missing")
	ErrInvalid       = apperr.Validation("VALIDATION_FAILED", "request has invalid fields")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Decode reads a JSON body into dst and validates its struct tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrMalformedBody.Wrap(err)
	}

	return Validate(dst)
}

// Validate checks struct tags. Missing required fields are listed in details.required; any other
// failure is reported per field in details.fields.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ErrInvalid.Wrap(err)
	}

	var (
		required []string
		fields   = make(map[string]string)
	)

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			required = append(required, fe.Field())
			continue
		}

		fields[fe.Field()] = fe.Tag()
	}

	if len(required) > 0 {
		e := ErrMissing.With("required", required)
		if len(fields) > 0 {
			e = e.With("fields", fields)
		}

		return e
	}

	return ErrInvalid.With("fields", fields)
}

// Require reports the query keys that are absent or blank.
func Require(q url.Values, keys ...string) error {
	var missing []string

	for _, k := range keys {
		if strings.TrimSpace(q.Get(k)) == "" {
			missing = append(missing, k)
		}
	}

	if len(missing) > 0 {
		return ErrMissing.With("required", missing)
	}

	return nil
}

// Int64 parses an optional integer query parameter.
func Int64(q url.Values, key string) (*int64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, ErrInvalid.With("fields", map[string]string{key: "integer"})
	}

	return &n, nil
}

// Ints parses a comma-separated list of integers, such as excluded_rows=1,4.
func Ints(q url.Values, key string) ([]int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, ErrInvalid.With("fields", map[string]string{key: "integer list"})
		}

		out = append(out, n)
	}

	return out, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly}

// Date parses an ISO-8601 date or timestamp. Only the calendar date is significant to callers
// that normalize it afterwards.
func Date(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalid.With("fields", map[string]string{field: "date"})
}
