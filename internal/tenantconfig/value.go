package tenantconfig

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DataType tags how a stored raw string is interpreted.
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeJSON    DataType = "json"
)

func ParseDataType(s string) (DataType, error) {
	switch dt := DataType(strings.ToLower(strings.TrimSpace(s))); dt {
	case TypeString, TypeNumber, TypeBoolean, TypeJSON:
		return dt, nil
	}

	return "", ErrInvalidDataType.With("data_type", s)
}

// Value is a config value in its canonical stored form.
type Value struct {
	Kind DataType
	Raw  string
}

// Encode coerces v into the canonical string form for kind: "true"/"false" for booleans,
// a decimal string for numbers, JSON text for json.
func Encode(kind DataType, v any) (Value, error) {
	var (
		raw string
		err error
	)

	switch kind {
	case TypeBoolean:
		raw, err = encodeBool(v)
	case TypeNumber:
		raw, err = encodeNumber(v)
	case TypeJSON:
		var b []byte

		b, err = json.Marshal(v)
		raw = string(b)
	case TypeString:
		if v != nil {
			raw = fmt.Sprint(v)
		}
	default:
		return Value{}, ErrInvalidDataType.With("data_type", string(kind))
	}

	if err != nil {
		return Value{}, ErrInvalidValue.Wrap(err).With("data_type", string(kind))
	}

	return Value{Kind: kind, Raw: raw}, nil
}

func encodeBool(v any) (string, error) {
	switch b := v.(type) {
	case bool:
		return strconv.FormatBool(b), nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return "", fmt.Errorf("%q is not a boolean", b)
		}

		return strconv.FormatBool(parsed), nil
	}

	return "", fmt.Errorf("%v is not a boolean", v)
}

func encodeNumber(v any) (string, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n).String(), nil
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case json.Number:
		return encodeNumber(n.String())
	case decimal.Decimal:
		return n.String(), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return "", fmt.Errorf("%q is not a number", n)
		}

		return d.String(), nil
	}

	return "", fmt.Errorf("%v is not a number", v)
}

// Decode projects the raw string back to its declared type: bool, float64, any (json) or string.
func (v Value) Decode() (any, error) {
	switch v.Kind {
	case TypeBoolean:
		switch v.Raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}

		return nil, fmt.Errorf("%q is not a boolean", v.Raw)
	case TypeNumber:
		d, err := decimal.NewFromString(v.Raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", v.Raw)
		}

		return d.InexactFloat64(), nil
	case TypeJSON:
		var out any
		if err := json.Unmarshal([]byte(v.Raw), &out); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}

		return out, nil
	}

	return v.Raw, nil
}

// Number returns the value as a decimal when it is declared as a number.
func (v Value) Number() (decimal.Decimal, error) {
	if v.Kind != TypeNumber {
		return decimal.Zero, fmt.Errorf("value is %s, not number", v.Kind)
	}

	return decimal.NewFromString(v.Raw)
}

var decimalMinute = decimal.NewFromInt(int64(time.Minute))
