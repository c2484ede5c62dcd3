// Package forms turns loosely typed request params into the typed inputs of
// the calculators. Params come from decoded JSON (numbers as float64 or
// json.Number) or from form text (numbers as strings). Anything that does not
// parse fails with calculations.ErrInvalidInput.
package forms

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/pkg/utils"
)

// maxInt bounds integer params such as terms and periods.
const maxInt = 1_000_000

// Numeric text is bounded in length and magnitude before it is converted, so
// that an exponent like 1e99999999 is rejected without being expanded.
const (
	maxNumberLen = 64
	maxMagnitude = 30
	minExponent  = -maxNumberLen
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Invalid wraps calculations.ErrInvalidInput with the offending param name.
func Invalid(key, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", calculations.ErrInvalidInput, key, fmt.Sprintf(format, args...))
}

func present(params map[string]interface{}, key string) (interface{}, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

// Number reads a required finite number.
func Number(params map[string]interface{}, key string) (float64, error) {
	v, ok := present(params, key)
	if !ok {
		return 0, Invalid(key, "is required")
	}
	return toNumber(key, v)
}

// OptionalNumber reads a number, returning def when the param is absent or blank.
func OptionalNumber(params map[string]interface{}, key string, def float64) (float64, error) {
	v, ok := present(params, key)
	if !ok {
		return def, nil
	}
	return toNumber(key, v)
}

// NonNegative reads a required number that must not be negative.
func NonNegative(params map[string]interface{}, key string) (float64, error) {
	n, err := Number(params, key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, Invalid(key, "must not be negative, got %v", n)
	}
	return n, nil
}

func toDecimal(key string, v interface{}) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		if !utils.IsFinite(x) {
			return decimal.Zero, Invalid(key, "is not a finite number")
		}
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case json.Number:
		return parseDecimal(key, x.String())
	case string:
		return parseDecimal(key, strings.TrimSpace(x))
	}
	return decimal.Zero, Invalid(key, "expected a number, got %T", v)
}

func parseDecimal(key, s string) (decimal.Decimal, error) {
	if len(s) > maxNumberLen {
		return decimal.Zero, Invalid(key, "is out of range")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, Invalid(key, "%q is not a number", s)
	}
	exp := int(d.Exponent())
	if exp < minExponent || exp+d.NumDigits() > maxMagnitude {
		return decimal.Zero, Invalid(key, "%q is out of range", s)
	}
	return d, nil
}

func toNumber(key string, v interface{}) (float64, error) {
	if f, ok := v.(float64); ok {
		if !utils.IsFinite(f) {
			return 0, Invalid(key, "is not a finite number")
		}
		return f, nil
	}
	d, err := toDecimal(key, v)
	if err != nil {
		return 0, err
	}
	f := d.InexactFloat64()
	if !utils.IsFinite(f) {
		return 0, Invalid(key, "is out of range")
	}
	return f, nil
}

// Int reads a required whole number.
func Int(params map[string]interface{}, key string) (int, error) {
	v, ok := present(params, key)
	if !ok {
		return 0, Invalid(key, "is required")
	}
	return toInt(key, v)
}

// OptionalInt reads a whole number, returning def when the param is absent or blank.
func OptionalInt(params map[string]interface{}, key string, def int) (int, error) {
	v, ok := present(params, key)
	if !ok {
		return def, nil
	}
	return toInt(key, v)
}

func toInt(key string, v interface{}) (int, error) {
	d, err := toDecimal(key, v)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, Invalid(key, "must be a whole number, got %s", d)
	}
	if d.Abs().GreaterThan(decimal.NewFromInt(maxInt)) {
		return 0, Invalid(key, "%s is out of range", d)
	}
	return int(d.IntPart()), nil
}

// String reads a required non-blank string.
func String(params map[string]interface{}, key string) (string, error) {
	v, ok := present(params, key)
	if !ok {
		return "", Invalid(key, "is required")
	}
	s, isString := v.(string)
	if !isString {
		return "", Invalid(key, "expected a string, got %T", v)
	}
	return strings.TrimSpace(s), nil
}

// OptionalString reads a string, returning "" when absent.
func OptionalString(params map[string]interface{}, key string) (string, error) {
	if _, ok := present(params, key); !ok {
		return "", nil
	}
	return String(params, key)
}

// Date reads a required date, either YYYY-MM-DD or RFC 3339.
func Date(params map[string]interface{}, key string) (time.Time, error) {
	s, err := String(params, key)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Invalid(key, "%q is not a date", s)
}

// OptionalDate reads a date, returning the zero time when absent.
func OptionalDate(params map[string]interface{}, key string) (time.Time, error) {
	if _, ok := present(params, key); !ok {
		return time.Time{}, nil
	}
	return Date(params, key)
}

// NumberMap reads an object of named non-negative amounts. Blank entries are
// left out, as an untouched form field is.
func NumberMap(params map[string]interface{}, key string) (map[string]float64, error) {
	v, ok := present(params, key)
	if !ok {
		return map[string]float64{}, nil
	}
	obj, isObj := v.(map[string]interface{})
	if !isObj {
		return nil, Invalid(key, "expected an object, got %T", v)
	}
	out := make(map[string]float64, len(obj))
	for name := range obj {
		if _, ok := present(obj, name); !ok {
			continue
		}
		n, err := NonNegative(obj, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[name] = n
	}
	return out, nil
}

// List reads an array of objects and parses each one. Errors name the failing index.
func List[T any](params map[string]interface{}, key string, parse func(map[string]interface{}) (T, error)) ([]T, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, Invalid(key, "is required")
	}
	items, isList := v.([]interface{})
	if !isList {
		return nil, Invalid(key, "expected a list, got %T", v)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		obj, isObj := item.(map[string]interface{})
		if !isObj {
			return nil, Invalid(fmt.Sprintf("%s[%d]", key, i), "expected an object, got %T", item)
		}
		rec, err := parse(obj)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Now reads an optional "as of" date and falls back to the current time.
func Now(params map[string]interface{}, key string) (time.Time, error) {
	t, err := OptionalDate(params, key)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Now(), nil
	}
	return t, nil
}
