// Package form implements the entry-form dialogs: raw values are coerced,
// validated against declarative rules and sent through a resource client.
package form

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Values are the raw values of a form as posted by the browser. Numbers may
// arrive as strings or as JSON numbers.
type Values map[string]any

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

// ErrValidation wraps every FieldErrors returned by Submit.
var ErrValidation = errors.New("validation failed")

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

func (e FieldErrors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// missing reports an absent, null or blank value.
func (v Values) missing(key string) bool {
	raw, ok := v[key]
	if !ok || raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func (v Values) String(key string) string {
	raw, ok := v[key]
	if !ok || raw == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(raw))
}

// Float coerces key to a number. Missing values yield nil.
func (v Values) Float(key string, errs FieldErrors) *float64 {
	if v.missing(key) {
		return nil
	}

	var (
		f   float64
		err error
	)
	if s, ok := v[key].(string); ok {
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
	} else {
		f, err = cast.ToFloat64E(v[key])
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		errs.add(key, msgNumber)
		return nil
	}
	return &f
}

// Int coerces key to an integer; fractional values and values outside the
// int range are rejected.
func (v Values) Int(key string, errs FieldErrors) *int {
	f := v.Float(key, errs)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) {
		errs.add(key, msgInteger)
		return nil
	}
	// -MinInt is the first value past MaxInt that a float64 holds exactly.
	if *f < float64(math.MinInt) || *f >= -float64(math.MinInt) {
		errs.add(key, msgNumber)
		return nil
	}
	n := int(*f)
	return &n
}

// Bool coerces key to a boolean, def when missing.
func (v Values) Bool(key string, def bool, errs FieldErrors) *bool {
	if v.missing(key) {
		return &def
	}
	b, err := cast.ToBoolE(v[key])
	if err != nil {
		errs.add(key, msgBoolean)
		return nil
	}
	return &b
}
