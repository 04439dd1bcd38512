package form

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Validator checks a single submitted value. A nil return means the
// value passed. Validators other than Required treat empty values as
// passing, so optional fields only validate once the user types
// something.
type Validator func(value any) error

// ValidationError is the failure a Validator reports.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func fail(msg string) error {
	return ValidationError{Message: msg}
}

// Required fails on empty values. msg overrides the default message.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return func(value any) error {
		if isEmpty(value) {
			return fail(msg)
		}
		return nil
	}
}

// MinLength fails when a string is shorter than n characters.
func MinLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d characters", n)
	}
	return func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if len([]rune(s)) < n {
			return fail(msg)
		}
		return nil
	}
}

// MaxLength fails when a string is longer than n characters.
func MaxLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %d characters", n)
	}
	return func(value any) error {
		if len([]rune(toString(value))) > n {
			return fail(msg)
		}
		return nil
	}
}

// Pattern fails when a string does not match the regular expression.
// The pattern must compile; registration-time panics beat silent
// acceptance of every value.
func Pattern(pattern string, msg string) Validator {
	re := regexp.MustCompile(pattern)
	if msg == "" {
		msg = "Invalid format"
	}
	return func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return fail(msg)
		}
		return nil
	}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email fails when the value does not look like an email address.
func Email(msg string) Validator {
	if msg == "" {
		msg = "Invalid email address"
	}
	return func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !emailPattern.MatchString(s) {
			return fail(msg)
		}
		return nil
	}
}

// URL fails when the value does not parse as an absolute URL.
func URL(msg string) Validator {
	if msg == "" {
		msg = "Invalid URL"
	}
	return func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fail(msg)
		}
		return nil
	}
}

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// UUID fails when the value is not a canonical UUID.
func UUID(msg string) Validator {
	if msg == "" {
		msg = "Invalid UUID"
	}
	return func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !uuidPattern.MatchString(s) {
			return fail(msg)
		}
		return nil
	}
}

// Alpha fails when the value contains anything but letters.
func Alpha(msg string) Validator {
	if msg == "" {
		msg = "Must contain only letters"
	}
	return runeCheck(msg, unicode.IsLetter)
}

// AlphaNumeric fails when the value contains anything but letters and digits.
func AlphaNumeric(msg string) Validator {
	if msg == "" {
		msg = "Must contain only letters and numbers"
	}
	return runeCheck(msg, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

// Numeric fails when the value contains anything but digits.
func Numeric(msg string) Validator {
	if msg == "" {
		msg = "Must contain only numbers"
	}
	return runeCheck(msg, unicode.IsDigit)
}

func runeCheck(msg string, ok func(rune) bool) Validator {
	return func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		for _, r := range s {
			if !ok(r) {
				return fail(msg)
			}
		}
		return nil
	}
}

// Min fails when a numeric value is below n.
func Min(n float64, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %v", n)
	}
	return func(value any) error {
		if isEmpty(value) {
			return nil
		}
		if toFloat64(value) < n {
			return fail(msg)
		}
		return nil
	}
}

// Max fails when a numeric value is above n.
func Max(n float64, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %v", n)
	}
	return func(value any) error {
		if isEmpty(value) {
			return nil
		}
		if toFloat64(value) > n {
			return fail(msg)
		}
		return nil
	}
}

// Between fails when a numeric value is outside [lo, hi].
func Between(lo, hi float64, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be between %v and %v", lo, hi)
	}
	return func(value any) error {
		if isEmpty(value) {
			return nil
		}
		v := toFloat64(value)
		if v < lo || v > hi {
			return fail(msg)
		}
		return nil
	}
}

// Positive fails when a numeric value is zero or below.
func Positive(msg string) Validator {
	if msg == "" {
		msg = "Must be positive"
	}
	return func(value any) error {
		if isEmpty(value) {
			return nil
		}
		if toFloat64(value) <= 0 {
			return fail(msg)
		}
		return nil
	}
}

// Future fails when a time is not after now.
func Future(msg string) Validator {
	if msg == "" {
		msg = "Must be in the future"
	}
	return timeCheck(msg, func(t time.Time) bool { return t.After(time.Now()) })
}

// Past fails when a time is not before now.
func Past(msg string) Validator {
	if msg == "" {
		msg = "Must be in the past"
	}
	return timeCheck(msg, func(t time.Time) bool { return t.Before(time.Now()) })
}

func timeCheck(msg string, ok func(time.Time) bool) Validator {
	return func(value any) error {
		if isEmpty(value) {
			return nil
		}
		t := toTime(value)
		if t.IsZero() {
			return nil
		}
		if !ok(t) {
			return fail(msg)
		}
		return nil
	}
}

// In fails when the value is not one of the allowed choices.
func In(choices []string, msg string) Validator {
	if msg == "" {
		msg = "Not a valid choice"
	}
	return func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		for _, c := range choices {
			if s == c {
				return nil
			}
		}
		return fail(msg)
	}
}

// isEmpty reports whether the value counts as unsubmitted. Zero
// numbers and false are real submissions, blank strings are not.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []byte:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat64(value any) float64 {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		f, _ := strconv.ParseFloat(rv.String(), 64)
		return f
	default:
		return 0
	}
}

func toTime(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
		return time.Time{}
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}
