package bind

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// converter turns one raw string into a value of a fixed type.
type converter func(string) (reflect.Value, error)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	timeType            = reflect.TypeOf(time.Time{})
)

// timeLayouts are tried in order for date/time parameters. They cover
// RFC 3339 plus what HTML date, datetime-local, and time inputs submit.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"15:04",
}

// trueTokens and falseTokens are the recognized boolean literals. An
// unchecked checkbox submits nothing at all, which resolution handles
// before coercion; any other token is a coercion failure.
var (
	trueTokens  = map[string]bool{"true": true, "1": true, "on": true}
	falseTokens = map[string]bool{"false": true, "0": true, "off": true, "": true}
)

// parseBool coerces the boolean literal tokens.
func parseBool(s string) (bool, error) {
	lower := strings.ToLower(s)
	if trueTokens[lower] {
		return true, nil
	}
	if falseTokens[lower] {
		return false, nil
	}
	return false, fmt.Errorf("not a boolean token: %q", s)
}

// newConverter builds the coercion function for a type at registration
// time, so per-request work is a single call.
func newConverter(t reflect.Type) converter {
	if t.Kind() == reflect.Pointer {
		elem := t.Elem()
		elemConv := newConverter(elem)
		return func(s string) (reflect.Value, error) {
			val, err := elemConv(s)
			if err != nil {
				return reflect.Value{}, err
			}
			ptr := reflect.New(elem)
			ptr.Elem().Set(val)
			return ptr, nil
		}
	}

	if t == timeType {
		return func(s string) (reflect.Value, error) {
			for _, layout := range timeLayouts {
				if ts, err := time.Parse(layout, s); err == nil {
					return reflect.ValueOf(ts), nil
				}
			}
			return reflect.Value{}, fmt.Errorf("unrecognized time %q", s)
		}
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(s string) (reflect.Value, error) {
			ptr := reflect.New(t)
			u := ptr.Interface().(encoding.TextUnmarshaler)
			if err := u.UnmarshalText([]byte(s)); err != nil {
				return reflect.Value{}, err
			}
			return ptr.Elem(), nil
		}
	}

	switch t.Kind() {
	case reflect.String:
		return func(s string) (reflect.Value, error) {
			return reflect.ValueOf(s).Convert(t), nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string) (reflect.Value, error) {
			n, err := strconv.ParseInt(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(n).Convert(t), nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) (reflect.Value, error) {
			n, err := strconv.ParseUint(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(n).Convert(t), nil
		}

	case reflect.Float32, reflect.Float64:
		return func(s string) (reflect.Value, error) {
			n, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(n).Convert(t), nil
		}

	case reflect.Bool:
		return func(s string) (reflect.Value, error) {
			b, err := parseBool(s)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(b).Convert(t), nil
		}

	default:
		return nil
	}
}
