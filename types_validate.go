package cheetah

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// maxSignificantDigits is the precision of floating point columns.
const maxSignificantDigits = 7

func validateBoolean(t *ColumnType, value interface{}) error {
	if _, ok := value.(bool); !ok {
		if p, ok := value.(*bool); !ok || p == nil {
			return &ValidationError{Type: t, Value: value, Reason: "The value must be a boolean value."}
		}
	}
	return nil
}

// integerRange returns a validator accepting integers in [min, max]. Bounds
// are compared as decimals so that 64-bit bounds keep their precision.
func integerRange(min, max string) func(*ColumnType, interface{}) error {
	lo := decimal.RequireFromString(min)
	hi := decimal.RequireFromString(max)
	return func(t *ColumnType, value interface{}) error {
		d, ok := toInteger(value)
		if !ok {
			return &ValidationError{Type: t, Value: value,
				Reason: "The value must be an integer value in the form of a Go integer, an integral float or a decimal string."}
		}
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return &ValidationError{Type: t, Value: value,
				Reason: "The value must be an integer value between " + lo.String() + " and " + hi.String() + " (inclusive)."}
		}
		return nil
	}
}

// floatRange returns a validator accepting 0 and values in the negative
// range [minNeg, maxNeg] or the positive range [minPos, maxPos] with at most
// seven significant digits. Values are compared as their shortest decimal,
// so a float32 on a bound is not widened past it.
func floatRange(minNeg, maxNeg, minPos, maxPos string) func(*ColumnType, interface{}) error {
	loNeg := decimal.RequireFromString(minNeg)
	hiNeg := decimal.RequireFromString(maxNeg)
	loPos := decimal.RequireFromString(minPos)
	hiPos := decimal.RequireFromString(maxPos)
	return func(t *ColumnType, value interface{}) error {
		_, d, ok := toFloat(value)
		if !ok {
			return &ValidationError{Type: t, Value: value, Reason: "The value must be a finite number value."}
		}
		if significantDigits(d) > maxSignificantDigits {
			return &ValidationError{Type: t, Value: value,
				Reason: "The value must be a floating point value with 7-digits of precision."}
		}
		negative := d.GreaterThanOrEqual(loNeg) && d.LessThanOrEqual(hiNeg)
		positive := d.GreaterThanOrEqual(loPos) && d.LessThanOrEqual(hiPos)
		if !(d.IsZero() || negative || positive) {
			return &ValidationError{Type: t, Value: value,
				Reason: "The value must be a floating point value equal to 0 or between " +
					minNeg + " and " + maxNeg + " (inclusive) or " +
					minPos + " and " + maxPos + " (inclusive)."}
		}
		return nil
	}
}

func validateChar(t *ColumnType, value interface{}) error {
	s, ok := toString(value)
	if !ok {
		return &ValidationError{Type: t, Value: value, Reason: "The value must be a string."}
	}
	// q chars are single bytes
	if len(s) != 1 {
		return &ValidationError{Type: t, Value: value, Reason: "The value must be one byte long."}
	}
	return nil
}

func validateSymbol(t *ColumnType, value interface{}) error {
	if _, ok := toString(value); !ok {
		return &ValidationError{Type: t, Value: value, Reason: "The value must be a string."}
	}
	return nil
}

func validateTime(t *ColumnType, value interface{}) error {
	if _, ok := toTime(value); !ok {
		return &ValidationError{Type: t, Value: value, Reason: "The value must be a time.Time."}
	}
	return nil
}

func validateTimespan(t *ColumnType, value interface{}) error {
	if _, ok := toDuration(value); ok {
		return nil
	}
	if _, ok := toTime(value); ok {
		return nil
	}
	return &ValidationError{Type: t, Value: value, Reason: "The value must be a time.Duration or a time.Time."}
}

// toInteger converts Go integers, integral floats, decimal strings,
// json.Number, decimal.Decimal and big.Int values to a decimal.
func toInteger(value interface{}) (d decimal.Decimal, ok bool) {
	switch v := value.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int8:
		return decimal.NewFromInt(int64(v)), true
	case int16:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(v)), true
	case uint16:
		return decimal.NewFromInt(int64(v)), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), true
	case *big.Int:
		if v == nil {
			return
		}
		return decimal.NewFromBigInt(v, 0), true
	case float32, float64, json.Number, decimal.Decimal:
		_, d, ok = toFloat(v)
		if !ok || !d.IsInteger() {
			return decimal.Decimal{}, false
		}
		return d, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil || !d.IsInteger() {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return
}

// toFloat converts numbers to a float64 and to the shortest decimal that
// represents the same value.
func toFloat(value interface{}) (f float64, d decimal.Decimal, ok bool) {
	switch v := value.(type) {
	case float32:
		f = float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return
		}
		return f, decimal.NewFromFloat32(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		return v, decimal.NewFromFloat(v), true
	case json.Number:
		n, err := decimal.NewFromString(string(v))
		if err != nil {
			return
		}
		f, _ = n.Float64()
		return f, n, true
	case decimal.Decimal:
		f, _ = v.Float64()
		return f, v, true
	case bool, string:
		return
	}
	if i, isInt := toInteger(value); isInt {
		f, _ = i.Float64()
		return f, i, true
	}
	return
}

// significantDigits counts the significant digits of d, ignoring trailing
// zeros.
func significantDigits(d decimal.Decimal) int {
	digits := strings.TrimRight(new(big.Int).Abs(d.Coefficient()).String(), "0")
	if digits == "" {
		return 1
	}
	return len(digits)
}

func toString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v != nil {
			return *v, true
		}
	}
	return "", false
}

func toTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v != nil {
			return *v, true
		}
	}
	return time.Time{}, false
}

func toDuration(value interface{}) (time.Duration, bool) {
	switch v := value.(type) {
	case time.Duration:
		return v, true
	case *time.Duration:
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
