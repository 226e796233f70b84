package cheetah

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func encodeBoolean(value interface{}) string {
	b, _ := value.(bool)
	if p, ok := value.(*bool); ok {
		b = *p
	}
	if b {
		return "1b"
	}
	return "0b"
}

func encodeByte(value interface{}) string {
	d, _ := toInteger(value)
	return fmt.Sprintf("0x%02x", d.IntPart())
}

func integerSuffix(suffix string) func(interface{}) string {
	return func(value interface{}) string {
		d, _ := toInteger(value)
		return d.String() + suffix
	}
}

func encodeReal(value interface{}) string {
	return formatFloatValue(value) + "e"
}

// Float literals have no suffix, so integral values keep a decimal point to
// not be read as longs.
func encodeFloat(value interface{}) string {
	s := formatFloatValue(value)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatFloatValue(value interface{}) string {
	switch v := value.(type) {
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	}
	_, d, _ := toFloat(value)
	return formatDecimal(d)
}

// formatFloat prints the shortest representation, switching to exponent
// notation below 1e-6 and from 1e21 on.
func formatFloat(f float64, bitSize int) string {
	abs := math.Abs(f)
	if f != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strings.Replace(strconv.FormatFloat(f, 'e', -1, bitSize), "e+", "e", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

func formatDecimal(d decimal.Decimal) string {
	abs := d.Abs()
	if !d.IsZero() && (abs.LessThan(decimal.New(1, -6)) || abs.GreaterThanOrEqual(decimal.New(1, 21))) {
		f, _ := d.Float64()
		return formatFloat(f, 64)
	}
	return d.String()
}

func encodeChar(value interface{}) string {
	s, _ := toString(value)
	return `"` + escapeString(s) + `"`
}

func encodeSymbol(value interface{}) string {
	s, _ := toString(value)
	return "`" + s
}

func escapeString(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func encodeDate(value interface{}) string {
	t, _ := toTime(value)
	return fmt.Sprintf("%d.%02d.%02dd", t.Year(), int(t.Month()), t.Day())
}

func encodeMonth(value interface{}) string {
	t, _ := toTime(value)
	return fmt.Sprintf("%d.%02dm", t.Year(), int(t.Month()))
}

func encodeDateTime(value interface{}) string {
	t, _ := toTime(value)
	return fmt.Sprintf("%d.%02d.%02dT%02d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

func encodeTimestamp(value interface{}) string {
	t, _ := toTime(value)
	return fmt.Sprintf("%d.%02d.%02dT%02d:%02d:%02d.%03d000000",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), millisecond(t))
}

func encodeMinute(value interface{}) string {
	t, _ := toTime(value)
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func encodeSecond(value interface{}) string {
	t, _ := toTime(value)
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func encodeTime(value interface{}) string {
	t, _ := toTime(value)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour(), t.Minute(), t.Second(), millisecond(t))
}

// encodeTimespan prints an elapsed time as "<days>DHH:MM:SS.nnnnnnnnn". A
// time.Time is read as the time elapsed since its midnight.
func encodeTimespan(value interface{}) string {
	if t, ok := toTime(value); ok {
		return fmt.Sprintf("0D%02d:%02d:%02d.%03d000000", t.Hour(), t.Minute(), t.Second(), millisecond(t))
	}
	d, _ := toDuration(value)
	sign := ""
	n := uint64(d)
	if d < 0 {
		sign = "-"
		// math.MinInt64 has no positive int64 counterpart
		n = uint64(-(d + 1)) + 1
	}
	const (
		second = uint64(time.Second)
		minute = uint64(time.Minute)
		hour   = uint64(time.Hour)
		day    = 24 * hour
	)
	return fmt.Sprintf("%s%dD%02d:%02d:%02d.%09d", sign,
		n/day, n%day/hour, n%hour/minute, n%minute/second, n%second)
}

func millisecond(t time.Time) int {
	return t.Nanosecond() / int(time.Millisecond)
}
