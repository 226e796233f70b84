package cheetah

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTypeByCode(t *testing.T) {
	t.Parallel()
	for _, ct := range Types() {
		got, err := TypeByCode(ct.Code())
		if err != nil {
			t.Fatalf("TypeByCode(%d) error: %v", ct.Code(), err)
		}
		if got != ct {
			t.Errorf("TypeByCode(%d) = %s, want %s", ct.Code(), got, ct)
		}
	}
	if _, err := TypeByCode(99); !errors.Is(err, ErrUnknownTypeCode) {
		t.Errorf("TypeByCode(99) error = %v, want ErrUnknownTypeCode", err)
	}
}

func TestTypeByName(t *testing.T) {
	t.Parallel()
	for _, ct := range Types() {
		got, err := TypeByName(ct.Name())
		if err != nil {
			t.Fatalf("TypeByName(%q) error: %v", ct.Name(), err)
		}
		back, err := TypeByCode(got.Code())
		if err != nil || back != got {
			t.Errorf("round trip of %s failed: %v, %v", ct.Name(), back, err)
		}
		if q, _ := TypeByName(ct.QName()); q != ct {
			t.Errorf("TypeByName(%q) = %v, want %s", ct.QName(), q, ct)
		}
	}
	cases := []struct {
		name string
		want *ColumnType
	}{
		{"Bool", Boolean},
		{"Date", KDate},
		{"date", KDate},
		{"SYMBOL", Symbol},
		{"timespan", Timespan},
	}
	for _, c := range cases {
		got, err := TypeByName(c.name)
		if err != nil {
			t.Errorf("TypeByName(%q) error: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("TypeByName(%q) = %s, want %s", c.name, got, c.want)
		}
	}
	if _, err := TypeByName("Decimal"); !errors.Is(err, ErrUnknownTypeName) {
		t.Errorf("TypeByName(Decimal) error = %v, want ErrUnknownTypeName", err)
	}
}

func TestTypes_Registry(t *testing.T) {
	t.Parallel()
	types := Types()
	if len(types) != 17 {
		t.Fatalf("got %d types, want 17", len(types))
	}
	if types[0] != Boolean || types[len(types)-1] != Time {
		t.Errorf("registration order changed: first %s, last %s", types[0], types[len(types)-1])
	}
	types[0] = nil
	if Types()[0] != Boolean {
		t.Error("Types returned the registry itself")
	}
	tags := map[byte]string{}
	for _, ct := range Types() {
		if other, ok := tags[ct.Tag()]; ok {
			t.Errorf("tag %c used by %s and %s", ct.Tag(), other, ct)
		}
		tags[ct.Tag()] = ct.Name()
	}
}

func TestConvert_Null(t *testing.T) {
	t.Parallel()
	want := map[*ColumnType]string{
		Boolean: "0b", Byte: "0x00", Short: "0Nh", Int: "0Ni", Long: "0Nj",
		Real: "0Ne", Float: "0n", Char: `" "`, Symbol: "`",
		Timestamp: "0Np", Month: "0Nm", KDate: "0Nd", DateTime: "0Nz",
		Timespan: "0Nn", Minute: "0Nu", Second: "0Nv", Time: "0Nt",
	}
	for _, ct := range Types() {
		got, err := ct.Convert(nil)
		if err != nil {
			t.Errorf("%s.Convert(nil) error: %v", ct, err)
			continue
		}
		if got != ct.Null() || got != want[ct] {
			t.Errorf("%s.Convert(nil) = %q, want %q", ct, got, want[ct])
		}
		var p *int
		if got, _ := ct.Convert(p); got != ct.Null() {
			t.Errorf("%s.Convert(nil pointer) = %q, want %q", ct, got, ct.Null())
		}
	}
}

func TestIntegerBounds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		ct       *ColumnType
		min, max string
	}{
		{Byte, "0", "255"},
		{Short, "-32767", "32767"},
		{Int, "-2147483646", "2147483646"},
		{Long, "-9223372036854775806", "9223372036854775806"},
	}
	one := decimal.NewFromInt(1)
	for _, c := range cases {
		c := c
		t.Run(c.ct.Name(), func(t *testing.T) {
			t.Parallel()
			min := decimal.RequireFromString(c.min)
			max := decimal.RequireFromString(c.max)
			valid := []interface{}{c.min, c.max, min.BigInt(), max, json.Number(c.max), nil}
			for _, v := range valid {
				if !c.ct.IsValid(v) {
					t.Errorf("%s.IsValid(%v) = false, want true", c.ct, v)
				}
			}
			invalid := []interface{}{
				min.Sub(one).String(), max.Add(one).String(), min.Sub(one), max.Add(one).BigInt(),
				1.5, "1.5", "abc", true, time.Now(), []int{1},
			}
			for _, v := range invalid {
				if c.ct.IsValid(v) {
					t.Errorf("%s.IsValid(%v) = true, want false", c.ct, v)
				}
			}
		})
	}
	if Long.IsValid(int64(9223372036854775807)) {
		t.Error("Long accepted the largest int64")
	}
	if Long.IsValid(new(big.Int).Lsh(big.NewInt(1), 70)) {
		t.Error("Long accepted 2^70")
	}
	if Long.IsValid(9.223372036854776e18) {
		t.Error("Long accepted a float beyond its bounds")
	}
}

func TestConvert_Literals(t *testing.T) {
	t.Parallel()
	day := time.Date(2017, 8, 1, 9, 5, 7, 42*int(time.Millisecond), time.UTC)
	cases := []struct {
		ct    *ColumnType
		value interface{}
		want  string
	}{
		{Boolean, true, "1b"},
		{Boolean, false, "0b"},
		{Byte, 255, "0xff"},
		{Byte, 0, "0x00"},
		{Byte, uint8(10), "0x0a"},
		{Short, int16(-32767), "-32767h"},
		{Short, "123", "123h"},
		{Int, -2147483646, "-2147483646i"},
		{Int, 50, "50i"},
		{Int, 5.0, "5i"},
		{Int, json.Number("10"), "10i"},
		{Long, "9223372036854775806", "9223372036854775806j"},
		{Long, uint64(7), "7j"},
		{Real, 259.44, "259.44e"},
		{Real, float32(259.44), "259.44e"},
		{Real, 0, "0e"},
		{Real, 12, "12e"},
		{Float, 1.5, "1.5"},
		{Float, 2.0, "2.0"},
		{Float, 42, "42.0"},
		{Float, 1e21, "1e21"},
		{Float, decimal.RequireFromString("3.25"), "3.25"},
		{Char, "N", `"N"`},
		{Char, `"`, `"\""`},
		{Symbol, "GOOGL", "`GOOGL"},
		{Symbol, "", "`"},
		{KDate, day, "2017.08.01d"},
		{Month, day, "2017.08m"},
		{DateTime, day, "2017.08.01T09:05:07"},
		{Timestamp, day, "2017.08.01T09:05:07.042000000"},
		{Minute, day, "09:05"},
		{Second, day, "09:05:07"},
		{Time, day, "09:05:07.042"},
		{Timespan, day, "0D09:05:07.042000000"},
		{Timespan, 36*time.Hour + time.Minute + 2*time.Second + 5, "1D12:01:02.000000005"},
		{Timespan, -90 * time.Minute, "-0D01:30:00.000000000"},
		{Timespan, time.Duration(math.MinInt64), "-106751D23:47:16.854775808"},
		{Timespan, time.Duration(math.MaxInt64), "106751D23:47:16.854775807"},
		{KDate, &day, "2017.08.01d"},
	}
	for i, c := range cases {
		got, err := c.ct.Convert(c.value)
		if err != nil {
			t.Errorf("case %d: %s.Convert(%v) error: %v", i, c.ct, c.value, err)
			continue
		}
		if got != c.want {
			t.Errorf("case %d: %s.Convert(%v) = %q, want %q", i, c.ct, c.value, got, c.want)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()
	cases := []struct {
		ct    *ColumnType
		value interface{}
	}{
		{Boolean, 1},
		{Boolean, "true"},
		{Byte, 256},
		{Byte, -1},
		{Int, 2147483647},
		{Real, 1.2345678},
		{Real, 3.5e38},
		{Real, 1e-39},
		{Float, 12345678.0},
		{Float, "1.5"},
		{Char, "ab"},
		{Char, ""},
		{Char, 'N'},
		{Symbol, 42},
		{KDate, "2017-08-01"},
		{Timespan, 90},
	}
	for i, c := range cases {
		err := c.ct.Validate(c.value)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("case %d: %s.Validate(%v) = %v, want *ValidationError", i, c.ct, c.value, err)
			continue
		}
		if verr.Type != c.ct || !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: unexpected error %#v", i, verr)
		}
		if _, err := c.ct.Convert(c.value); err == nil {
			t.Errorf("case %d: %s.Convert(%v) succeeded", i, c.ct, c.value)
		}
	}
}

func TestFloatPrecision(t *testing.T) {
	t.Parallel()
	a, b := 0.1, 0.2
	cases := []struct {
		value interface{}
		valid bool
	}{
		{1234567.0, true},
		{1234567000.0, true},
		{0.001234567, true},
		{12345678.0, false},
		{a + b, false},
		{1.2345678, false},
		{-1.175495e-38, true},
		{-3.402823e38, true},
		{-3.4028231e38, false},
		{float32(3.402823e38), true},
		{float32(-3.402823e38), true},
		{float32(1.175495e-38), true},
		{float32(3.4028234e38), false},
		{-0.0, true},
	}
	for i, c := range cases {
		if got := Real.IsValid(c.value); got != c.valid {
			t.Errorf("case %d: Real.IsValid(%v) = %v, want %v", i, c.value, got, c.valid)
		}
	}
	if !Float.IsValid(1.797693e308) || Float.IsValid(2.225073e-308) {
		t.Error("Float bounds are not applied")
	}
}

func TestValidateChar_SingleByte(t *testing.T) {
	t.Parallel()
	err := Char.Validate("é")
	var verr *ValidationError
	if !errors.As(err, &verr) || !strings.Contains(verr.Reason, "one byte") {
		t.Errorf("Char.Validate(é) = %v, want a one byte *ValidationError", err)
	}
	if got := Char.MustConvert("e"); got != `"e"` {
		t.Errorf("Char.MustConvert(e) = %q", got)
	}
}

func TestColumnType_Same(t *testing.T) {
	t.Parallel()
	kdate, _ := TypeByName("date")
	if !KDate.Same(kdate) {
		t.Error("KDate is not the same as date")
	}
	if Real.Same(Float) || Real.Same(nil) {
		t.Error("Real is the same as Float or nil")
	}
}
