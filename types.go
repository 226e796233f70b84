package cheetah

import (
	"fmt"
	"strconv"
	"strings"
)

// VariableSize is the size of column types without a fixed wire width.
const VariableSize = -1

type (
	// ColumnType describes one scalar column type of the remote engine: its
	// wire size, the type tag used in column definitions, the numeric type
	// code reported by the engine and the literal of its null value. Column
	// types are created once by this package and never change.
	ColumnType struct {
		name     string
		qName    string
		size     int
		tag      byte
		code     int
		null     string
		validate func(*ColumnType, interface{}) error
		encode   func(interface{}) string
	}
)

var (
	Boolean = &ColumnType{
		name: "Boolean", qName: "boolean", size: 1, tag: 'b', code: 1, null: "0b",
		validate: validateBoolean, encode: encodeBoolean,
	}
	Byte = &ColumnType{
		name: "Byte", qName: "byte", size: 1, tag: 'x', code: 4, null: "0x00",
		validate: integerRange("0", "255"), encode: encodeByte,
	}
	Short = &ColumnType{
		name: "Short", qName: "short", size: 2, tag: 'h', code: 5, null: "0Nh",
		validate: integerRange("-32767", "32767"), encode: integerSuffix("h"),
	}
	Int = &ColumnType{
		name: "Int", qName: "int", size: 4, tag: 'i', code: 6, null: "0Ni",
		validate: integerRange("-2147483646", "2147483646"), encode: integerSuffix("i"),
	}
	Long = &ColumnType{
		name: "Long", qName: "long", size: 8, tag: 'j', code: 7, null: "0Nj",
		validate: integerRange("-9223372036854775806", "9223372036854775806"), encode: integerSuffix("j"),
	}
	Real = &ColumnType{
		name: "Real", qName: "real", size: 4, tag: 'e', code: 8, null: "0Ne",
		validate: floatRange("-3.402823e38", "-1.175495e-38", "1.175495e-38", "3.402823e38"), encode: encodeReal,
	}
	Float = &ColumnType{
		name: "Float", qName: "float", size: 8, tag: 'f', code: 9, null: "0n",
		validate: floatRange("-1.797693e308", "-2.225074e-308", "2.225074e-308", "1.797693e308"), encode: encodeFloat,
	}
	Char = &ColumnType{
		name: "Char", qName: "char", size: 1, tag: 'c', code: 10, null: `" "`,
		validate: validateChar, encode: encodeChar,
	}
	Symbol = &ColumnType{
		name: "Symbol", qName: "symbol", size: VariableSize, tag: 's', code: 11, null: "`",
		validate: validateSymbol, encode: encodeSymbol,
	}
	Timestamp = &ColumnType{
		name: "Timestamp", qName: "timestamp", size: 8, tag: 'p', code: 12, null: "0Np",
		validate: validateTime, encode: encodeTimestamp,
	}
	Month = &ColumnType{
		name: "Month", qName: "month", size: 4, tag: 'm', code: 13, null: "0Nm",
		validate: validateTime, encode: encodeMonth,
	}
	KDate = &ColumnType{
		name: "KDate", qName: "date", size: 4, tag: 'd', code: 14, null: "0Nd",
		validate: validateTime, encode: encodeDate,
	}
	DateTime = &ColumnType{
		name: "DateTime", qName: "datetime", size: 8, tag: 'z', code: 15, null: "0Nz",
		validate: validateTime, encode: encodeDateTime,
	}
	Timespan = &ColumnType{
		name: "Timespan", qName: "timespan", size: 8, tag: 'n', code: 16, null: "0Nn",
		validate: validateTimespan, encode: encodeTimespan,
	}
	Minute = &ColumnType{
		name: "Minute", qName: "minute", size: 4, tag: 'u', code: 17, null: "0Nu",
		validate: validateTime, encode: encodeMinute,
	}
	Second = &ColumnType{
		name: "Second", qName: "second", size: 4, tag: 'v', code: 18, null: "0Nv",
		validate: validateTime, encode: encodeSecond,
	}
	Time = &ColumnType{
		name: "Time", qName: "time", size: 4, tag: 't', code: 19, null: "0Nt",
		validate: validateTime, encode: encodeTime,
	}
)

// registration order
var registry = []*ColumnType{
	Boolean, Byte, Short, Int, Long, Real, Float, Char, Symbol,
	Timestamp, Month, KDate, DateTime, Timespan, Minute, Second, Time,
}

var (
	typesByCode = map[int]*ColumnType{}
	typesByName = map[string]*ColumnType{}
)

func init() {
	for _, t := range registry {
		if _, ok := typesByCode[t.code]; ok {
			panic("cheetah: duplicate type code " + strconv.Itoa(t.code))
		}
		typesByCode[t.code] = t
		typesByName[t.name] = t
		typesByName[t.qName] = t
	}
	typesByName["Bool"] = Boolean
	typesByName["Date"] = KDate
}

// Types returns every registered column type in registration order. The
// returned slice is a copy.
func Types() []*ColumnType {
	out := make([]*ColumnType, len(registry))
	copy(out, registry)
	return out
}

// TypeByCode returns the column type the remote engine reports as code.
func TypeByCode(code int) (*ColumnType, error) {
	if t, ok := typesByCode[code]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: the type code '%d' does not exist", ErrUnknownTypeCode, code)
}

// TypeByName returns the column type with the given name. Both the type
// names of this package ("Int", "KDate") and the names of the remote
// engine ("int", "date") are accepted.
func TypeByName(name string) (*ColumnType, error) {
	if t, ok := typesByName[name]; ok {
		return t, nil
	}
	if t, ok := typesByName[strings.ToLower(name)]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: the type '%s' does not exist", ErrUnknownTypeName, name)
}

// Name of the column type, for example "Int".
func (t *ColumnType) Name() string { return t.name }

// QName is the name the remote engine uses for the type, for example "int".
func (t *ColumnType) QName() string { return t.qName }

// Size in bytes, or VariableSize.
func (t *ColumnType) Size() int { return t.size }

// Tag is the single character type tag of the wire protocol.
func (t *ColumnType) Tag() byte { return t.tag }

// Code is the numeric type code.
func (t *ColumnType) Code() int { return t.code }

// Null is the literal of the null value.
func (t *ColumnType) Null() string { return t.null }

func (t *ColumnType) String() string {
	return t.name
}

// Validate returns a *ValidationError if value can not be stored in a column
// of this type. Nil is always valid.
func (t *ColumnType) Validate(value interface{}) error {
	if isNil(value) {
		return nil
	}
	return t.validate(t, value)
}

// IsValid reports whether Validate succeeds.
func (t *ColumnType) IsValid(value interface{}) bool {
	return t.Validate(value) == nil
}

// Convert validates the value and returns its literal text. The null
// literal is returned for nil.
func (t *ColumnType) Convert(value interface{}) (string, error) {
	if isNil(value) {
		return t.null, nil
	}
	if err := t.validate(t, value); err != nil {
		return "", err
	}
	return t.encode(value), nil
}

// MustConvert is like Convert but panics if the value is invalid.
func (t *ColumnType) MustConvert(value interface{}) string {
	out, err := t.Convert(value)
	if err != nil {
		panic(err)
	}
	return out
}

// Same reports whether two descriptors denote the same registered type.
func (t *ColumnType) Same(other *ColumnType) bool {
	return t != nil && other != nil && t.code == other.code
}

func (t *ColumnType) registered() bool {
	r, ok := typesByCode[t.code]
	return ok && r == t
}
