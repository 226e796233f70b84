package cheetah

import (
	"strings"
	"unicode"
)

var (
	// DefaultTableNamer converts model names to table names when calling
	// Compile. Default is ToTableName.
	DefaultTableNamer func(string) string = ToTableName

	// DefaultColumnNamer converts struct field names to column names when
	// rows are given as structs without "column" tag. Default is
	// ToUnderscore.
	DefaultColumnNamer func(string) string = ToUnderscore
)

// ToTableName lowercases a model name and converts it to its plural form,
// for example "Trade" is converted to "trades".
func ToTableName(name string) string {
	return ToPlural(strings.ToLower(name))
}

// Convert a word to its plural form by adding "s". Irregular forms are not
// supported, "entry" becomes "entrys".
func ToPlural(in string) string {
	if in == "" {
		return ""
	}
	return in + "s"
}

// ValidateName returns an *InvalidNameError unless name is alphanumeric and
// starts with a letter.
func ValidateName(name string) error {
	if !isIdentifier(name, false) {
		return &InvalidNameError{Name: name}
	}
	return nil
}

// Convert "CamelCase" word to its "snake_case" (underscore) form. For example,
// "TradePrice" will be converted to "trade_price".
func ToUnderscore(str string) string { // from govalidator
	var output []rune
	var segment []rune
	for _, r := range str {
		// not treat number as separate segment
		if !unicode.IsLower(r) && string(r) != "_" && !unicode.IsNumber(r) {
			output = addSegment(output, segment)
			segment = nil
		}
		segment = append(segment, unicode.ToLower(r))
	}
	output = addSegment(output, segment)
	return string(output)
}

func addSegment(inrune, segment []rune) []rune { // from govalidator
	if len(segment) == 0 {
		return inrune
	}
	if len(inrune) != 0 {
		inrune = append(inrune, '_')
	}
	inrune = append(inrune, segment...)
	return inrune
}
