package cheetah

import (
	"errors"
	"fmt"
)

// Convert validates value against the column type and returns the literal
// text the remote engine parses for it. Nil values convert to the null
// literal of the type. A *ValidationError is returned for invalid values.
//
//	cheetah.Convert(cheetah.Byte, 255)  // "0xff"
//	cheetah.Convert(cheetah.Int, nil)   // "0Ni"
func Convert(t *ColumnType, value interface{}) (string, error) {
	if err := checkType(t); err != nil {
		return "", err
	}
	return t.Convert(value)
}

// MustConvert is like Convert but panics if conversion fails.
func MustConvert(t *ColumnType, value interface{}) string {
	out, err := Convert(t, value)
	if err != nil {
		panic(err)
	}
	return out
}

// IsValid reports whether value can be converted to the column type. Failed
// validations are reported as false; any other failure, for example a nil or
// unregistered column type, is returned as error.
func IsValid(t *ColumnType, value interface{}) (bool, error) {
	if err := checkType(t); err != nil {
		return false, err
	}
	err := t.Validate(value)
	if err == nil {
		return true, nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return false, nil
	}
	return false, err
}

func checkType(t *ColumnType) error {
	if t == nil {
		return fmt.Errorf("%w: column type is nil", ErrUnknownTypeName)
	}
	if !t.registered() {
		return fmt.Errorf("%w: the type '%s' is not registered", ErrUnknownTypeName, t.name)
	}
	return nil
}
