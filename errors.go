package cheetah

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrSchemaValidation = errors.New("invalid schema")
	ErrMissingDefault   = errors.New("missing default for new column")
	ErrTypeChange       = errors.New("column type change on non-empty table")
	ErrColumnRemoval    = errors.New("column removal on non-empty table")
	ErrInvalidName      = errors.New("invalid model name")
	ErrUnknownTypeCode  = errors.New("unknown type code")
	ErrUnknownTypeName  = errors.New("unknown type name")
	ErrNoConnection     = errors.New("no connection")
	ErrInvalidRows      = errors.New("rows must be a row, a slice of rows, a struct or a slice of structs")
	ErrTableNotFound    = errors.New("table not found")
)

type (
	// ValidationError is returned when a value does not satisfy the
	// predicate of a column type.
	ValidationError struct {
		Type   *ColumnType
		Value  interface{}
		Reason string
	}

	// SchemaValidationError is returned when a schema declaration is
	// malformed. Column is empty if the declaration itself is not a
	// mapping.
	SchemaValidationError struct {
		Column string
		Reason string
	}

	// MissingDefaultError is returned when a required column without a
	// default is added to a table that already has rows.
	MissingDefaultError struct {
		Model  string
		Table  string
		Column string
	}

	// TypeChangeError is returned when the type of an existing column is
	// changed while its table has rows.
	TypeChangeError struct {
		Model  string
		Table  string
		Column string
		From   *ColumnType
		To     *ColumnType
	}

	// ColumnRemovalError is returned when a column is removed from a table
	// that has rows.
	ColumnRemovalError struct {
		Model  string
		Table  string
		Column string
	}

	// InvalidNameError is returned for model and table names that are not
	// alphanumeric or do not start with a letter.
	InvalidNameError struct {
		Name string
	}

	// QueryError is a failure reported by the remote engine for a query.
	QueryError struct {
		Query   string
		Message string
	}
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Could not convert %v to the type `%s`. %s", e.Value, e.Type.Name(), e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func (e *SchemaValidationError) Error() string {
	if e.Column == "" {
		return "Invalid schema. " + e.Reason
	}
	return fmt.Sprintf("Invalid schema for the column '%s'. %s", e.Column, e.Reason)
}

func (e *SchemaValidationError) Unwrap() error {
	return ErrSchemaValidation
}

func (e *MissingDefaultError) Error() string {
	return fmt.Sprintf("Must provide a default in the schema for model '%s' for the column with name '%s' "+
		"if the table exists and is not empty. Either provide a default value to the schema for model '%s' "+
		"or remove rows from the table '%s'.", e.Model, e.Column, e.Model, e.Table)
}

func (e *MissingDefaultError) Unwrap() error {
	return ErrMissingDefault
}

func (e *TypeChangeError) Error() string {
	return fmt.Sprintf("A column's type was changed for the schema of model '%s' and the corresponding table "+
		"with name '%s' is not empty. The column '%s' has a current type of '%s' and was tried to change to type '%s'.",
		e.Model, e.Table, e.Column, e.From.Name(), e.To.Name())
}

func (e *TypeChangeError) Unwrap() error {
	return ErrTypeChange
}

func (e *ColumnRemovalError) Error() string {
	return fmt.Sprintf("Tried to remove the column '%s' in the schema for model '%s' and the table is not empty. "+
		"To remove the column from a table first delete all data in the table with name '%s'.",
		e.Column, e.Model, e.Table)
}

func (e *ColumnRemovalError) Unwrap() error {
	return ErrColumnRemoval
}

func (e *InvalidNameError) Error() string {
	return "Invalid model name. Must be alphanumeric and have a letter for the first character: '" + e.Name + "'"
}

func (e *InvalidNameError) Unwrap() error {
	return ErrInvalidName
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q failed: %s", e.Query, e.Message)
}
