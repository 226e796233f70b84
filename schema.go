package cheetah

import (
	"reflect"
	"strings"
)

type (
	// Column is the declaration of a single column: its type, whether a
	// value is required and the default used for missing values and for
	// backfilling existing rows.
	Column struct {
		Name     string
		Type     *ColumnType
		Required bool
		Default  interface{}
	}

	// Schema is an ordered, validated list of column declarations. Schemas
	// are immutable once created.
	Schema struct {
		columns []Column
		index   map[string]int
	}

	// TypeColumn is a column of a remote table, known by its type only.
	TypeColumn struct {
		Name string
		Type *ColumnType
	}

	// TypeSchema is the live schema of a remote table in column order.
	TypeSchema []TypeColumn
)

// HasDefault reports whether the column declares a non-nil default.
func (c Column) HasDefault() bool {
	return !isNil(c.Default)
}

// NewSchema creates a Schema from column declarations, keeping their order.
// A *SchemaValidationError is returned for empty or duplicate names,
// missing or unregistered types and defaults that are not valid values of
// the column type.
//
//	schema, err := cheetah.NewSchema(
//		cheetah.Column{Name: "sym", Type: cheetah.Symbol},
//		cheetah.Column{Name: "size", Type: cheetah.Int, Default: 10},
//	)
func NewSchema(columns ...Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if err := ValidateColumnName(c.Name); err != nil {
			return nil, err
		}
		if _, ok := s.index[c.Name]; ok {
			return nil, &SchemaValidationError{Column: c.Name, Reason: "The column is declared more than once."}
		}
		if c.Type == nil {
			return nil, &SchemaValidationError{Column: c.Name, Reason: "The column is missing the required key 'type'."}
		}
		if !c.Type.registered() {
			return nil, &SchemaValidationError{Column: c.Name, Reason: "The type '" + c.Type.name + "' is not a registered type."}
		}
		if c.HasDefault() {
			if err := c.Type.Validate(c.Default); err != nil {
				return nil, &SchemaValidationError{Column: c.Name, Reason: "The default value is not valid: " + err.Error()}
			}
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s, nil
}

// MustSchema is like ParseSchema but panics if the declaration is invalid.
func MustSchema(in interface{}) *Schema {
	s, err := ParseSchema(in)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateColumnName returns a *SchemaValidationError unless name starts
// with a letter followed by letters, digits or underscores.
func ValidateColumnName(name string) error {
	if !isIdentifier(name, true) {
		return &SchemaValidationError{Column: name,
			Reason: "Column names must be alphanumeric and have a letter for the first character."}
	}
	return nil
}

// Columns returns a copy of the column declarations in order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Column returns the declaration of the named column.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

func (s *Schema) Len() int {
	return len(s.columns)
}

// TypeSchema drops everything but names and types.
func (s *Schema) TypeSchema() TypeSchema {
	out := make(TypeSchema, len(s.columns))
	for i, c := range s.columns {
		out[i] = TypeColumn{Name: c.Name, Type: c.Type}
	}
	return out
}

// Equal reports whether both schemas declare the same columns in the same
// order.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.columns) != len(other.columns) {
		return false
	}
	for i, c := range s.columns {
		o := other.columns[i]
		if c.Name != o.Name || !c.Type.Same(o.Type) || c.Required != o.Required ||
			!reflect.DeepEqual(c.Default, o.Default) {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	parts := make([]string, len(s.columns))
	for i, c := range s.columns {
		p := c.Name + ":" + c.Type.name
		if c.Required {
			p += " required"
		}
		if c.HasDefault() {
			p += " default " + c.Type.MustConvert(c.Default)
		}
		parts[i] = p
	}
	return "schema (" + strings.Join(parts, ", ") + ")"
}

// Type returns the type of the named column.
func (ts TypeSchema) Type(name string) (*ColumnType, bool) {
	for _, c := range ts {
		if c.Name == name {
			return c.Type, true
		}
	}
	return nil, false
}

// Names returns the column names in order.
func (ts TypeSchema) Names() []string {
	out := make([]string, len(ts))
	for i, c := range ts {
		out[i] = c.Name
	}
	return out
}

func isIdentifier(name string, underscore bool) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 {
			if !letter {
				return false
			}
			continue
		}
		if !letter && !(r >= '0' && r <= '9') && !(underscore && r == '_') {
			return false
		}
	}
	return true
}
