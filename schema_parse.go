package cheetah

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var columnKeys = map[string]bool{"type": true, "required": true, "default": true}

// ParseSchema creates a Schema from a loose declaration. Accepted inputs:
//
//   - *Schema, returned as is;
//   - []Column, see NewSchema;
//   - map[string]interface{} of column name to column definition, columns
//     are sorted by name;
//   - []interface{} or []map[string]interface{} of column definitions with
//     an additional "name" key, in declaration order;
//   - JSON documents (string, []byte or io.Reader) of one of the two forms
//     above; object key order is kept.
//
// A column definition is a map with a "type" key and optional "required"
// and "default" keys. The type is a *ColumnType, a type name or a numeric
// type code.
//
//	cheetah.ParseSchema(`{
//		"sym":  {"type": "Symbol"},
//		"size": {"type": "Int", "default": 10}
//	}`)
func ParseSchema(in interface{}) (*Schema, error) {
	switch v := in.(type) {
	case *Schema:
		if v == nil {
			return nil, notMapping()
		}
		return v, nil
	case []Column:
		return NewSchema(v...)
	case map[string]interface{}:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		columns := make([]Column, 0, len(names))
		for _, name := range names {
			c, err := parseColumn(name, v[name], false)
			if err != nil {
				return nil, err
			}
			columns = append(columns, c)
		}
		return NewSchema(columns...)
	case map[string]map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for name, def := range v {
			m[name] = def
		}
		return ParseSchema(m)
	case []map[string]interface{}:
		list := make([]interface{}, len(v))
		for i, def := range v {
			list[i] = def
		}
		return ParseSchema(list)
	case []interface{}:
		columns := make([]Column, 0, len(v))
		for i, def := range v {
			m, ok := def.(map[string]interface{})
			if !ok {
				return nil, &SchemaValidationError{Column: fmt.Sprintf("#%d", i), Reason: "The column definition must be a mapping."}
			}
			name, _ := m["name"].(string)
			if name == "" {
				return nil, &SchemaValidationError{Column: fmt.Sprintf("#%d", i), Reason: "The column definition is missing the required key 'name'."}
			}
			c, err := parseColumn(name, m, true)
			if err != nil {
				return nil, err
			}
			columns = append(columns, c)
		}
		return NewSchema(columns...)
	case string:
		return parseSchemaJSON(strings.NewReader(v))
	case []byte:
		return parseSchemaJSON(bytes.NewReader(v))
	case io.Reader:
		return parseSchemaJSON(v)
	}
	return nil, notMapping()
}

func notMapping() error {
	return &SchemaValidationError{Reason: "The schema must be a mapping of column names to column definitions."}
}

// parseSchemaJSON decodes objects token by token to keep the key order.
func parseSchemaJSON(r io.Reader) (*Schema, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, &SchemaValidationError{Reason: "The schema is not valid JSON: " + err.Error()}
	}
	switch tok {
	case json.Delim('['):
		var list []interface{}
		for dec.More() {
			var def interface{}
			if err := dec.Decode(&def); err != nil {
				return nil, &SchemaValidationError{Reason: "The schema is not valid JSON: " + err.Error()}
			}
			list = append(list, def)
		}
		if err := closeJSON(dec); err != nil {
			return nil, err
		}
		return ParseSchema(list)
	case json.Delim('{'):
		var columns []Column
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, &SchemaValidationError{Reason: "The schema is not valid JSON: " + err.Error()}
			}
			name, _ := keyTok.(string)
			var def interface{}
			if err := dec.Decode(&def); err != nil {
				return nil, &SchemaValidationError{Column: name, Reason: "The column definition is not valid JSON: " + err.Error()}
			}
			c, err := parseColumn(name, def, false)
			if err != nil {
				return nil, err
			}
			columns = append(columns, c)
		}
		if err := closeJSON(dec); err != nil {
			return nil, err
		}
		return NewSchema(columns...)
	}
	return nil, notMapping()
}

func closeJSON(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		return &SchemaValidationError{Reason: "The schema is not valid JSON: " + err.Error()}
	}
	return nil
}

func parseColumn(name string, def interface{}, named bool) (Column, error) {
	m, ok := def.(map[string]interface{})
	if !ok {
		return Column{}, &SchemaValidationError{Column: name, Reason: "The column definition must be a mapping."}
	}
	var invalid []string
	for key := range m {
		if columnKeys[key] || (named && key == "name") {
			continue
		}
		invalid = append(invalid, "'"+key+"'")
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return Column{}, &SchemaValidationError{Column: name,
			Reason: "The keys " + strings.Join(invalid, ", ") + " are not valid. Valid keys are 'type', 'required' and 'default'."}
	}
	rawType, ok := m["type"]
	if !ok || rawType == nil {
		return Column{}, &SchemaValidationError{Column: name, Reason: "The column is missing the required key 'type'."}
	}
	t, err := parseType(rawType)
	if err != nil {
		return Column{}, &SchemaValidationError{Column: name, Reason: err.Error()}
	}
	c := Column{Name: name, Type: t, Default: m["default"]}
	if r, ok := m["required"]; ok && r != nil {
		required, ok := r.(bool)
		if !ok {
			return Column{}, &SchemaValidationError{Column: name, Reason: "The key 'required' must be a boolean."}
		}
		c.Required = required
	}
	c.Default = coerceTemporal(t, c.Default)
	return c, nil
}

func parseType(raw interface{}) (*ColumnType, error) {
	switch v := raw.(type) {
	case *ColumnType:
		if v == nil {
			return nil, errors.New("The key 'type' must not be nil.")
		}
		if !v.registered() {
			return nil, errors.New("The type '" + v.name + "' is not a registered type.")
		}
		return v, nil
	case string:
		return TypeByName(v)
	}
	code, ok := toInteger(raw)
	if !ok {
		return nil, fmt.Errorf("The key 'type' must be a column type, a type name or a type code, got %T.", raw)
	}
	return TypeByCode(int(code.IntPart()))
}

func isTemporal(t *ColumnType) bool {
	return t.code >= Timestamp.code && t.code <= Time.code
}
