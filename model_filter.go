package cheetah

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"strings"
)

type (
	// ModelWithPermittedColumns wraps a Model with a whitelist of columns
	// that rows built from user input may set. Create instances using
	// Permit or PermitAllExcept, then use Filter to extract the allowed
	// values.
	ModelWithPermittedColumns struct {
		*Model
		permitted []string
	}
)

// Permit creates a ModelWithPermittedColumns that only allows the given
// columns in Filter operations. Names that are not columns of the model are
// ignored. If no column names are provided, no column is permitted.
func (m Model) Permit(columns ...string) *ModelWithPermittedColumns {
	permitted := []string{}
	for _, c := range m.schema.columns {
		for _, name := range columns {
			if name == c.Name {
				permitted = append(permitted, c.Name)
				break
			}
		}
	}
	return &ModelWithPermittedColumns{&m, permitted}
}

// PermitAllExcept creates a ModelWithPermittedColumns that allows all
// columns except the given ones in Filter operations.
func (m Model) PermitAllExcept(columns ...string) *ModelWithPermittedColumns {
	permitted := []string{}
	for _, c := range m.schema.columns {
		found := false
		for _, name := range columns {
			if name == c.Name {
				found = true
				break
			}
		}
		if !found {
			permitted = append(permitted, c.Name)
		}
	}
	return &ModelWithPermittedColumns{&m, permitted}
}

// PermittedColumns returns the names of the permitted columns in schema
// order.
func (m ModelWithPermittedColumns) PermittedColumns() []string {
	out := make([]string, len(m.permitted))
	copy(out, m.permitted)
	return out
}

// Filter extracts the permitted columns from inputs. Accepts Row,
// map[string]interface{}, JSON objects (string, []byte or io.Reader) and
// structs; later inputs override earlier ones. Invalid JSON is ignored.
// Strings given for temporal columns are parsed as RFC 3339 times, and as
// durations for Timespan columns, so JSON documents can carry them.
//
//	row := trades.Permit("sym", "price").Filter(requestBody)
//	trades.Create(ctx, row)
func (m ModelWithPermittedColumns) Filter(inputs ...interface{}) Row {
	out := Row{}
	for _, input := range inputs {
		switch in := input.(type) {
		case Row:
			m.filterPermits(in, out)
		case map[string]interface{}:
			m.filterPermits(in, out)
		case string:
			m.filterJSON(strings.NewReader(in), out)
		case []byte:
			m.filterJSON(bytes.NewReader(in), out)
		case io.Reader:
			m.filterJSON(in, out)
		default:
			rv := reflect.ValueOf(in)
			if rv.Kind() == reflect.Ptr && !rv.IsNil() {
				rv = rv.Elem()
			}
			if rv.Kind() == reflect.Struct {
				m.filterPermits(structToRow(rv), out)
			}
		}
	}
	return out
}

func (m ModelWithPermittedColumns) filterJSON(r io.Reader, out Row) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var in map[string]interface{}
	if dec.Decode(&in) == nil {
		m.filterPermits(in, out)
	}
}

func (m ModelWithPermittedColumns) filterPermits(in map[string]interface{}, out Row) {
	for _, name := range m.permitted {
		v, ok := in[name]
		if !ok {
			continue
		}
		c, _ := m.schema.Column(name)
		out[name] = coerceTemporal(c.Type, v)
	}
}
