package cheetah

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// RowOf builds a Row from alternating column names and values, an odd
// trailing name is ignored. Rows given among the pairs are merged in.
//
//	trades.Create(ctx, cheetah.RowOf("sym", "GOOGL", "price", 259.44))
func RowOf(pairs ...interface{}) Row {
	out := Row{}
	var key *string
	for _, item := range pairs {
		if key == nil {
			switch i := item.(type) {
			case string:
				key = &i
			case Row:
				for k, v := range i {
					out[k] = v
				}
			}
			continue
		}
		out[*key] = item
		key = nil
	}
	return out
}

func (r Row) String() string {
	j, _ := json.MarshalIndent(map[string]interface{}(r), "", "  ")
	return string(j)
}

// String returns the literals in column name order, for example
// "price:259.44e sym:`GOOGL".
func (r EncodedRow) String() string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + r[name]
	}
	return strings.Join(parts, " ")
}

// coerceTemporal parses strings given for temporal columns: RFC 3339 times,
// and Go durations for Timespan. Other values are returned unchanged.
func coerceTemporal(t *ColumnType, value interface{}) interface{} {
	s, ok := value.(string)
	if !ok || t == nil || !isTemporal(t) {
		return value
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return parsed
	}
	if t == Timespan {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return value
}
