package cheetah

import "strconv"

// ChangeKind classifies a column during reconciliation.
type ChangeKind int

const (
	// Keep means the column exists remotely with the declared type.
	Keep ChangeKind = iota
	// Add means the column is declared but missing remotely.
	Add
	// Retype means the column exists remotely with another type.
	Retype
	// Drop means the column exists remotely but is no longer declared.
	Drop
)

func (k ChangeKind) String() string {
	switch k {
	case Keep:
		return "keep"
	case Add:
		return "add"
	case Retype:
		return "retype"
	case Drop:
		return "drop"
	}
	return "ChangeKind(" + strconv.Itoa(int(k)) + ")"
}

type (
	// Change is the classification of one column. From is the remote type
	// (nil for Add), To the declared type (nil for Drop).
	Change struct {
		Kind   ChangeKind
		Column Column
		From   *ColumnType
		To     *ColumnType
	}

	// Migration is the validated result of reconciling a declared schema
	// with the live schema of a table.
	Migration struct {
		Model    string
		Table    string
		RowCount int64
		Schema   *Schema
		Changes  []Change
	}
)

// Pending returns the changes that need a remote mutation.
func (m *Migration) Pending() (out []Change) {
	for _, c := range m.Changes {
		if c.Kind != Keep {
			out = append(out, c)
		}
	}
	return
}

// Merge reconciles the declared schema with the remote type schema of a
// table holding rowCount rows and returns the resulting schema. See Plan.
func Merge(model, table string, declared *Schema, remote TypeSchema, rowCount int64) (*Schema, error) {
	m, err := Plan(model, table, declared, remote, rowCount)
	if err != nil {
		return nil, err
	}
	return m.Schema, nil
}

// Plan classifies every column of the union of the declared and the remote
// schema. An empty table accepts any change. Once the table has rows:
//
//   - a new column needs a default unless it is not required, in which case
//     existing rows are backfilled with null (*MissingDefaultError);
//   - an existing column must keep its type (*TypeChangeError);
//   - no column can be removed (*ColumnRemovalError).
//
// Nothing is changed remotely; the first violation is returned.
func Plan(model, table string, declared *Schema, remote TypeSchema, rowCount int64) (*Migration, error) {
	if declared == nil {
		return nil, &SchemaValidationError{Reason: "The declared schema of model '" + model + "' is nil."}
	}
	empty := rowCount == 0
	m := &Migration{
		Model:    model,
		Table:    table,
		RowCount: rowCount,
	}
	accepted := make([]Column, 0, declared.Len())
	for _, c := range declared.columns {
		remoteType, exists := remote.Type(c.Name)
		if !exists {
			if !empty && !c.HasDefault() && c.Required {
				return nil, &MissingDefaultError{Model: model, Table: table, Column: c.Name}
			}
			accepted = append(accepted, c)
			m.Changes = append(m.Changes, Change{Kind: Add, Column: c, To: c.Type})
			continue
		}
		if c.Type.Same(remoteType) {
			accepted = append(accepted, c)
			m.Changes = append(m.Changes, Change{Kind: Keep, Column: c, From: remoteType, To: c.Type})
			continue
		}
		if !empty {
			return nil, &TypeChangeError{Model: model, Table: table, Column: c.Name, From: remoteType, To: c.Type}
		}
		accepted = append(accepted, c)
		m.Changes = append(m.Changes, Change{Kind: Retype, Column: c, From: remoteType, To: c.Type})
	}
	for _, r := range remote {
		if _, ok := declared.index[r.Name]; ok {
			continue
		}
		if !empty {
			return nil, &ColumnRemovalError{Model: model, Table: table, Column: r.Name}
		}
		m.Changes = append(m.Changes, Change{Kind: Drop, Column: Column{Name: r.Name, Type: r.Type}, From: r.Type})
	}
	schema, err := NewSchema(accepted...)
	if err != nil {
		return nil, err
	}
	m.Schema = schema
	return m, nil
}
