package cheetah

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type (
	memoryTable struct {
		columns TypeSchema
		rows    []EncodedRow
	}

	// memoryConnection keeps tables in memory and records every mutation.
	memoryConnection struct {
		tables  map[string]*memoryTable
		ops     []string
		failRow func(EncodedRow) bool
		closed  bool
	}
)

func newMemoryConnection() *memoryConnection {
	return &memoryConnection{tables: map[string]*memoryTable{}}
}

// seed defines a table with rows filled with the null literal of each column.
func (c *memoryConnection) seed(table string, columns TypeSchema, rows int) {
	t := &memoryTable{columns: columns}
	for i := 0; i < rows; i++ {
		row := EncodedRow{}
		for _, col := range columns {
			row[col.Name] = col.Type.Null()
		}
		t.rows = append(t.rows, row)
	}
	c.tables[table] = t
}

func (c *memoryConnection) table(name string) (*memoryTable, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

func (c *memoryConnection) TableExists(ctx context.Context, table string) (bool, error) {
	_, ok := c.tables[table]
	return ok, nil
}

func (c *memoryConnection) CurrentTableTypeSchema(ctx context.Context, table string) (TypeSchema, int64, error) {
	t, err := c.table(table)
	if err != nil {
		return nil, 0, err
	}
	out := make(TypeSchema, len(t.columns))
	copy(out, t.columns)
	return out, int64(len(t.rows)), nil
}

func (c *memoryConnection) ColumnsOrdered(ctx context.Context, table string) ([]string, error) {
	t, err := c.table(table)
	if err != nil {
		return nil, err
	}
	return t.columns.Names(), nil
}

func (c *memoryConnection) CreateTable(ctx context.Context, table string, schema *Schema) error {
	c.ops = append(c.ops, "create "+table+" "+strings.Join(schema.Names(), ","))
	c.tables[table] = &memoryTable{columns: schema.TypeSchema()}
	return nil
}

func (c *memoryConnection) AddColumn(ctx context.Context, table, column string, ct *ColumnType, fill string) error {
	t, err := c.table(table)
	if err != nil {
		return err
	}
	c.ops = append(c.ops, "add "+column+" "+ct.Name()+" "+fill)
	t.columns = append(t.columns, TypeColumn{Name: column, Type: ct})
	for _, row := range t.rows {
		row[column] = fill
	}
	return nil
}

func (c *memoryConnection) AlterColumnType(ctx context.Context, table, column string, ct *ColumnType) error {
	t, err := c.table(table)
	if err != nil {
		return err
	}
	c.ops = append(c.ops, "retype "+column+" "+ct.Name())
	for i := range t.columns {
		if t.columns[i].Name == column {
			t.columns[i].Type = ct
		}
	}
	return nil
}

func (c *memoryConnection) DropColumn(ctx context.Context, table, column string) error {
	t, err := c.table(table)
	if err != nil {
		return err
	}
	c.ops = append(c.ops, "drop "+column)
	kept := t.columns[:0]
	for _, col := range t.columns {
		if col.Name != column {
			kept = append(kept, col)
		}
	}
	t.columns = kept
	return nil
}

func (c *memoryConnection) AddRow(ctx context.Context, table string, columns []string, row EncodedRow) error {
	t, err := c.table(table)
	if err != nil {
		return err
	}
	if c.failRow != nil && c.failRow(row) {
		return errors.New("insert rejected")
	}
	stmt, err := InsertStatement(table, columns, row)
	if err != nil {
		return err
	}
	c.ops = append(c.ops, stmt)
	t.rows = append(t.rows, row)
	return nil
}

func (c *memoryConnection) Count(ctx context.Context, table string) (int64, error) {
	t, err := c.table(table)
	if err != nil {
		return 0, err
	}
	return int64(len(t.rows)), nil
}

func (c *memoryConnection) Close() error {
	c.closed = true
	return nil
}
