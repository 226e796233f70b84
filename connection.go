package cheetah

import (
	"context"
	"io"
)

type (
	// Connection is the remote state a Model is reconciled with and
	// written to. Implementations issue one request at a time; callers
	// sharing a Connection must not overlap calls.
	Connection interface {
		// TableExists reports whether the table is defined remotely.
		TableExists(ctx context.Context, table string) (bool, error)

		// CurrentTableTypeSchema returns the column types in column order
		// and the row count of an existing table.
		CurrentTableTypeSchema(ctx context.Context, table string) (TypeSchema, int64, error)

		// ColumnsOrdered returns the live column order of the table.
		ColumnsOrdered(ctx context.Context, table string) ([]string, error)

		// CreateTable creates an empty table with a typed column for every
		// column of the schema.
		CreateTable(ctx context.Context, table string, schema *Schema) error

		// AddColumn adds a column. Existing rows get the fill literal; an
		// empty fill creates an empty typed column.
		AddColumn(ctx context.Context, table, column string, t *ColumnType, fill string) error

		// AlterColumnType changes the type of a column of an empty table.
		AlterColumnType(ctx context.Context, table, column string, t *ColumnType) error

		// DropColumn deletes a column.
		DropColumn(ctx context.Context, table, column string) error

		// AddRow appends one row of literals; columns is the live column
		// order the values are sent in.
		AddRow(ctx context.Context, table string, columns []string, row EncodedRow) error

		// Count returns the number of rows of the table.
		Count(ctx context.Context, table string) (int64, error)
	}

	// EncodedRow maps column names to literal text.
	EncodedRow map[string]string
)

func closeConnection(c Connection) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
