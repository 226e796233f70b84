package cheetah

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gopsql/logger"
)

type (
	// Model is a remote table bound to a reconciled Schema. Models are
	// created by Compile. The table name is inferred from the model name
	// (see ToTableName).
	Model struct {
		name       string
		tableName  string
		schema     *Schema
		migration  *Migration
		connection Connection
		logger     logger.Logger
	}

	// Row is a row of native values keyed by column name.
	Row map[string]interface{}
)

// Compile reconciles the declared schema with the table of the model and
// returns the Model. If the table does not exist it is created with a
// typed column for every declared column. Otherwise its live type schema
// and row count are fetched and the migration is validated by Plan before
// any column is added, retyped or dropped; a failed validation changes
// nothing remotely. Compiling the same name again performs a new
// reconciliation. A logger.Logger option logs the reconciliation.
//
//	trades, err := cheetah.Compile(ctx, "Trade", cheetah.MustSchema(`{
//		"sym":   {"type": "Symbol"},
//		"price": {"type": "Real"},
//		"size":  {"type": "Int", "default": 10}
//	}`), conn)
func Compile(ctx context.Context, name string, schema *Schema, conn Connection, options ...interface{}) (*Model, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if schema == nil || schema.Len() == 0 {
		return nil, &SchemaValidationError{Reason: "The schema of model '" + name + "' must declare at least one column."}
	}
	if conn == nil {
		return nil, ErrNoConnection
	}
	m := &Model{
		name:      name,
		tableName: DefaultTableNamer(name),
	}
	m.SetOptions(options...).SetConnection(conn)

	exists, err := conn.TableExists(ctx, m.tableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		m.info("creating table", m.tableName, "for model", name)
		if err := conn.CreateTable(ctx, m.tableName, schema); err != nil {
			return nil, err
		}
		m.schema = schema
		return m, nil
	}

	remote, rowCount, err := conn.CurrentTableTypeSchema(ctx, m.tableName)
	if err != nil {
		return nil, err
	}
	migration, err := Plan(name, m.tableName, schema, remote, rowCount)
	if err != nil {
		return nil, err
	}
	pending := migration.Pending()
	m.info("migrating table", m.tableName, "for model", name, "with", len(pending), "changes")
	for _, change := range pending {
		if err := m.apply(ctx, change, rowCount); err != nil {
			return nil, err
		}
	}
	m.schema = migration.Schema
	m.migration = migration
	return m, nil
}

// MustCompile is like Compile but panics if compilation fails.
func MustCompile(ctx context.Context, name string, schema *Schema, conn Connection, options ...interface{}) *Model {
	m, err := Compile(ctx, name, schema, conn, options...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) apply(ctx context.Context, change Change, rowCount int64) error {
	column := change.Column
	switch change.Kind {
	case Add:
		fill := ""
		if rowCount > 0 {
			fill = column.Type.Null()
			if column.HasDefault() {
				var err error
				if fill, err = column.Type.Convert(column.Default); err != nil {
					return err
				}
			}
		}
		m.debug("add column", column.Name, column.Type.Name(), fill)
		return m.connection.AddColumn(ctx, m.tableName, column.Name, column.Type, fill)
	case Retype:
		m.debug("retype column", column.Name, change.From.Name(), "to", change.To.Name())
		return m.connection.AlterColumnType(ctx, m.tableName, column.Name, change.To)
	case Drop:
		m.debug("drop column", column.Name)
		return m.connection.DropColumn(ctx, m.tableName, column.Name)
	}
	return nil
}

func (m Model) String() string {
	return `model "` + m.name + `" (table: "` + m.tableName + `") has ` +
		strconv.Itoa(m.schema.Len()) + " columns"
}

// Name of the Model.
func (m Model) Name() string {
	return m.name
}

// Table name of the Model (see ToTableName()).
func (m Model) TableName() string {
	return m.tableName
}

// Schema the Model was reconciled to.
func (m Model) Schema() *Schema {
	return m.schema
}

// Migration returns the migration applied by Compile, nil if the table was
// created.
func (m Model) Migration() *Migration {
	return m.migration
}

// Return the connection of the Model.
func (m Model) Connection() Connection {
	return m.connection
}

// CreateStatement returns the q statement that creates the table of the
// Model.
func (m Model) CreateStatement() string {
	return CreateTableStatement(m.tableName, m.schema)
}

// Clone returns a copy of the model.
func (m *Model) Clone() *Model {
	return &Model{
		name:       m.name,
		tableName:  m.tableName,
		schema:     m.schema,
		migration:  m.migration,
		connection: m.connection,
		logger:     m.logger,
	}
}

// Quiet returns a copy of the model without logger.
func (m *Model) Quiet() *Model {
	return m.Clone().SetLogger(nil)
}

// SetOptions sets the connection (see SetConnection()) or the logger (see
// SetLogger()).
func (m *Model) SetOptions(options ...interface{}) *Model {
	for _, option := range options {
		switch o := option.(type) {
		case Connection:
			m.SetConnection(o)
		case logger.Logger:
			m.SetLogger(o)
		}
	}
	return m
}

// SetConnection sets the connection rows are created on. The table of the
// new connection is expected to have been reconciled already.
func (m *Model) SetConnection(conn Connection) *Model {
	m.connection = conn
	return m
}

// Set the logger for the Model. Use logger.StandardLogger if you want to use
// Go's built-in standard logging package. By default, no logger is used.
func (m *Model) SetLogger(logger logger.Logger) *Model {
	m.logger = logger
	return m
}

// Count returns the number of rows of the table.
func (m Model) Count(ctx context.Context) (int64, error) {
	if m.connection == nil {
		return 0, ErrNoConnection
	}
	return m.connection.Count(ctx, m.tableName)
}

// MustCreate is like Create but panics if rows can not be read or the
// column order can not be fetched.
func (m Model) MustCreate(ctx context.Context, rows interface{}) []EncodedRow {
	out, err := m.Create(ctx, rows)
	if err != nil {
		panic(err)
	}
	return out
}

// Create appends rows to the table. Rows can be a Row (or
// map[string]interface{}), a struct or a pointer to a struct, or a slice of
// those. Every declared column is converted to its literal; missing values
// are replaced by the column default, or null if the column is not
// required. Rows are sent one at a time in the live column order of the
// table. A row that fails to convert or insert is logged and left out of
// the returned rows; the other rows are still created.
//
//	created, err := trades.Create(ctx, cheetah.Row{
//		"sym":   "GOOGL",
//		"price": 259.44,
//	})
//	// created[0]["price"] == "259.44e", created[0]["size"] == "10i"
func (m Model) Create(ctx context.Context, rows interface{}) ([]EncodedRow, error) {
	list, err := toRows(rows)
	if err != nil {
		return nil, err
	}
	if m.connection == nil {
		return nil, ErrNoConnection
	}
	columns, err := m.connection.ColumnsOrdered(ctx, m.tableName)
	if err != nil {
		return nil, err
	}
	out := make([]EncodedRow, 0, len(list))
	for i, row := range list {
		encoded, err := m.Encode(row)
		if err == nil {
			err = m.connection.AddRow(ctx, m.tableName, columns, encoded)
		}
		if err != nil {
			if m.logger != nil {
				m.logger.Error("row", i, "of", m.tableName, "was not created:", err, row)
			}
			continue
		}
		out = append(out, encoded)
	}
	return out, nil
}

// Encode converts a row of native values to literals without sending it.
func (m Model) Encode(row Row) (EncodedRow, error) {
	for key := range row {
		if _, ok := m.schema.index[key]; !ok {
			return nil, fmt.Errorf("%w: the column '%s' is not in the schema of model '%s'", ErrValidation, key, m.name)
		}
	}
	out := make(EncodedRow, m.schema.Len())
	for _, c := range m.schema.columns {
		value := row[c.Name]
		if isNil(value) {
			if c.HasDefault() {
				value = c.Default
			} else if c.Required {
				return nil, fmt.Errorf("%w: the column '%s' of model '%s' is required", ErrValidation, c.Name, m.name)
			}
		}
		literal, err := c.Type.Convert(value)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", c.Name, err)
		}
		out[c.Name] = literal
	}
	return out, nil
}

func (m Model) info(args ...interface{}) {
	if m.logger != nil {
		m.logger.Info(args...)
	}
}

func (m Model) debug(args ...interface{}) {
	if m.logger != nil {
		m.logger.Debug(args...)
	}
}

func toRows(rows interface{}) ([]Row, error) {
	switch r := rows.(type) {
	case nil:
		return nil, ErrInvalidRows
	case Row:
		return []Row{r}, nil
	case map[string]interface{}:
		return []Row{r}, nil
	case []Row:
		return r, nil
	case []map[string]interface{}:
		out := make([]Row, len(r))
		for i := range r {
			out[i] = r[i]
		}
		return out, nil
	}
	rv := reflect.ValueOf(rows)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, ErrInvalidRows
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return []Row{structToRow(rv)}, nil
	case reflect.Slice, reflect.Array:
		out := make([]Row, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			rs, err := toRows(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			if len(rs) != 1 {
				return nil, ErrInvalidRows
			}
			out = append(out, rs[0])
		}
		return out, nil
	}
	return nil, ErrInvalidRows
}

// structToRow collects exported fields by their "column" tag or by
// DefaultColumnNamer.
func structToRow(rv reflect.Value) Row {
	row := Row{}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			for k, v := range structToRow(rv.Field(i)) {
				row[k] = v
			}
			continue
		}
		if f.PkgPath != "" {
			continue
		}
		columnName := f.Tag.Get("column")
		if columnName == "-" {
			continue
		}
		if idx := strings.Index(columnName, ","); idx != -1 {
			columnName = columnName[:idx]
		}
		if columnName == "" {
			columnName = f.Name
			if DefaultColumnNamer != nil {
				columnName = DefaultColumnNamer(f.Name)
			}
		}
		row[columnName] = rv.Field(i).Interface()
	}
	return row
}
