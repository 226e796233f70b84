package cheetah

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gopsql/cheetah/wsclient"
	"github.com/gopsql/logger"
)

type (
	// Querier sends one q expression and returns its JSON encoded result.
	Querier interface {
		Query(ctx context.Context, q string) (json.RawMessage, error)
	}

	// QConnection is a Connection that speaks q text to a Querier, for
	// example a *wsclient.Client.
	QConnection struct {
		querier Querier
		logger  logger.Logger
	}
)

// NewQConnection creates a Connection from a Querier. A logger.Logger
// option logs every statement at debug level.
func NewQConnection(querier Querier, options ...interface{}) *QConnection {
	c := &QConnection{querier: querier}
	for _, option := range options {
		if l, ok := option.(logger.Logger); ok {
			c.logger = l
		}
	}
	return c
}

// SetLogger sets the logger of statements, nil disables logging.
func (c *QConnection) SetLogger(l logger.Logger) *QConnection {
	c.logger = l
	return c
}

// Querier returns the underlying querier.
func (c *QConnection) Querier() Querier {
	return c.querier
}

// Close closes the querier if it is an io.Closer.
func (c *QConnection) Close() error {
	if closer, ok := c.querier.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// Query sends a raw q expression.
func (c *QConnection) Query(ctx context.Context, q string) (json.RawMessage, error) {
	if c.querier == nil {
		return nil, ErrNoConnection
	}
	if c.logger != nil {
		c.logger.Debug(q)
	}
	res, err := c.querier.Query(ctx, q)
	var remote *wsclient.RemoteError
	if errors.As(err, &remote) {
		return nil, &QueryError{Query: remote.Query, Message: remote.Message}
	}
	return res, err
}

func (c *QConnection) TableExists(ctx context.Context, table string) (bool, error) {
	if err := checkIdentifier(table); err != nil {
		return false, err
	}
	res, err := c.Query(ctx, "`"+table+" in tables[]")
	if err != nil {
		return false, err
	}
	return decodeBool(res)
}

func (c *QConnection) ColumnsOrdered(ctx context.Context, table string) ([]string, error) {
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}
	res, err := c.Query(ctx, "cols "+table)
	if err != nil {
		return nil, err
	}
	return decodeSymbols(res)
}

func (c *QConnection) CurrentTableTypeSchema(ctx context.Context, table string) (TypeSchema, int64, error) {
	exists, err := c.TableExists(ctx, table)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	columns, err := c.ColumnsOrdered(ctx, table)
	if err != nil {
		return nil, 0, err
	}
	schema := make(TypeSchema, 0, len(columns))
	for _, column := range columns {
		res, err := c.Query(ctx, "type exec "+column+" from "+table)
		if err != nil {
			return nil, 0, err
		}
		code, err := decodeInt(res)
		if err != nil {
			return nil, 0, err
		}
		if code < 0 {
			code = -code
		}
		t, err := TypeByCode(int(code))
		if err != nil {
			return nil, 0, fmt.Errorf("column %s of %s: %w", column, table, err)
		}
		schema = append(schema, TypeColumn{Name: column, Type: t})
	}
	count, err := c.Count(ctx, table)
	if err != nil {
		return nil, 0, err
	}
	return schema, count, nil
}

func (c *QConnection) Count(ctx context.Context, table string) (int64, error) {
	if err := checkIdentifier(table); err != nil {
		return 0, err
	}
	res, err := c.Query(ctx, "count "+table)
	if err != nil {
		return 0, err
	}
	return decodeInt(res)
}

func (c *QConnection) CreateTable(ctx context.Context, table string, schema *Schema) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	_, err := c.Query(ctx, CreateTableStatement(table, schema))
	return err
}

func (c *QConnection) AddColumn(ctx context.Context, table, column string, t *ColumnType, fill string) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	value := fill
	if value == "" {
		value = emptyList(t)
	}
	_, err := c.Query(ctx, "update "+column+":"+value+" from `"+table)
	return err
}

func (c *QConnection) AlterColumnType(ctx context.Context, table, column string, t *ColumnType) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	_, err := c.Query(ctx, "update "+column+":"+emptyList(t)+" from `"+table)
	return err
}

func (c *QConnection) DropColumn(ctx context.Context, table, column string) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	_, err := c.Query(ctx, "delete "+column+" from `"+table)
	return err
}

func (c *QConnection) AddRow(ctx context.Context, table string, columns []string, row EncodedRow) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	stmt, err := InsertStatement(table, columns, row)
	if err != nil {
		return err
	}
	_, err = c.Query(ctx, stmt)
	return err
}

// CreateTableStatement returns the q statement creating an empty table with
// the columns of the schema.
//
//	`trades set ([] sym:"s"$(); price:"e"$())
func CreateTableStatement(table string, schema *Schema) string {
	columns := make([]string, 0, schema.Len())
	for _, c := range schema.columns {
		columns = append(columns, c.Name+":"+emptyList(c.Type))
	}
	return "`" + table + " set ([] " + strings.Join(columns, "; ") + ")"
}

// InsertStatement returns the q statement appending one row, with values in
// the order of columns.
//
//	`trades insert (`GOOGL;259.44e)
func InsertStatement(table string, columns []string, row EncodedRow) (string, error) {
	values := make([]string, 0, len(columns))
	for _, column := range columns {
		v, ok := row[column]
		if !ok {
			return "", fmt.Errorf("%w: the row has no value for the column '%s' of the table '%s'", ErrValidation, column, table)
		}
		values = append(values, v)
	}
	if len(values) == 1 {
		return "`" + table + " insert enlist " + values[0], nil
	}
	return "`" + table + " insert (" + strings.Join(values, ";") + ")", nil
}

func emptyList(t *ColumnType) string {
	return `"` + string(t.tag) + `"$()`
}

func checkIdentifier(table string) error {
	if !isIdentifier(table, true) {
		return &InvalidNameError{Name: table}
	}
	return nil
}

func decodeBool(res json.RawMessage) (bool, error) {
	var v interface{}
	if err := json.Unmarshal(res, &v); err != nil {
		return false, fmt.Errorf("decode boolean result: %w", err)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		return b != 0, nil
	case string:
		switch strings.TrimSpace(b) {
		case "1b", "1", "true":
			return true, nil
		case "0b", "0", "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("decode boolean result: unexpected %s", string(res))
}

// decodeInt accepts JSON numbers and q literals such as "11h" or "3j".
func decodeInt(res json.RawMessage) (int64, error) {
	var v interface{}
	dec := json.NewDecoder(strings.NewReader(string(res)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("decode integer result: %w", err)
	}
	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case string:
		text = strings.TrimRight(strings.TrimSpace(n), "hijf")
	default:
		return 0, fmt.Errorf("decode integer result: unexpected %s", string(res))
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return 0, fmt.Errorf("decode integer result: %w", err)
		}
		i = int64(f)
	}
	return i, nil
}

// decodeSymbols accepts JSON arrays of strings and q symbol list literals
// such as "`date`sym".
func decodeSymbols(res json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(res, &list); err == nil {
		return list, nil
	}
	var text string
	if err := json.Unmarshal(res, &text); err != nil {
		return nil, fmt.Errorf("decode symbol list result: unexpected %s", string(res))
	}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "`") {
		return nil, fmt.Errorf("decode symbol list result: unexpected %s", string(res))
	}
	return strings.Split(text[1:], "`"), nil
}
