// Package cheetah maps declarative schemas to kdb+ tables.
//
// # Overview
//
// Package cheetah keeps the tables of a q process in line with schemas
// declared in Go, and converts Go values to the q literals those tables
// store. A schema names its columns, their types, whether a value is
// required and the default used for missing values. Compiling a schema
// into a Model reconciles it with the live table: the table is created if
// it is missing, otherwise columns are added, retyped or dropped as long
// as no existing row would be lost or reinterpreted.
//
// Key features include:
//   - A registry of the q scalar types with their tags, type codes and null
//     literals
//   - Exact value validation, including 64-bit bounds and float precision
//   - Three-way schema reconciliation guarded by the row count of the table
//   - Row creation from maps or structs, one row at a time
//   - A websocket transport and a configuration file for the CLI
//
// # Basic Usage
//
// Connect to a q process, compile a model and create rows:
//
//	cfg, err := cheetah.LoadConfig("cheetah.yaml")
//	r, err := cheetah.Connect(ctx, cfg)
//	defer r.Close()
//
//	trades, err := r.Model(ctx, "Trade", cheetah.MustSchema(`{
//		"date":  {"type": "KDate"},
//		"sym":   {"type": "Symbol", "required": true},
//		"price": {"type": "Real"},
//		"size":  {"type": "Int", "default": 10}
//	}`))
//
//	created, err := trades.Create(ctx, cheetah.Row{
//		"date":  time.Now(),
//		"sym":   "GOOGL",
//		"price": 259.44,
//	})
//
// # Table and Column Naming
//
// Table names are the lowercase model name with an "s" appended, "Trade"
// becomes "trades". Set DefaultTableNamer to change this. Model names must
// be alphanumeric and start with a letter; column names may also contain
// underscores.
//
// Rows can also be given as structs. Column names are taken from the
// "column" struct tag, or from the field name converted by
// DefaultColumnNamer (snake_case by default). Fields tagged with "-" are
// skipped.
//
// # Column Types
//
// Every column type converts Go values to the literal text q parses:
//
//	cheetah.Convert(cheetah.Byte, 255)          // 0xff
//	cheetah.Convert(cheetah.Int, -2147483646)   // -2147483646i
//	cheetah.Convert(cheetah.Real, 259.44)       // 259.44e
//	cheetah.Convert(cheetah.Symbol, "GOOGL")    // `GOOGL
//	cheetah.Convert(cheetah.KDate, t)           // 2017.08.01d
//	cheetah.Convert(cheetah.Long, nil)          // 0Nj
//
// Integers are accepted as Go integers, integral floats, decimal strings,
// json.Number, decimal.Decimal and *big.Int, and compared to their bounds
// exactly. Real and Float values keep at most 7 significant digits.
// Temporal types take a time.Time; Timespan also takes a time.Duration.
//
// # Reconciliation
//
// When the table of a model already exists, Compile compares the declared
// schema with the column types and the row count of the table. An empty
// table accepts any change. Once the table has rows, a new column needs a
// default if it is required (otherwise existing rows get null), an
// existing column keeps its type and no column can be removed. Violations
// are reported as *MissingDefaultError, *TypeChangeError and
// *ColumnRemovalError before anything is changed. Plan computes the same
// decision without a connection.
//
// # Connections
//
// A Model talks to a Connection. QConnection implements it with q
// statements sent through a Querier, usually a *wsclient.Client. Every
// call is a single round trip and calls through a Registry are
// serialized. Contexts with deadlines bound each round trip; without a
// deadline a call waits until the q process answers.
//
// # Logging
//
// Pass a logger.Logger (from github.com/gopsql/logger) as an option to
// Connect, New, Compile or NewQConnection. Statements are logged at debug
// level, reconciliation decisions at info level and rows that could not be
// created at error level.
package cheetah
