// Command cheetah reconciles the models declared in a configuration file
// with a q process and sends raw q commands to it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/gopsql/cheetah"
)

// Globals are the flags shared by all commands.
type Globals struct {
	Config string `name:"config" short:"c" help:"Configuration file (YAML, JSON or TOML)" type:"path"`
	Debug  bool   `name:"debug" help:"Log every q command"`
}

var CLI struct {
	Globals

	Sync  SyncCmd  `cmd:"" help:"Compile every configured model against the database"`
	Types TypesCmd `cmd:"" help:"Print the column types"`
	Query QueryCmd `cmd:"" help:"Send one q command and print its JSON result"`
}

// SyncCmd creates or migrates the tables of the configured models.
type SyncCmd struct {
	DryRun bool `name:"dry-run" help:"Only print the planned changes"`
}

func (c *SyncCmd) Run(g *Globals) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := g.load()
	if err != nil {
		return err
	}
	names, schemas, err := cfg.Schemas()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no models configured")
	}
	registry, err := cheetah.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	for i, name := range names {
		if c.DryRun {
			if err := plan(ctx, registry.Connection(), name, schemas[i]); err != nil {
				return err
			}
			continue
		}
		m, err := registry.Model(ctx, name, schemas[i])
		if err != nil {
			return fmt.Errorf("sync %s: %w", name, err)
		}
		fmt.Println(m)
		if migration := m.Migration(); migration != nil {
			for _, change := range migration.Pending() {
				fmt.Printf("  %s %s\n", change.Kind, change.Column.Name)
			}
		}
	}
	return nil
}

func plan(ctx context.Context, conn cheetah.Connection, name string, schema *cheetah.Schema) error {
	table := cheetah.DefaultTableNamer(name)
	exists, err := conn.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Printf("%s: create %s\n", name, cheetah.CreateTableStatement(table, schema))
		return nil
	}
	remote, rowCount, err := conn.CurrentTableTypeSchema(ctx, table)
	if err != nil {
		return err
	}
	migration, err := cheetah.Plan(name, table, schema, remote, rowCount)
	if err != nil {
		return err
	}
	pending := migration.Pending()
	fmt.Printf("%s: %d rows, %d changes\n", name, rowCount, len(pending))
	for _, change := range pending {
		fmt.Printf("  %s %s\n", change.Kind, change.Column.Name)
	}
	return nil
}

// TypesCmd prints the column type registry.
type TypesCmd struct{}

func (c *TypesCmd) Run() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tQ NAME\tTAG\tCODE\tSIZE\tNULL")
	for _, t := range cheetah.Types() {
		size := fmt.Sprint(t.Size())
		if t.Size() == cheetah.VariableSize {
			size = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%c\t%d\t%s\t%s\n", t.Name(), t.QName(), t.Tag(), t.Code(), size, t.Null())
	}
	return w.Flush()
}

// QueryCmd sends a raw q command.
type QueryCmd struct {
	Q string `arg:"" help:"q expression"`
}

func (c *QueryCmd) Run(g *Globals) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := g.load()
	if err != nil {
		return err
	}
	registry, err := cheetah.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	conn, ok := registry.Connection().(*cheetah.QConnection)
	if !ok {
		return fmt.Errorf("connection does not accept raw queries")
	}
	res, err := conn.Query(ctx, c.Q)
	if err != nil {
		return err
	}
	fmt.Println(string(res))
	return nil
}

func (g *Globals) load() (*cheetah.Config, error) {
	cfg, err := cheetah.LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cheetah"),
		kong.Description("Declarative schemas for kdb+ tables"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
