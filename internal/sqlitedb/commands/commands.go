// Package commands implements the actions shared by the sqlitedb
// subcommands and the interactive shell. Every action prints its result to
// the configured writer.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitedb/internal/db"
	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/importbar"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/styled"
	"github.com/nsqlite/sqlitedb/internal/util/numutil"
	"github.com/nsqlite/sqlitedb/internal/validate"
)

// Commands runs CLI actions against an open database.
type Commands struct {
	out    io.Writer
	db     *db.DB
	logger log.Logger
	// Output is the row shape used by Query.
	Output db.OutputType
	// Progress enables the import progress bar.
	Progress bool
}

// New returns Commands printing to out.
func New(out io.Writer, database *db.DB, logger log.Logger) *Commands {
	return &Commands{
		out:      out,
		db:       database,
		logger:   logger,
		Output:   database.DefaultOutput,
		Progress: true,
	}
}

// Import loads every CSV file into its own table. It stops at the first
// failing file.
func (c *Commands) Import(ctx context.Context, files ...string) error {
	var bar *importbar.ProgressBar
	if c.Progress && len(files) > 1 {
		bar = importbar.NewBar(c.out, "importing", len(files))
	}
	finish := func() {
		if bar != nil {
			bar.Finish()
			bar = nil
		}
	}
	defer finish()

	tw := styled.NewTableWriter("File", "Table", "Rows")
	for _, file := range files {
		if bar != nil {
			bar.Step(file)
		}
		if !validate.FileExtension(file, validate.FileExtensionCSV) {
			c.logger.WarnNs(log.NsCLI, "file has no .csv extension, importing anyway", log.KV{
				"file": file,
			})
		}

		tableName, err := c.db.InsertCSV(ctx, file)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", file, err)
		}
		count, err := c.db.CountRows(ctx, tableName)
		if err != nil {
			return err
		}

		c.logger.DebugNs(log.NsCLI, "file imported", log.KV{
			"file":  file,
			"table": tableName,
			"rows":  count,
		})
		tw.AppendRow(table.Row{file, tableName, numutil.IntWithCommas(count)})

		if bar != nil {
			bar.Inc()
		}
	}

	finish()
	fmt.Fprintln(c.out, tw.Render())
	return nil
}

// Tables prints the tables of the database.
func (c *Commands) Tables(ctx context.Context) error {
	tables, err := c.db.ListTables(ctx)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter("Table")
	for _, t := range tables {
		tw.AppendRow(table.Row{t})
	}
	fmt.Fprintln(c.out, tw.Render())
	styled.Dimmed(c.out, "%s tables", numutil.IntWithCommas(len(tables)))
	return nil
}

// Columns prints the columns of a table.
func (c *Commands) Columns(ctx context.Context, tableName string) error {
	columns, err := c.db.ListColumns(ctx, tableName)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return fmt.Errorf("table %s not found", tableName)
	}

	tw := styled.NewTableWriter("Column", "Type")
	for _, col := range columns {
		tw.AppendRow(table.Row{col.Name, col.Type})
	}
	fmt.Fprintln(c.out, tw.Render())
	return nil
}

// Count prints the number of rows of a table.
func (c *Commands) Count(ctx context.Context, tableName string) error {
	count, err := c.db.CountRows(ctx, tableName)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter("Table", "Rows")
	tw.AppendRow(table.Row{tableName, numutil.IntWithCommas(count)})
	fmt.Fprintln(c.out, tw.Render())
	return nil
}

// Databases prints the databases found in directory.
func (c *Commands) Databases(directory string) error {
	return PrintDatabases(c.out, directory)
}

// PrintDatabases prints the databases found in directory. It doesn't need
// an open database.
func PrintDatabases(out io.Writer, directory string) error {
	names, err := db.KnownDatabases(directory)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter("Database")
	for _, name := range names {
		tw.AppendRow(table.Row{name})
	}
	fmt.Fprintln(out, tw.Render())
	styled.Dimmed(out, "Directory: %s", directory)
	return nil
}

// Query runs a read query and prints its rows.
func (c *Commands) Query(ctx context.Context, query string, params ...any) error {
	res, err := c.db.Query(ctx, query, params, c.Output)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, styled.ResultTable(res).Render())
	styled.Dimmed(c.out, "%s rows as %s", numutil.IntWithCommas(res.Len()), res.Output)
	return nil
}

// Exec runs a write statement and prints the affected rows.
func (c *Commands) Exec(ctx context.Context, query string, params ...any) error {
	var batch [][]any
	if len(params) > 0 {
		batch = [][]any{params}
	}
	affected, err := c.db.RowCount(ctx, query, batch...)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter("-", "Rows Affected")
	tw.AppendRow(table.Row{"OK", numutil.IntWithCommas(affected)})
	fmt.Fprintln(c.out, tw.Render())
	return nil
}

// Run runs query as a read or a write depending on what SQLite says about
// the statement. Statements producing columns are printed as rows even if
// they write, like PRAGMA journal_mode or INSERT ... RETURNING.
func (c *Commands) Run(ctx context.Context, query string, params ...any) error {
	info, err := c.db.Inspect(ctx, query)
	if err != nil {
		return err
	}
	if info.ReadOnly || info.ReturnsRows {
		return c.Query(ctx, query, params...)
	}
	return c.Exec(ctx, query, params...)
}

// StringParams converts command line parameters to query arguments.
func StringParams(params []string) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return args
}
