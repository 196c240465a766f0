package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/sqlitedb/internal/db"
	"github.com/nsqlite/sqlitedb/internal/version"
)

// Config represents the configuration for sqlitedb.
type Config struct {
	Directory string `arg:"--directory,env:SQLITEDB_DIRECTORY" help:"Directory where databases are looked up and created (default to ~/.sqlitedb)"`
	Database  string `arg:"-d,--database,env:SQLITEDB_DATABASE" help:"Database name or path to open" default:"default.db"`
	Output    string `arg:"-o,--output,env:SQLITEDB_OUTPUT" help:"Row shape for query results (namedrow, map, tuple)" default:"namedrow"`
	Verbose   bool   `arg:"-v,--verbose,env:SQLITEDB_VERBOSE" help:"Enable debug logs on stderr" default:"false"`

	DisableOptimizations bool `arg:"--disable-optimizations,env:SQLITEDB_DISABLE_OPTIMIZATIONS" help:"Disable performance optimizations (WAL journal, memory temp store, mmap) for the opened database, allowing manual tuning" default:"false"`

	Import  *ImportCmd  `arg:"subcommand:import" help:"Import CSV files, one table per file"`
	Tables  *TablesCmd  `arg:"subcommand:tables" help:"List all tables in the database"`
	Columns *ColumnsCmd `arg:"subcommand:columns" help:"List all columns in a table"`
	Count   *CountCmd   `arg:"subcommand:count" help:"Count the number of rows in a table"`
	Dbs     *DbsCmd     `arg:"subcommand:dbs" help:"List the databases found in the directory"`
	Query   *QueryCmd   `arg:"subcommand:query" help:"Run a read query and print the rows"`
	Exec    *ExecCmd    `arg:"subcommand:exec" help:"Run a write statement and print the affected rows"`
	Shell   *ShellCmd   `arg:"subcommand:shell" help:"Start the interactive shell (default)"`

	ParsedOutput db.OutputType `arg:"-"`
}

type ImportCmd struct {
	Files []string `arg:"positional,required" help:"CSV files to import"`
}

type TablesCmd struct{}

type ColumnsCmd struct {
	Table string `arg:"positional,required" help:"Table name"`
}

type CountCmd struct {
	Table string `arg:"positional,required" help:"Table name"`
}

type DbsCmd struct{}

type QueryCmd struct {
	SQL    string   `arg:"positional,required" help:"SQL query"`
	Params []string `arg:"positional" help:"Query parameters bound in order"`
}

type ExecCmd struct {
	SQL    string   `arg:"positional,required" help:"SQL statement"`
	Params []string `arg:"positional" help:"Statement parameters bound in order"`
}

type ShellCmd struct{}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

// Command returns the name of the selected subcommand, "shell" when none
// was given.
func (c Config) Command() string {
	switch {
	case c.Import != nil:
		return "import"
	case c.Tables != nil:
		return "tables"
	case c.Columns != nil:
		return "columns"
	case c.Count != nil:
		return "count"
	case c.Dbs != nil:
		return "dbs"
	case c.Query != nil:
		return "query"
	case c.Exec != nil:
		return "exec"
	}
	return "shell"
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sqlitedb"},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := cfg.finish(); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// finish validates the parsed values and fills the derived ones.
func (c *Config) finish() error {
	output, err := validateOutput(c.Output)
	if err != nil {
		return err
	}
	c.ParsedOutput = output

	if c.Directory == "" {
		c.Directory, err = defaultDirectory()
		if err != nil {
			return err
		}
	}
	c.Directory, err = validateDirectory(c.Directory)
	if err != nil {
		return err
	}

	if strings.TrimSpace(c.Database) == "" {
		return errors.New("invalid database, must not be empty")
	}

	return nil
}

// defaultDirectory returns ~/.sqlitedb.
func defaultDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sqlitedb"), nil
}

// validateOutput validates output is a known row shape.
func validateOutput(output string) (db.OutputType, error) {
	parsed, err := db.ParseOutputType(output)
	if err != nil {
		return db.OutputType{}, fmt.Errorf("invalid output: %w", err)
	}
	return parsed, nil
}

// validateDirectory expands a leading ~ and checks the path is not an
// existing regular file.
func validateDirectory(directory string) (string, error) {
	if directory == "~" || strings.HasPrefix(directory, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		directory = filepath.Join(home, strings.TrimPrefix(directory, "~"))
	}

	info, err := os.Stat(directory)
	if err == nil && !info.IsDir() {
		return "", fmt.Errorf("invalid directory, %s is not a directory", directory)
	}

	return directory, nil
}
