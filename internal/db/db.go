// Package db inserts uniform records into SQLite tables, inferring column
// types and creating tables on demand, and runs ad hoc queries that return
// rows as named rows, maps or tuples.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/nsqlite/sqlitedb/internal/validate"
)

// Config represents the configuration for a DB handle.
type Config struct {
	// Logger is the shared logger.
	Logger log.Logger
	// Directory is where bare database names are looked up and created.
	Directory string
	// DefaultOutput is the row shape used when a query doesn't ask for
	// one. Defaults to OutputNamedRow.
	DefaultOutput OutputType
	// DisableOptimizations skips WAL journaling and the other performance
	// settings applied to every connection, allowing manual tuning.
	DisableOptimizations bool
}

// DB is a handle owning a single connection to a SQLite database file.
//
// It is not safe for concurrent use, callers needing concurrency must
// serialize access or open separate handles.
type DB struct {
	Config
	path string
	conn *sql.DB

	// csvTableCreated runs inside the import transaction right after
	// InsertCSV recreates its table. Used by tests.
	csvTableCreated func(ctx context.Context, tx *sql.Tx, table string) error
}

// Column describes a column of an existing table.
type Column struct {
	Name string
	Type string
}

func createDSN(dbPath string, disableOptimizations bool) string {
	qp := url.Values{}
	qp.Add("_foreign_keys", "true")
	qp.Add("_busy_timeout", "5000")

	if !disableOptimizations {
		qp.Add("_journal_mode", "WAL")
		qp.Add("_synchronous", "NORMAL")
		qp.Add("_cache_size", "10000")
	}

	return fmt.Sprintf("%s?%s", dbPath, qp.Encode())
}

// Open opens (creating it if needed) the database called name.
//
// If name is an existing file it is used as is, then Directory/name is
// tried. A new database with a bare file name is created inside Directory,
// any other path is created where it points to.
func Open(config Config, name string) (*DB, error) {
	if !config.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if config.Directory == "" {
		return nil, errors.New("database directory is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("database name is required")
	}
	if config.DefaultOutput == (OutputType{}) {
		config.DefaultOutput = OutputNamedRow
	}
	if !OutputTypes.Contains(config.DefaultOutput) {
		return nil, fmt.Errorf("invalid default output type %q", config.DefaultOutput.Value)
	}

	if err := os.MkdirAll(config.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbPath := resolveFilename(config.Directory, name)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database parent directory: %w", err)
	}

	pragmas := optimizationPragmas
	if config.DisableOptimizations {
		pragmas = nil
	}
	conn := sql.OpenDB(newConnector(
		createDSN(dbPath, config.DisableOptimizations), pragmas,
	))
	conn.SetConnMaxIdleTime(0)
	conn.SetConnMaxLifetime(0)
	conn.SetMaxIdleConns(1)
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		closeErr := conn.Close()
		return nil, errors.Join(fmt.Errorf("failed to ping database: %w", err), closeErr)
	}

	config.Logger.DebugNs(log.NsDatabase, "database opened", log.KV{
		"path":          dbPath,
		"optimizations": !config.DisableOptimizations,
	})

	return &DB{
		Config: config,
		path:   dbPath,
		conn:   conn,
	}, nil
}

// resolveFilename picks the file backing the database called name.
func resolveFilename(directory string, name string) string {
	inDirectory := filepath.Join(directory, name)

	if isFile(name) {
		return name
	}
	if isFile(inDirectory) {
		return inDirectory
	}
	if cleaned := filepath.Clean(name); filepath.Base(cleaned) == cleaned {
		return inDirectory
	}
	return name
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Path returns the path of the database file.
func (db *DB) Path() string {
	return db.path
}

// Close closes the connection to the database, releasing the file lock.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.conn = nil
	return nil
}

// KnownDatabases returns the names, without extension, of the database
// files found in directory.
func KnownDatabases(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read database directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !validate.FileExtension(entry.Name(), validate.FileExtensionDB) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)

	return names, nil
}
