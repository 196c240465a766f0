package db

import (
	"context"
	"database/sql/driver"

	"github.com/mattn/go-sqlite3"
)

// optimizationPragmas are applied to every new connection unless
// optimizations are disabled. They can't be set through the DSN of
// mattn/go-sqlite3.
var optimizationPragmas = []string{
	"PRAGMA temp_store = MEMORY;",
	"PRAGMA mmap_size = 536870912;", // 512MB
}

type connector struct {
	driver  *sqlite3.SQLiteDriver
	dsn     string
	pragmas []string
}

func newConnector(dsn string, pragmas []string) driver.Connector {
	return &connector{
		driver:  &sqlite3.SQLiteDriver{},
		dsn:     dsn,
		pragmas: pragmas,
	}
}

// Connect opens a new SQLite connection and applies the connector
// pragmas.
func (c *connector) Connect(context.Context) (driver.Conn, error) {
	conn, err := c.driver.Open(c.dsn)
	if err != nil {
		return nil, err
	}

	for _, pragma := range c.pragmas {
		if err := exec(conn, pragma); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return conn, nil
}

func (c *connector) Driver() driver.Driver {
	return c.driver
}

func exec(conn driver.Conn, query string) error {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(nil)
	return err
}
