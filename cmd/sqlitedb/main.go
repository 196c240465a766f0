package main

import (
	"context"
	"log"

	"github.com/nsqlite/sqlitedb/internal/sqlitedb"
)

func main() {
	if err := sqlitedb.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
