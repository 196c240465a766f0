package sqlitedb

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nsqlite/sqlitedb/internal/db"
	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/commands"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/config"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/repl"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/styled"
	"github.com/nsqlite/sqlitedb/internal/version"
)

// Run runs the sqlitedb CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if conf.Verbose {
		level = slog.LevelDebug
	}
	logger := log.NewLeveledLogger(os.Stderr, level)

	logger.DebugNs(log.NsCLI, "starting", log.KV{
		"command":   conf.Command(),
		"directory": conf.Directory,
		"database":  conf.Database,
		"output":    conf.ParsedOutput.String(),
	})

	if conf.Dbs != nil {
		return commands.PrintDatabases(os.Stdout, conf.Directory)
	}

	database, err := db.Open(db.Config{
		Logger:        logger,
		Directory:     conf.Directory,
		DefaultOutput: conf.ParsedOutput,

		DisableOptimizations: conf.DisableOptimizations,
	}, conf.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.ErrorNs(log.NsCLI, "failed to close database", log.KV{
				"error": err,
			})
		}
	}()

	cmds := commands.New(os.Stdout, database, logger)

	switch {
	case conf.Import != nil:
		err = cmds.Import(ctx, conf.Import.Files...)
	case conf.Tables != nil:
		err = cmds.Tables(ctx)
	case conf.Columns != nil:
		err = cmds.Columns(ctx, conf.Columns.Table)
	case conf.Count != nil:
		err = cmds.Count(ctx, conf.Count.Table)
	case conf.Query != nil:
		err = cmds.Query(ctx, conf.Query.SQL, commands.StringParams(conf.Query.Params)...)
	case conf.Exec != nil:
		err = cmds.Exec(ctx, conf.Exec.SQL, commands.StringParams(conf.Exec.Params)...)
	default:
		fmt.Println(version.CLIVersion())
		rp := repl.NewRepl(
			ctx, os.Stdout, logger, cmds,
			database.Path(), conf.Directory,
			filepath.Join(conf.Directory, ".sqlitedb_history"),
		)
		err = rp.Start()
		fmt.Printf("\nGoodbye!\n\n")
	}

	if err != nil {
		styled.PrintError(os.Stderr, err)
		return fmt.Errorf("%s failed", conf.Command())
	}
	return nil
}
