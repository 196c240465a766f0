package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nsqlite/sqlitedb/internal/db"
	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/commands"
	"github.com/nsqlite/sqlitedb/internal/sqlitedb/styled"
	"github.com/nsqlite/sqlitedb/internal/util/sysutil"
	"github.com/peterh/liner"
)

// Repl is the interactive sqlitedb shell.
type Repl struct {
	ctx         context.Context
	out         io.Writer
	logger      log.Logger
	cmds        *commands.Commands
	dbPath      string
	directory   string
	historyPath string
}

func NewRepl(
	ctx context.Context,
	out io.Writer,
	logger log.Logger,
	cmds *commands.Commands,
	dbPath string,
	directory string,
	historyPath string,
) *Repl {
	return &Repl{
		ctx:         ctx,
		out:         out,
		logger:      logger,
		cmds:        cmds,
		dbPath:      dbPath,
		directory:   directory,
		historyPath: historyPath,
	}
}

// Start reads and runs input until the user quits or the context is
// cancelled.
func (r *Repl) Start() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	r.readHistory(line)
	defer r.writeHistory(line)

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Connected to %s\n", r.dbPath)
	fmt.Fprintln(r.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(r.out)

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
		}

		input, err := line.Prompt("sqlitedb> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := r.handle(input); quit {
			return nil
		}
	}
}

func (r *Repl) readHistory(line *liner.State) {
	file, err := os.Open(r.historyPath)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = line.ReadHistory(file)
}

func (r *Repl) writeHistory(line *liner.State) {
	file, err := os.Create(r.historyPath)
	if err != nil {
		r.logger.WarnNs(log.NsCLI, "failed to save shell history", log.KV{
			"path":  r.historyPath,
			"error": err,
		})
		return
	}
	defer file.Close()
	_, _ = line.WriteHistory(file)
}

// handle runs one line of input and reports whether the shell must quit.
func (r *Repl) handle(input string) bool {
	command, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	var args []string
	var err error
	if strings.HasPrefix(command, ".") {
		if args, err = splitArgs(rest); err != nil {
			styled.PrintError(r.out, err)
			return false
		}
	}

	switch command {
	case "exit", ".exit", ".quit":
		return true
	case "clear", ".clear":
		sysutil.ClearTerminal(r.out)
	case "help", ".help":
		cmdHelp(r.out)
	case ".tables":
		err = r.cmds.Tables(r.ctx)
	case ".dbs":
		err = r.cmds.Databases(r.directory)
	case ".columns":
		err = r.withTable(rest, r.cmds.Columns)
	case ".count":
		err = r.withTable(rest, r.cmds.Count)
	case ".output":
		err = r.setOutput(args)
	case ".import":
		if len(args) == 0 {
			err = errors.New("usage: .import FILE...")
			break
		}
		err = r.cmds.Import(r.ctx, importFiles(rest, args)...)
	default:
		if strings.HasPrefix(input, ".") {
			fmt.Fprintln(r.out, "Unknown command, type .help for usage hints")
			return false
		}
		err = r.cmds.Run(r.ctx, input)
	}

	if err != nil {
		styled.PrintError(r.out, err)
	}
	return false
}

func (r *Repl) withTable(
	rest string, fn func(context.Context, string) error,
) error {
	if rest == "" {
		return errors.New("a table name is required")
	}
	return fn(r.ctx, unquote(rest))
}

func (r *Repl) setOutput(args []string) error {
	if len(args) == 0 {
		styled.Dimmed(r.out, "Output: %s", r.cmds.Output)
		return nil
	}

	output, err := db.ParseOutputType(args[0])
	if err != nil {
		return err
	}
	r.cmds.Output = output
	styled.Dimmed(r.out, "Output set to %s", output)
	return nil
}
