package sysutil

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// ansiClear moves the cursor home and clears the screen.
const ansiClear = "\033[H\033[2J"

// ClearTerminal clears the terminal screen that w is attached to. It runs
// the platform clear command and falls back to ANSI escapes when that
// command is missing.
func ClearTerminal(w io.Writer) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "cls")
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("clear")
	}

	if cmd != nil {
		cmd.Stdout = w
		if err := cmd.Run(); err == nil {
			return
		}
	}
	_, _ = fmt.Fprint(w, ansiClear)
}
