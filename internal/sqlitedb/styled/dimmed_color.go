package styled

import (
	"io"

	"github.com/fatih/color"
)

// DimmedColor returns a dimmed *color.Color to print secondary information.
func DimmedColor() *color.Color {
	return color.RGB(128, 128, 128)
}

// Dimmed prints a line of secondary information to w.
func Dimmed(w io.Writer, format string, args ...any) {
	_, _ = DimmedColor().Fprintf(w, format+"\n", args...)
}
