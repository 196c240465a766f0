// Package importbar provides a really simple progress bar for CSV imports.
package importbar

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

type ProgressBar struct {
	pb *progressbar.ProgressBar
}

// NewBar returns a bar of maxItems steps printed to w.
func NewBar(w io.Writer, description string, maxItems int) *ProgressBar {
	pb := progressbar.NewOptions(
		maxItems,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	_ = pb.Set(0)

	return &ProgressBar{pb: pb}
}

// Step describes the item being processed.
func (p *ProgressBar) Step(description string) {
	p.pb.Describe(description)
}

func (p *ProgressBar) Inc() {
	_ = p.pb.Add(1)
}

func (p *ProgressBar) Finish() {
	_ = p.pb.Finish()
	_ = p.pb.Close()
}
