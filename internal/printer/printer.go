// Package printer renders generation results for humans on the terminal.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/starford/typegen/internal/generator"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Printer writes coloured summaries to w. Colour follows fatih/color
// detection, so NO_COLOR and non-terminal outputs print plain text.
type Printer struct {
	w       io.Writer
	verbose bool
}

// New creates a printer. A nil w writes to stdout.
func New(w io.Writer, verbose bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w, verbose: verbose}
}

// Report prints the outcome of one pass.
func (p *Printer) Report(r *generator.Report, outDir string) {
	if r.Skipped {
		yellow.Fprintf(p.w, "⚠️  No artifact changed since run %s, nothing generated\n", shortID(r.Run.ID))
		return
	}
	green.Fprintf(p.w, "✓ Generated %d typings for %d artifacts in %s\n", r.Run.Contracts, r.Run.Artifacts, outDir)
	fmt.Fprintf(p.w, "  %d written, %d unchanged, %d deleted\n", len(r.Written), len(r.Unchanged), len(r.Deleted))
	if !p.verbose {
		return
	}
	for _, f := range r.Written {
		cyan.Fprintf(p.w, "  → %s\n", f)
	}
	for _, f := range r.Deleted {
		yellow.Fprintf(p.w, "  ✗ %s\n", f)
	}
}

// Failure prints a failed pass with a hint.
func (p *Printer) Failure(err error) {
	red.Fprintf(p.w, "Generation failed\n\n")
	fmt.Fprintf(p.w, "%s\n\n", err)
	fmt.Fprintf(p.w, "Fix the artifact named above and run again.\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
