// Package printer writes styled, user facing status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/tweakctl/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines. Errors and warnings go to the error stream.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a Printer. Nil writers fall back to stdout and stderr.
func New(out, err io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if err == nil {
		err = os.Stderr
	}
	return &Printer{out: out, err: err}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout and stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

// Out returns the standard output writer.
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) line(w io.Writer, icon string, style lipgloss.Style, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(icon), fmt.Sprintf(format, args...))
}

// Infof prints an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.out, styles.IconInfo, styles.InfoStyle, format, args...)
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.out, styles.IconSuccess, styles.SuccessStyle, format, args...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.err, styles.IconWarning, styles.WarningStyle, format, args...)
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.err, styles.IconFailure, styles.ErrorStyle, format, args...)
}

// Printf prints an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	_, _ = fmt.Fprintln(p.out, styles.HeaderStyle.Render(title))
}
