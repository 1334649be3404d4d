// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
	IconArrow   Icon = "→"
)

// IsTerminal reports whether w is a character device.
//
// Anything that is not an *os.File (buffers, pipes wrapped in writers)
// is treated as non-interactive.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// =============================================================================
// Printer
// =============================================================================

// Printer writes status lines for the one-shot subcommands.
//
// In machine mode (output is not a terminal) lines are plain and prefixed
// "OK:", "WARN:", "ERROR:" so scripts can grep them; otherwise they are
// styled with the theme.
type Printer struct {
	out     io.Writer
	styles  Styles
	machine bool
}

// NewPrinter creates a Printer. Machine mode is detected from out.
func NewPrinter(out io.Writer, theme Theme) *Printer {
	return &Printer{
		out:     out,
		styles:  NewStyles(theme),
		machine: !IsTerminal(out),
	}
}

// WithMachine forces machine mode on or off.
func (p *Printer) WithMachine(machine bool) *Printer {
	p.machine = machine
	return p
}

// Machine reports whether output is plain.
func (p *Printer) Machine() bool {
	return p.machine
}

// Styles returns the printer's style set.
func (p *Printer) Styles() Styles {
	return p.styles
}

// Title prints a heading. Suppressed in machine mode.
func (p *Printer) Title(text string) {
	if p.machine {
		return
	}
	fmt.Fprintln(p.out, p.styles.Title.Render(text))
}

// Success prints a success line.
func (p *Printer) Success(text string) {
	if p.machine {
		fmt.Fprintf(p.out, "OK: %s\n", text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Success.Render(string(IconSuccess)), text)
}

// Warning prints a warning line.
func (p *Printer) Warning(text string) {
	if p.machine {
		fmt.Fprintf(p.out, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Warning.Render(string(IconWarning)), p.styles.Warning.Render(text))
}

// Error prints an error line.
func (p *Printer) Error(text string) {
	if p.machine {
		fmt.Fprintf(p.out, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Error.Render(string(IconError)), p.styles.Error.Render(text))
}

// Info prints a neutral line.
func (p *Printer) Info(text string) {
	if p.machine {
		fmt.Fprintln(p.out, text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Muted.Render("│"), text)
}

// Muted prints secondary text. Suppressed in machine mode.
func (p *Printer) Muted(text string) {
	if p.machine {
		return
	}
	fmt.Fprintln(p.out, p.styles.Muted.Render(text))
}
