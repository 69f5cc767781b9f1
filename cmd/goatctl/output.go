package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"livestock-records/internal/tui"

	"github.com/mattn/go-isatty"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type printer struct {
	w      io.Writer
	format string
	color  bool
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format, color: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Message imprime el texto del servidor tras una mutación.
func (p *printer) Message(text string) error {
	if p.format == outputJSON {
		return p.JSON(map[string]string{"message": text})
	}
	p.Success(text)
	return nil
}

func (p *printer) Success(text string) {
	if p.color {
		fmt.Fprintln(p.w, tui.StyleSuccess.Render("✓ "+text))
		return
	}
	fmt.Fprintln(p.w, "✓ "+text)
}

func (p *printer) Error(text string) {
	if p.color {
		fmt.Fprintln(p.w, tui.StyleError.Render("✗ "+text))
		return
	}
	fmt.Fprintln(p.w, "✗ "+text)
}

// Records imprime v como JSON, o headers/rows como tabla.
func (p *printer) Records(v any, headers []string, rows [][]string) error {
	if p.format == outputJSON {
		return p.JSON(v)
	}
	if len(rows) == 0 {
		fmt.Fprintln(p.w, "No records.")
		return nil
	}
	fmt.Fprintln(p.w, tui.Table(headers, rows, -1))
	return nil
}

func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
