package bdf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteOptions tune deck writing.
type WriteOptions struct {
	// Format is the layout cards are written in. FormatAuto, the
	// default, starts every card small and escalates only the cards
	// whose fields do not fit.
	Format FieldFormat

	// Punch suppresses the executive and case control sections and the
	// BEGIN BULK and ENDDATA brackets.
	Punch bool

	// Force writes even while the deck carries dangling references or
	// validation errors.
	Force bool
}

// GateError refuses an operation over a deck with outstanding
// problems. Warnings never gate, errors and dangling references do.
type GateError struct {
	Unresolved []UnresolvedRef
	Issues     []Issue
}

func (e *GateError) Error() string {
	return fmt.Sprintf("bdf: deck not clean: %d dangling references, %d validation errors",
		len(e.Unresolved), countErrors(e.Issues))
}

// Write emits the deck as bulk data text. Unless forced, it brings
// the resolve and validate state current first and refuses with a
// GateError while dangling references or validation errors stand.
func (d *Deck) Write(w io.Writer, opts WriteOptions) error {
	if !opts.Force {
		unresolved := d.Resolve()
		issues := d.Validate()
		if len(unresolved) > 0 || HasErrors(issues) {
			return &GateError{Unresolved: unresolved, Issues: issues}
		}
	}
	bw := bufio.NewWriter(w)
	if !opts.Punch {
		d.writeHeader(bw)
	}
	for _, typ := range d.Types() {
		def := d.registry.MustLookup(typ)
		for _, c := range d.byType[typ] {
			if err := writeCard(bw, def, c, opts.Format); err != nil {
				return err
			}
		}
	}
	if !opts.Punch {
		fmt.Fprintln(bw, "ENDDATA")
	}
	return bw.Flush()
}

// WriteFile emits the deck into the named file.
func (d *Deck) WriteFile(path string, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *Deck) writeHeader(w io.Writer) {
	for _, line := range d.execExtra {
		fmt.Fprintln(w, line)
	}
	if d.sol != 0 {
		fmt.Fprintf(w, "SOL %d\n", d.sol)
	}
	fmt.Fprintln(w, "CEND")
	for _, line := range d.caseCtl {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, "BEGIN BULK")
}

// writeCard renders one card, first checking the field list it emits
// against the schema so a malformed hand-built card is refused instead
// of written as columns the decoder would misread.
func writeCard(w io.Writer, def CardDef, c Card, format FieldFormat) error {
	fields := c.RawFields()
	if reason := def.arityProblem(fields); reason != "" {
		return &StructuralError{Card: c.Type(), ID: c.ID(), Reason: reason}
	}
	text, err := printCard(fields, format)
	if err != nil {
		if we, ok := err.(*WidthError); ok {
			we.Card, we.ID = c.Type(), c.ID()
			if i, aerr := strconv.Atoi(we.Field); aerr == nil {
				we.Field = def.slotName(i)
			}
		}
		return err
	}
	if comment := c.Comment(); comment != "" {
		for _, line := range strings.Split(comment, "\n") {
			fmt.Fprintln(w, "$"+line)
		}
	}
	_, err = io.WriteString(w, text)
	return err
}
