package bdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ReadOptions tune deck reading. The zero value reads a full UTF-8
// deck over the default registry and fails on unknown keywords and
// duplicate ids.
type ReadOptions struct {
	// Registry resolves card keywords. Nil means the default catalogue.
	Registry *Registry

	// Punch treats the whole input as bulk data, with no executive or
	// case control sections.
	Punch bool

	// Encoding names the input text encoding: "utf-8" (the default) or
	// "latin-1".
	Encoding string

	// SkipUnknown drops records with unrecognized keywords instead of
	// failing. OnSkip, when set, observes each dropped record.
	SkipUnknown bool
	OnSkip      func(keyword string, line int)

	// ReplaceDuplicates overwrites earlier cards on id collision
	// instead of failing.
	ReplaceDuplicates bool
}

// ReadDeck parses a full deck from r with default options.
func ReadDeck(r io.Reader) (*Deck, error) {
	return ReadDeckOptions(r, ReadOptions{})
}

// ReadDeckFile parses the deck in the named file.
func ReadDeckFile(path string, opts ReadOptions) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDeckOptions(f, opts)
}

type section int

const (
	secExec section = iota
	secCase
	secBulk
	secDone
)

// ReadDeckOptions parses a deck from r: executive control to CEND,
// case control to BEGIN BULK, bulk data to ENDDATA. A missing ENDDATA
// is tolerated; a full deck with no BEGIN BULK is not.
func ReadDeckOptions(r io.Reader, opts ReadOptions) (*Deck, error) {
	r, err := decodeEncoding(r, opts.Encoding)
	if err != nil {
		return nil, err
	}
	d := NewDeckWith(opts.Registry)

	sec := secExec
	if opts.Punch {
		sec = secBulk
	}
	var bulk []sourceLine
	num := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		num++
		line := sc.Text()
		switch sec {
		case secExec:
			switch {
			case strings.TrimSpace(stripDollar(line)) == "":
			case isCend(line):
				sec = secCase
			case isBeginBulk(line):
				sec = secBulk
			default:
				if sol, ok := parseSol(line); ok {
					d.sol = sol
					continue
				}
				d.execExtra = append(d.execExtra, strings.TrimRight(line, " \r"))
			}
		case secCase:
			if isBeginBulk(line) {
				sec = secBulk
				continue
			}
			d.caseCtl = append(d.caseCtl, strings.TrimRight(line, " \r"))
		case secBulk:
			if isEnddata(line) {
				sec = secDone
				continue
			}
			bulk = append(bulk, sourceLine{text: line, num: num})
		case secDone:
			// anything after ENDDATA is ignored
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("bdf: read: %w", err)
	}
	if sec < secBulk {
		return nil, errors.New("bdf: no BEGIN BULK in input")
	}

	recs, err := stitchRecords(bulk)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if err := addRecord(d, rec, opts); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func addRecord(d *Deck, rec *record, opts ReadOptions) error {
	kw := rec.keyword()
	def, ok := d.registry.Lookup(kw)
	if !ok {
		if opts.SkipUnknown {
			if opts.OnSkip != nil {
				opts.OnSkip(kw, rec.line)
			}
			return nil
		}
		return &LineError{Line: rec.line, Err: &UnknownCardError{Name: kw}}
	}
	c, err := decodeCard(def, rec.fields)
	if err != nil {
		return &LineError{Line: rec.line, Err: err}
	}
	if rec.comment != "" {
		c.SetComment(rec.comment)
	}
	add := d.Add
	if opts.ReplaceDuplicates {
		add = d.Replace
	}
	if err := add(c); err != nil {
		return &LineError{Line: rec.line, Err: err}
	}
	return nil
}

func decodeEncoding(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	}
	return nil, fmt.Errorf("bdf: unsupported encoding %q", name)
}
