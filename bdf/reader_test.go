package bdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const demoDeck = `$ cantilever demo
SOL 103
DIAG 8
CEND
TITLE = TWO NODE ROD
SPC = 10
METHOD = 30
BEGIN BULK
$ the supported end
GRID           1              0.      0.      0.
GRID           2              1.      0.      0.
CROD           1       7       1       2
PROD           7       5   3.-4
MAT1           5  2.1+11             0.3
SPC1          10  123456       1
EIGRL         30                       6
PARAM    POST         -1
ENDDATA
`

func TestReadDeckSections(t *testing.T) {
	d, err := ReadDeck(strings.NewReader(demoDeck))
	if err != nil {
		t.Fatal(err)
	}
	if d.Sol() != 103 {
		t.Errorf("Sol = %d, want 103", d.Sol())
	}
	if diff := cmp.Diff([]string{"DIAG 8"}, d.ExecStatements()); diff != "" {
		t.Errorf("exec statements (-want +got):\n%s", diff)
	}
	wantCase := []string{"TITLE = TWO NODE ROD", "SPC = 10", "METHOD = 30"}
	if diff := cmp.Diff(wantCase, d.CaseControl()); diff != "" {
		t.Errorf("case control (-want +got):\n%s", diff)
	}
	wantCounts := map[string]int{
		"GRID": 2, "CROD": 1, "PROD": 1, "MAT1": 1,
		"SPC1": 1, "EIGRL": 1, "PARAM": 1,
	}
	if diff := cmp.Diff(wantCounts, d.Counts()); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}

	// shorthand exponents survive the narrow columns
	p, _ := d.Property(7)
	require.InDelta(t, 3e-4, p.(*PRod).A, 1e-12)
	m, _ := d.Material(5)
	e, _ := m.YoungsModulus()
	require.InDelta(t, 2.1e11, e, 1)

	if missing := d.Resolve(); len(missing) != 0 {
		t.Errorf("unresolved: %v", missing)
	}
}

func TestReadDeckMissingEnddata(t *testing.T) {
	text := strings.TrimSuffix(demoDeck, "ENDDATA\n")
	d, err := ReadDeck(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 8 {
		t.Errorf("Len = %d, want 8", d.Len())
	}
}

func TestReadDeckIgnoresTrailingLines(t *testing.T) {
	d, err := ReadDeck(strings.NewReader(demoDeck + "GARBAGE AFTER END\n"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 8 {
		t.Errorf("Len = %d, want 8", d.Len())
	}
}

func TestReadDeckRequiresBeginBulk(t *testing.T) {
	_, err := ReadDeck(strings.NewReader("SOL 101\nCEND\nTITLE = X\n"))
	if err == nil || !strings.Contains(err.Error(), "no BEGIN BULK") {
		t.Fatalf("err = %v", err)
	}
}

func TestReadDeckPunch(t *testing.T) {
	d, err := ReadDeckOptions(strings.NewReader("GRID,1,,0.,0.,0.\n"), ReadOptions{Punch: true})
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 || d.Sol() != 0 {
		t.Errorf("punch deck = %d cards, sol %d", d.Len(), d.Sol())
	}
}

func TestReadDeckUnknownKeyword(t *testing.T) {
	text := "GRID,1,,0.,0.,0.\nCBUSH,9,1,1,2\n"
	_, err := ReadDeckOptions(strings.NewReader(text), ReadOptions{Punch: true})
	var le *LineError
	if !errors.As(err, &le) || le.Line != 2 {
		t.Fatalf("err = %v, want a line 2 LineError", err)
	}
	var uc *UnknownCardError
	if !errors.As(err, &uc) || uc.Name != "CBUSH" {
		t.Fatalf("err = %v, want UnknownCardError for CBUSH", err)
	}

	// with SkipUnknown the deck still loads and the skip is observable
	var skippedKw string
	var skippedLine int
	d, err := ReadDeckOptions(strings.NewReader(text), ReadOptions{
		Punch:       true,
		SkipUnknown: true,
		OnSkip: func(kw string, line int) {
			skippedKw, skippedLine = kw, line
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
	if skippedKw != "CBUSH" || skippedLine != 2 {
		t.Errorf("skip = %q at line %d", skippedKw, skippedLine)
	}
}

func TestReadDeckDuplicatePolicy(t *testing.T) {
	text := "GRID,1,,0.,0.,0.\nGRID,1,,5.,5.,5.\n"
	_, err := ReadDeckOptions(strings.NewReader(text), ReadOptions{Punch: true})
	var le *LineError
	if !errors.As(err, &le) || le.Line != 2 {
		t.Fatalf("err = %v, want a line 2 LineError", err)
	}
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DuplicateError", err)
	}

	d, err := ReadDeckOptions(strings.NewReader(text), ReadOptions{
		Punch:             true,
		ReplaceDuplicates: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	g, _ := d.Grid(1)
	if g.X != [3]float64{5, 5, 5} {
		t.Errorf("grid 1 = %v, want the later card", g.X)
	}
}

func TestReadDeckCommentsAttach(t *testing.T) {
	d, err := ReadDeck(strings.NewReader(demoDeck))
	if err != nil {
		t.Fatal(err)
	}
	g, _ := d.Grid(1)
	if g.Comment() != " the supported end" {
		t.Errorf("comment = %q", g.Comment())
	}
}

func TestReadDeckLatin1(t *testing.T) {
	// 0xE9 is e-acute in latin-1 and invalid UTF-8 on its own
	text := "$ r\xe9sum\xe9\nGRID,1,,0.,0.,0.\n"
	d, err := ReadDeckOptions(strings.NewReader(text), ReadOptions{
		Punch:    true,
		Encoding: "latin-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	g, _ := d.Grid(1)
	if g.Comment() != " résumé" {
		t.Errorf("comment = %q", g.Comment())
	}

	_, err = ReadDeckOptions(strings.NewReader(text), ReadOptions{
		Punch:    true,
		Encoding: "ebcdic",
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported encoding") {
		t.Fatalf("err = %v", err)
	}
}

func TestReadDeckParseErrorCarriesLine(t *testing.T) {
	text := "GRID,1,,0.,0.,0.\nGRID,TWO,,0.,0.,0.\n"
	_, err := ReadDeckOptions(strings.NewReader(text), ReadOptions{Punch: true})
	var le *LineError
	if !errors.As(err, &le) || le.Line != 2 {
		t.Fatalf("err = %v, want a line 2 LineError", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want a FieldError inside", err)
	}
	// the prefix appears once even though both layers tag with it
	if got := err.Error(); strings.Count(got, "bdf: ") != 1 {
		t.Errorf("error text = %q", got)
	}
}
