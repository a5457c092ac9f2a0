package bdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func toLines(text []string) []sourceLine {
	out := make([]sourceLine, len(text))
	for i, s := range text {
		out[i] = sourceLine{text: s, num: i + 1}
	}
	return out
}

func TestStitchSmallField(t *testing.T) {
	recs, err := stitchRecords(toLines([]string{
		"GRID           7              1.      2.      3.",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.keyword() != "GRID" {
		t.Errorf("keyword = %q, want GRID", r.keyword())
	}
	// one small line always contributes the keyword plus eight cells
	if len(r.fields) != 9 {
		t.Fatalf("got %d cells, want 9", len(r.fields))
	}
	want := []string{"GRID    ", "       7", "        ", "      1.", "      2.", "      3.", "", "", ""}
	if diff := cmp.Diff(want, r.fields); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestStitchContinuationStyles(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"blank lead", []string{
			"CBAR           2      39       7       3      .6     18.     26.",
			"             513",
		}},
		{"plus lead", []string{
			"CBAR           2      39       7       3      .6     18.     26.",
			"+            513",
		}},
		{"free comma lead", []string{
			"CBAR,2,39,7,3,.6,18.,26.",
			",,513",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := stitchRecords(toLines(tt.lines))
			if err != nil {
				t.Fatal(err)
			}
			if len(recs) != 1 {
				t.Fatalf("got %d records, want 1", len(recs))
			}
			r := recs[0]
			if len(r.fields) < 10 {
				t.Fatalf("got %d cells, want at least 10", len(r.fields))
			}
			// every continuation style lands PA in the same slot
			if got := strings.TrimSpace(r.fields[9]); got != "513" {
				t.Errorf("field 9 = %q, want 513", got)
			}
		})
	}
}

func TestStitchLargeField(t *testing.T) {
	recs, err := stitchRecords(toLines([]string{
		"GRID*                  1                             0.1             0.2",
		"*                    0.3",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.keyword() != "GRID" {
		t.Errorf("keyword = %q, want GRID", r.keyword())
	}
	// a large line carries four cells, so X3 lands in slot 5
	if got := len(r.fields); got != 9 {
		t.Fatalf("got %d cells, want 9", got)
	}
}

func TestStitchCommentAttachment(t *testing.T) {
	recs, err := stitchRecords(toLines([]string{
		"$ corner node",
		"$ of the square",
		"GRID,1,,0.,0.,0.",
		"GRID,2,,1.,0.,0. $ inline",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if got := recs[0].comment; got != " corner node\n of the square" {
		t.Errorf("leading comment = %q", got)
	}
	if got := recs[1].comment; got != " inline" {
		t.Errorf("inline comment = %q", got)
	}
}

func TestStitchStrayContinuation(t *testing.T) {
	_, err := stitchRecords(toLines([]string{
		",1,2,3",
	}))
	if err == nil {
		t.Fatal("stray continuation accepted")
	}
	var le *LineError
	if !errors.As(err, &le) || le.Line != 1 {
		t.Errorf("error = %v, want a line 1 LineError", err)
	}
}

func TestStitchSkipsBlankLines(t *testing.T) {
	recs, err := stitchRecords(toLines([]string{
		"",
		"GRID,1,,0.,0.,0.",
		"   ",
		"GRID,2,,1.,0.,0.",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	// the blank line must not glue record 2 onto record 1
	if recs[1].keyword() != "GRID" || recs[1].line != 4 {
		t.Errorf("record 2 = %q at line %d", recs[1].keyword(), recs[1].line)
	}
}

func TestExpandTabs(t *testing.T) {
	got := expandTabs("GRID\t1")
	if got != "GRID    1" {
		t.Errorf("expandTabs = %q", got)
	}
}

func TestFixedCellsIgnoresMarkerColumns(t *testing.T) {
	// columns past the eighth data field belong to the continuation
	// marker and never reach the card
	line := "GRID           1              0.      0.      0.                        +MARKER"
	cells, cont := splitBulkLine(line)
	if cont {
		t.Fatal("primary line read as continuation")
	}
	if len(cells) != 9 {
		t.Fatalf("got %d cells, want 9", len(cells))
	}
	for i, c := range cells {
		if i > 0 && len(c) > 8 {
			t.Errorf("cell %d = %q wider than 8", i, c)
		}
	}
	if got := strings.TrimSpace(cells[8]); got != "" {
		t.Errorf("cell 8 = %q, want blank", got)
	}
}
