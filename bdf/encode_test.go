package bdf

import (
	"math"
	"strings"
	"testing"
)

func TestPrintFloat8(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{"zero", 0, "      0."},
		{"half", 0.5, "      .5"},
		{"one and a half", 1.5, "     1.5"},
		{"negative half", -0.5, "     -.5"},
		{"negative", -1.5, "    -1.5"},
		{"small fixed", 0.0001, "   .0001"},
		{"seven digits", 1234567, "1234567."},
		{"negative six digits", -123456.7, "-123457."},
		{"big positive", 5e9, "    5.+9"},
		{"tiny positive", 1e-12, "   1.-12"},
		{"negative exponent", -2.5e-5, "  -2.5-5"},
		{"hundredish", 42.25, "   42.25"},
		{"thousandish", 1000.5, "  1000.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := printFloat8(tt.v)
			if got != tt.want {
				t.Errorf("printFloat8(%g) = %q, want %q", tt.v, got, tt.want)
			}
			if len(got) != 8 {
				t.Errorf("printFloat8(%g) is %d wide, want 8", tt.v, len(got))
			}
		})
	}
}

// Whatever the rendering, an eight-column real must survive a decode
// within the precision eight columns can carry.
func TestPrintFloat8RoundTrips(t *testing.T) {
	values := []float64{
		0, 1, -1, 0.5, -0.5, 1.5, 3.14159, -3.14159, 1e-3, -1e-3,
		6.25e-7, -6.25e-7, 123.456, 99999.9, 1e6, -1e6, 2.5e13, -2.5e13,
		7e-20, -7e-20, 0.833333, 1e20,
	}
	for _, v := range values {
		cell := printFloat8(v)
		if len(cell) != 8 {
			t.Errorf("printFloat8(%g) is %d wide, want 8", v, len(cell))
			continue
		}
		f, err := DecodeField(cell)
		if err != nil {
			t.Errorf("printFloat8(%g) = %q does not decode: %v", v, cell, err)
			continue
		}
		if !f.Equal(FloatField(v), 1e-4) {
			t.Errorf("printFloat8(%g) = %q decodes to %v", v, cell, f)
		}
	}
}

func TestPrintFloat16RoundTrips(t *testing.T) {
	values := []float64{
		0, 0.5, -0.5, math.Pi, -math.Pi, 1e-9, -1e-9, 123456.789,
		9.87654321e11, -9.87654321e11, 3e-30, 1e15,
	}
	for _, v := range values {
		cell := printFloat16(v)
		if len(cell) != 16 {
			t.Errorf("printFloat16(%g) is %d wide, want 16", v, len(cell))
			continue
		}
		f, err := DecodeField(cell)
		if err != nil {
			t.Errorf("printFloat16(%g) = %q does not decode: %v", v, cell, err)
			continue
		}
		if !f.Equal(FloatField(v), 1e-9) {
			t.Errorf("printFloat16(%g) = %q decodes to %v", v, cell, f)
		}
	}
}

func TestPrintScientific8(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1500, "  1.5+3"},
		{-9.5e-5, " -9.5-5"},
		{5e9, "5.+9"},
	}
	for _, tt := range tests {
		got := strings.TrimSpace(printScientific8(tt.v))
		if got != strings.TrimSpace(tt.want) {
			t.Errorf("printScientific8(%g) = %q, want %q", tt.v, got, strings.TrimSpace(tt.want))
		}
	}
}

func TestEncodeFieldWidths(t *testing.T) {
	if cell, ok := encodeField8(IntField(12345678)); !ok || cell != "12345678" {
		t.Errorf("eight-digit id = %q, %v", cell, ok)
	}
	if _, ok := encodeField8(IntField(123456789)); ok {
		t.Error("nine-digit id fit eight columns")
	}
	if cell, ok := encodeField16(IntField(123456789)); !ok || cell != "       123456789" {
		t.Errorf("nine-digit id in sixteen = %q, %v", cell, ok)
	}
	if _, ok := encodeField8(StrField("LONGERTHAN8")); ok {
		t.Error("long symbol fit eight columns")
	}
	if _, ok := encodeField8(FloatField(math.NaN())); ok {
		t.Error("NaN encoded")
	}
	if _, ok := encodeFieldFree(FloatField(math.Inf(1))); ok {
		t.Error("Inf encoded")
	}
}

func TestEncodeFieldFreeKeepsRealsReal(t *testing.T) {
	for _, v := range []float64{1, -2, 100, 0.5, 1e21} {
		cell, ok := encodeFieldFree(FloatField(v))
		if !ok {
			t.Fatalf("encodeFieldFree(%g) failed", v)
		}
		f, err := DecodeField(cell)
		if err != nil {
			t.Fatalf("free cell %q does not decode: %v", cell, err)
		}
		if f.Kind() != KindFloat {
			t.Errorf("free cell %q decodes as %s, want real", cell, f.Kind())
		}
	}
}

func TestPrintCard8Layout(t *testing.T) {
	g := NewGrid(7, [3]float64{1, 2, 3})
	text, err := printCard(g.RawFields(), FormatSmall)
	if err != nil {
		t.Fatal(err)
	}
	want := "GRID           7              1.      2.      3.\n"
	if text != want {
		t.Errorf("card text\n%q\nwant\n%q", text, want)
	}
}

func TestPrintCard8Continuation(t *testing.T) {
	bar, err := NewCBar(2, 39, []int{7, 3}, [3]float64{0.6, 18, 26})
	if err != nil {
		t.Fatal(err)
	}
	bar.PA = "513"
	text, err := printCard(bar.RawFields(), FormatSmall)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), text)
	}
	if !strings.HasPrefix(lines[1], blank8) {
		t.Errorf("continuation does not open with a blank field: %q", lines[1])
	}

	d := NewDeck()
	if err := d.Add(bar); err != nil {
		t.Fatal(err)
	}
	roundTripCard(t, d, "CBAR", 2)
}

func TestPrintCard16Layout(t *testing.T) {
	g := NewGrid(1, [3]float64{1.0 / 3.0, 0, 0})
	text, err := printCard(g.RawFields(), FormatLarge)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "GRID*   ") {
		t.Errorf("large-field keyword cell = %q", lines[0][:8])
	}
	if len(lines) < 2 || !strings.HasPrefix(lines[1], "*") {
		t.Fatalf("large-field continuation missing:\n%s", text)
	}
}

func TestPrintCardAutoEscalates(t *testing.T) {
	g := NewGrid(123456789, [3]float64{0, 0, 0}) // id too wide for small field
	text, err := printCard(g.RawFields(), FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "GRID*") {
		t.Errorf("auto format did not escalate to large:\n%s", text)
	}

	p := NewParam("POST", IntField(-1))
	text, err = printCard(p.RawFields(), FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "PARAM   ") {
		t.Errorf("auto format did not stay small:\n%s", text)
	}
}

func TestPrintCardRefusesUnencodable(t *testing.T) {
	f := NewForce(1, 2, math.NaN(), [3]float64{1, 0, 0})
	_, err := printCard(f.RawFields(), FormatAuto)
	we, ok := err.(*WidthError)
	if !ok {
		t.Fatalf("error = %v, want *WidthError", err)
	}
	if we.Field == "" {
		t.Error("WidthError does not name the field")
	}
}
