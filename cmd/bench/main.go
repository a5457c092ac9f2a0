// bench - deck codec benchmark runner
//
// Measures the three field layouts against each other on synthetic
// decks:
//   - Bytes written per layout
//   - Write and re-parse wall time (best of several rounds)
//
// Output: CSV and a stdout summary
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Neumenon/bdf/bdf"
)

type CaseResult struct {
	Name    string
	Cards   int
	Bytes   [3]int
	WriteNs [3]int64
	ParseNs [3]int64
}

var formats = [3]bdf.FieldFormat{bdf.FormatSmall, bdf.FormatLarge, bdf.FormatFree}

const rounds = 5

func main() {
	cases := []struct {
		name string
		deck *bdf.Deck
	}{
		{"plate_8x8", plate(8)},
		{"plate_32x32", plate(32)},
		{"plate_96x96", plate(96)},
		{"truss_100", truss(100)},
		{"truss_2000", truss(2000)},
	}

	fmt.Fprintf(os.Stderr, "Deck Codec Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "===========================\n")
	fmt.Fprintf(os.Stderr, "Cases: %d, rounds per measurement: %d\n\n", len(cases), rounds)

	var results []CaseResult
	for _, c := range cases {
		r, err := runCase(c.name, c.deck)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", c.name, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "%-12s %6d cards, small %8d B, large %8d B, free %8d B\n",
			r.Name, r.Cards, r.Bytes[0], r.Bytes[1], r.Bytes[2])
		results = append(results, r)
	}

	csvPath := "bench_results.csv"
	if f, err := os.Create(csvPath); err == nil {
		writeCSV(f, results)
		f.Close()
		fmt.Fprintf(os.Stderr, "\nCSV written to: %s\n", csvPath)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("%-12s %7s %10s %10s %10s %11s %11s\n",
		"case", "cards", "small B", "large B", "free B", "free/small", "parse MB/s")
	for _, r := range results {
		freePct := 100 * float64(r.Bytes[2]) / float64(r.Bytes[0])
		mbps := float64(r.Bytes[0]) / float64(r.ParseNs[0]) * 1e9 / 1e6
		fmt.Printf("%-12s %7d %10d %10d %10d %10.1f%% %11.1f\n",
			r.Name, r.Cards, r.Bytes[0], r.Bytes[1], r.Bytes[2], freePct, mbps)
	}
}

// runCase writes the deck in every layout and re-parses each rendering.
// Timings keep the best round so a warmup pass is unnecessary.
func runCase(name string, d *bdf.Deck) (CaseResult, error) {
	r := CaseResult{Name: name, Cards: d.Len()}
	for fi, format := range formats {
		var text string
		for i := 0; i < rounds; i++ {
			var buf strings.Builder
			start := time.Now()
			if err := d.Write(&buf, bdf.WriteOptions{Format: format, Force: true}); err != nil {
				return r, fmt.Errorf("write %s: %w", format, err)
			}
			ns := time.Since(start).Nanoseconds()
			if r.WriteNs[fi] == 0 || ns < r.WriteNs[fi] {
				r.WriteNs[fi] = ns
			}
			text = buf.String()
		}
		r.Bytes[fi] = len(text)

		for i := 0; i < rounds; i++ {
			start := time.Now()
			if _, err := bdf.ReadDeck(strings.NewReader(text)); err != nil {
				return r, fmt.Errorf("re-parse %s: %w", format, err)
			}
			ns := time.Since(start).Nanoseconds()
			if r.ParseNs[fi] == 0 || ns < r.ParseNs[fi] {
				r.ParseNs[fi] = ns
			}
		}
	}
	return r, nil
}

// plate builds an n by n shell mesh: a square grid of nodes, quad
// elements over every cell, one clamped edge and a corner load.
func plate(n int) *bdf.Deck {
	d := bdf.NewDeck()
	d.SetSol(101)

	addAll(d, bdf.NewMat1(1, 7.0e10, 0.33), bdf.NewPShell(10, 1, 0.002))

	nid := func(row, col int) int { return row*n + col + 1 }
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			xyz := [3]float64{0.1 * float64(col), 0.1 * float64(row), 0}
			addAll(d, bdf.NewGrid(nid(row, col), xyz))
		}
	}

	eid := 1
	for row := 0; row < n-1; row++ {
		for col := 0; col < n-1; col++ {
			q, err := bdf.NewCQuad4(eid, 10, []int{
				nid(row, col), nid(row, col+1), nid(row+1, col+1), nid(row+1, col),
			})
			if err != nil {
				panic(err)
			}
			addAll(d, q)
			eid++
		}
	}

	clamped := make([]int, n)
	for row := 0; row < n; row++ {
		clamped[row] = nid(row, 0)
	}
	addAll(d,
		bdf.NewSPC1(100, "123456", clamped),
		bdf.NewForce(200, nid(n-1, n-1), 1500, [3]float64{0, 0, 1}))
	return d
}

// truss builds a ladder of n bays: two rails of rod elements with
// verticals and diagonals between them.
func truss(n int) *bdf.Deck {
	d := bdf.NewDeck()
	d.SetSol(103)

	addAll(d,
		bdf.NewMat1(1, 2.1e11, 0.3),
		bdf.NewPRod(10, 1, 3.0e-4),
		bdf.NewEigrl(300, 8))

	bottom := func(i int) int { return i + 1 }
	top := func(i int) int { return n + i + 1 }
	for i := 0; i < n; i++ {
		x := 0.5 * float64(i)
		addAll(d,
			bdf.NewGrid(bottom(i), [3]float64{x, 0, 0}),
			bdf.NewGrid(top(i), [3]float64{x, 0.5, 0}))
	}

	eid := 1
	rod := func(a, b int) {
		r, err := bdf.NewCRod(eid, 10, []int{a, b})
		if err != nil {
			panic(err)
		}
		addAll(d, r)
		eid++
	}
	for i := 0; i < n-1; i++ {
		rod(bottom(i), bottom(i+1))
		rod(top(i), top(i+1))
		rod(bottom(i), top(i+1))
	}
	for i := 0; i < n; i++ {
		rod(bottom(i), top(i))
	}

	addAll(d,
		bdf.NewSPC1(100, "123", []int{bottom(0), top(0)}),
		bdf.NewForce(200, top(n-1), 1000, [3]float64{0, -1, 0}))
	return d
}

func addAll(d *bdf.Deck, cards ...bdf.Card) {
	for _, c := range cards {
		if err := d.Add(c); err != nil {
			panic(err)
		}
	}
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,cards,small_bytes,large_bytes,free_bytes,small_write_us,large_write_us,free_write_us,small_parse_us,large_parse_us,free_parse_us")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
			r.Name, r.Cards,
			r.Bytes[0], r.Bytes[1], r.Bytes[2],
			r.WriteNs[0]/1e3, r.WriteNs[1]/1e3, r.WriteNs[2]/1e3,
			r.ParseNs[0]/1e3, r.ParseNs[1]/1e3, r.ParseNs[2]/1e3)
	}
}
