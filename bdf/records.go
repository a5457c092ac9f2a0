package bdf

import (
	"errors"
	"strings"
)

// record is one logical card: the fields of a first line and all of
// its continuation lines, stitched in file order. Field 0 is the raw
// keyword cell; data cells follow in position. Small lines contribute
// eight data cells and large lines four, short lines padded, so a
// field keeps its slot no matter how the author broke the lines. Free
// lines are order-based and contribute exactly the cells they carry.
type record struct {
	fields  []string
	comment string
	line    int // first source line, 1-based
}

func (r *record) keyword() string {
	return keywordOf(r.fields[0])
}

type sourceLine struct {
	text string
	num  int
}

// stitchRecords assembles bulk-section lines into logical cards. A
// line continues the open card when its first field is blank or opens
// with + or * or the line itself opens with a comma; anything else
// starts a new card. Comment lines gather onto the next card.
func stitchRecords(lines []sourceLine) ([]*record, error) {
	var recs []*record
	var cur *record
	var pending []string

	flush := func() {
		if cur != nil {
			recs = append(recs, cur)
			cur = nil
		}
	}

	for _, ln := range lines {
		text := strings.TrimRight(expandTabs(ln.text), "\r")
		inline, hasComment := "", false
		if i := strings.IndexByte(text, '$'); i >= 0 {
			inline, hasComment = text[i+1:], true
			text = text[:i]
		}
		if strings.TrimSpace(text) == "" {
			if hasComment {
				pending = append(pending, inline)
			}
			continue
		}
		cells, cont := splitBulkLine(text)
		if cont {
			if cur == nil {
				return nil, &LineError{Line: ln.num, Err: errors.New("continuation with no card to continue")}
			}
			cur.fields = append(cur.fields, cells[1:]...)
			if hasComment {
				cur.comment = joinComment(cur.comment, inline)
			}
			continue
		}
		flush()
		cur = &record{fields: cells, line: ln.num}
		if len(pending) > 0 {
			cur.comment = strings.Join(pending, "\n")
			pending = nil
		}
		if hasComment {
			cur.comment = joinComment(cur.comment, inline)
		}
	}
	flush()
	return recs, nil
}

// splitBulkLine breaks one line into field cells and reports whether
// the line continues the previous card. Lines with commas are free
// field; a * in the first eight columns marks large field; everything
// else is small field.
func splitBulkLine(text string) (cells []string, cont bool) {
	if strings.ContainsRune(text, ',') {
		parts := strings.Split(text, ",")
		cells = make([]string, len(parts))
		for i, p := range parts {
			cells[i] = strings.TrimSpace(p)
		}
		return cells, leadsContinuation(cells[0])
	}
	head := clampSlice(text, 0, 8)
	if strings.ContainsRune(head, '*') {
		return fixedCells(text, 16, 4), leadsContinuation(head)
	}
	return fixedCells(text, 8, 8), leadsContinuation(head)
}

// leadsContinuation reports whether a first cell marks a continuation
// rather than a card keyword.
func leadsContinuation(head string) bool {
	head = strings.TrimSpace(head)
	return head == "" || head[0] == '+' || head[0] == '*'
}

// fixedCells slices one fixed-column line into the keyword cell plus
// count data cells of the given width, padding short lines so every
// cell keeps its position. Columns past the last data cell belong to
// the continuation marker and are dropped.
func fixedCells(text string, width, count int) []string {
	cells := make([]string, 0, count+1)
	cells = append(cells, clampSlice(text, 0, 8))
	for i := 0; i < count; i++ {
		start := 8 + i*width
		cells = append(cells, clampSlice(text, start, start+width))
	}
	return cells
}

func clampSlice(s string, a, b int) string {
	if a >= len(s) {
		return ""
	}
	if b > len(s) {
		b = len(s)
	}
	return s[a:b]
}

// expandTabs replaces tabs with spaces to eight-column stops so the
// fixed layouts slice correctly.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := 8 - col%8
			col += n
			for ; n > 0; n-- {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

func joinComment(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
