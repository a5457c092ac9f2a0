package bdf

import "strconv"

// Grid is a structural node: a point located in a coordinate frame,
// with an optional displacement frame and permanent single-point
// constraint components.
type Grid struct {
	baseCard
	id   int
	CP   int        // frame the coordinates are measured in, 0 = basic
	X    [3]float64 // location in frame CP
	CD   int        // frame displacements are measured in, 0 = basic
	PS   string     // permanently constrained components, "" = none
	SEID int
}

// NewGrid builds a node at xyz in the basic frame.
func NewGrid(id int, xyz [3]float64) *Grid {
	return &Grid{id: id, X: xyz}
}

func (g *Grid) Type() string { return "GRID" }
func (g *Grid) ID() int      { return g.id }

func (g *Grid) RawFields() []Field {
	return []Field{
		StrField("GRID"), IntField(g.id), intOrBlank(g.CP),
		FloatField(g.X[0]), FloatField(g.X[1]), FloatField(g.X[2]),
		intOrBlank(g.CD), componentsField(g.PS), intOrBlank(g.SEID),
	}
}

func (g *Grid) References() []Ref {
	var refs []Ref
	if g.CP != 0 {
		refs = append(refs, Ref{SpaceCoord, g.CP, "CP"})
	}
	if g.CD != 0 {
		refs = append(refs, Ref{SpaceCoord, g.CD, "CD"})
	}
	return refs
}

// Validate defers to the schema: every GRID rule is a single-slot
// constraint.
func (g *Grid) Validate() []Issue {
	return schemaIssues(g)
}

func parseGrid(c *CardRec) (Card, error) {
	g := &Grid{
		id: c.Int(1), CP: c.Int(2), CD: c.Int(6),
		PS: c.Components(7), SEID: c.Int(8),
	}
	for i := range g.X {
		g.X[i] = c.Float(3 + i)
	}
	return g, nil
}

// componentsField renders a component string back into the integer
// field it came from.
func componentsField(c string) Field {
	if c == "" {
		return Blank()
	}
	n, err := strconv.Atoi(c)
	if err != nil {
		return StrField(c)
	}
	return IntField(n)
}

// validComponents accepts "" or a string of unique digits 1 through 6.
func validComponents(c string) bool {
	var seen [7]bool
	for i := 0; i < len(c); i++ {
		d := c[i]
		if d < '1' || d > '6' {
			return false
		}
		if seen[d-'0'] {
			return false
		}
		seen[d-'0'] = true
	}
	return true
}
