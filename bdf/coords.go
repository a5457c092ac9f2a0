package bdf

import "math"

// Cord2R is a rectangular coordinate frame defined by three points:
// the origin A, a point B on the z axis, and a point C in the xz
// plane. The points are measured in frame RID.
type Cord2R struct {
	baseCard
	id  int
	RID int // defining frame, 0 = basic
	A   [3]float64
	B   [3]float64
	C   [3]float64
}

// NewCord2R builds a rectangular frame from its three defining points.
func NewCord2R(id int, a, b, c [3]float64) *Cord2R {
	return &Cord2R{id: id, A: a, B: b, C: c}
}

func (c *Cord2R) Type() string { return "CORD2R" }
func (c *Cord2R) ID() int      { return c.id }

func (c *Cord2R) RawFields() []Field {
	fields := []Field{StrField("CORD2R"), IntField(c.id), intOrBlank(c.RID)}
	fields = append(fields, fieldsFromFloats(c.A[:])...)
	fields = append(fields, fieldsFromFloats(c.B[:])...)
	fields = append(fields, fieldsFromFloats(c.C[:])...)
	return fields
}

func (c *Cord2R) References() []Ref {
	if c.RID == 0 {
		return noRefs
	}
	return []Ref{{SpaceCoord, c.RID, "RID"}}
}

func (c *Cord2R) Validate() []Issue {
	issues := schemaIssues(c)
	if c.RID == c.id {
		issues = append(issues, issuef("CORD2R", c.id, "RID", "frame may not reference itself"))
	}
	if _, _, _, ok := c.Axes(); !ok {
		issues = append(issues, issuef("CORD2R", c.id, "", "defining points are coincident or collinear"))
	}
	return issues
}

// Axes derives the unit axes of the frame from its defining points.
// ok is false when the points are coincident or collinear and no frame
// exists.
func (c *Cord2R) Axes() (x, y, z [3]float64, ok bool) {
	ba := sub3(c.B, c.A)
	ca := sub3(c.C, c.A)
	z, ok = unit3(ba)
	if !ok {
		return x, y, z, false
	}
	// remove the z component of C-A, what is left points along x
	ca = sub3(ca, scale3(z, dot3(ca, z)))
	x, ok = unit3(ca)
	if !ok {
		return x, y, z, false
	}
	y = cross3(z, x)
	return x, y, z, true
}

func parseCord2R(rec *CardRec) (Card, error) {
	c := &Cord2R{id: rec.Int(1), RID: rec.Int(2)}
	for i := 0; i < 3; i++ {
		c.A[i] = rec.Float(3 + i)
		c.B[i] = rec.Float(6 + i)
		c.C[i] = rec.Float(9 + i)
	}
	return c, nil
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scale3(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(dot3(a, a))
}

// unit3 normalizes a vector, reporting false for vectors too short to
// carry a direction.
func unit3(a [3]float64) ([3]float64, bool) {
	n := norm3(a)
	if n < 1e-12 {
		return a, false
	}
	return scale3(a, 1/n), true
}
