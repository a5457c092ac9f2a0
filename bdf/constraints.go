package bdf

// SPC1 constrains a set of components to zero on a list of nodes.
// Several SPC1 cards may share one set id and act together. THRU
// ranges in the node list are expanded on read; the card stores the
// plain list.
type SPC1 struct {
	baseCard
	id    int
	C     string // constrained components
	Nodes []int
}

// NewSPC1 builds a single-point constraint set over nodes.
func NewSPC1(id int, components string, nodes []int) *SPC1 {
	n := make([]int, len(nodes))
	copy(n, nodes)
	return &SPC1{id: id, C: components, Nodes: n}
}

func (c *SPC1) Type() string { return "SPC1" }
func (c *SPC1) ID() int      { return c.id }

func (c *SPC1) RawFields() []Field {
	fields := []Field{StrField("SPC1"), IntField(c.id), componentsField(c.C)}
	fields = append(fields, fieldsFromInts(c.Nodes)...)
	return fields
}

func (c *SPC1) References() []Ref {
	refs := make([]Ref, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		refs = append(refs, Ref{SpaceNode, n, "G"})
	}
	return refs
}

func (c *SPC1) Validate() []Issue {
	issues := schemaIssues(c)
	if c.C == "" {
		issues = append(issues, issuef("SPC1", c.id, "C", "components required"))
	}
	if len(c.Nodes) == 0 {
		issues = append(issues, issuef("SPC1", c.id, "G", "node list is empty"))
	}
	seen := make(map[int]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if seen[n] {
			issues = append(issues, warnf("SPC1", c.id, "G", "node %d listed more than once", n))
		}
		seen[n] = true
	}
	return issues
}

func parseSPC1(rec *CardRec) (Card, error) {
	c := &SPC1{id: rec.Int(1), C: rec.Components(2)}
	nodes, err := rec.IntList()
	if err != nil {
		return nil, err
	}
	c.Nodes = nodes
	return c, nil
}
