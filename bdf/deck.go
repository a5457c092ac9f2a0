package bdf

import (
	"fmt"
	"sort"
)

// Deck is the in-memory model of one bulk data file: the executive
// header, the case control lines carried verbatim, and the cards
// indexed by type and by identifier namespace.
//
// Cards write back out grouped by type in first-insertion order and
// by insertion order within a type. Every mutation clears the
// resolved and validated state; Resolve and Validate re-establish it.
// A Deck is not safe for concurrent mutation.
type Deck struct {
	registry *Registry

	sol       int
	execExtra []string // executive statements besides SOL and CEND
	caseCtl   []string

	typeOrder []string
	byType    map[string][]Card
	byID      map[Space]map[int][]Card
	params    map[string]*Param

	resolved   bool
	unresolved []UnresolvedRef
	validated  bool
	issues     []Issue
}

// NewDeck builds an empty deck over the default registry.
func NewDeck() *Deck { return NewDeckWith(nil) }

// NewDeckWith builds an empty deck over a custom registry. A nil
// registry means the default one.
func NewDeckWith(reg *Registry) *Deck {
	if reg == nil {
		reg = defaultRegistry
	}
	return &Deck{
		registry: reg,
		byType:   make(map[string][]Card),
		byID:     make(map[Space]map[int][]Card),
		params:   make(map[string]*Param),
	}
}

func (d *Deck) Registry() *Registry { return d.registry }

// Sol returns the solution sequence number, 0 when the deck does not
// carry one.
func (d *Deck) Sol() int { return d.sol }

func (d *Deck) SetSol(sol int) {
	d.sol = sol
	d.invalidate()
}

// CaseControl returns the case control lines. The deck treats them as
// opaque text between the executive section and BEGIN BULK.
func (d *Deck) CaseControl() []string {
	return append([]string(nil), d.caseCtl...)
}

func (d *Deck) SetCaseControl(lines []string) {
	d.caseCtl = append([]string(nil), lines...)
	d.invalidate()
}

// ExecStatements returns executive control lines other than SOL and
// CEND, carried verbatim.
func (d *Deck) ExecStatements() []string {
	return append([]string(nil), d.execExtra...)
}

func (d *Deck) SetExecStatements(lines []string) {
	d.execExtra = append([]string(nil), lines...)
	d.invalidate()
}

func (d *Deck) invalidate() {
	d.resolved, d.validated = false, false
	d.unresolved, d.issues = nil, nil
}

func (d *Deck) spaceOf(c Card) (Space, error) {
	def, ok := d.registry.Lookup(c.Type())
	if !ok {
		return 0, &UnknownCardError{Name: c.Type()}
	}
	return def.Space, nil
}

// Add inserts a card, refusing identifier collisions. In grouped
// namespaces several cards may share an id and Add only ever appends.
func (d *Deck) Add(c Card) error {
	space, err := d.spaceOf(c)
	if err != nil {
		return err
	}
	if space == SpaceParam {
		p, ok := c.(*Param)
		if !ok {
			return &StructuralError{Card: c.Type(), Reason: "name-keyed card must be a *Param"}
		}
		if _, dup := d.params[p.Name()]; dup {
			return &DuplicateError{Space: space, Name: p.Name(), Card: "PARAM"}
		}
		d.params[p.Name()] = p
	} else {
		id := c.ID()
		if !space.grouped() && len(d.byID[space][id]) > 0 {
			return &DuplicateError{Space: space, ID: id, Card: c.Type()}
		}
		d.addIndex(space, id, c)
	}
	d.addType(c)
	d.invalidate()
	return nil
}

// Replace inserts a card, displacing whatever already occupies its
// key. In grouped namespaces every card under the id goes.
func (d *Deck) Replace(c Card) error {
	space, err := d.spaceOf(c)
	if err != nil {
		return err
	}
	if space == SpaceParam {
		p, ok := c.(*Param)
		if !ok {
			return &StructuralError{Card: c.Type(), Reason: "name-keyed card must be a *Param"}
		}
		if old, exists := d.params[p.Name()]; exists {
			d.removeFromType(old)
		}
		d.params[p.Name()] = p
	} else {
		id := c.ID()
		for _, old := range d.byID[space][id] {
			d.removeFromType(old)
		}
		if m := d.byID[space]; m != nil {
			delete(m, id)
		}
		d.addIndex(space, id, c)
	}
	d.addType(c)
	d.invalidate()
	return nil
}

// Remove deletes every card keyed by id in space and reports whether
// anything went. References left pointing at the removed cards
// surface on the next Resolve.
func (d *Deck) Remove(space Space, id int) bool {
	cards := d.byID[space][id]
	if len(cards) == 0 {
		return false
	}
	delete(d.byID[space], id)
	for _, c := range cards {
		d.removeFromType(c)
	}
	d.invalidate()
	return true
}

// RemoveParam deletes a parameter by name.
func (d *Deck) RemoveParam(name string) bool {
	p, ok := d.params[name]
	if !ok {
		return false
	}
	delete(d.params, name)
	d.removeFromType(p)
	d.invalidate()
	return true
}

func (d *Deck) addType(c Card) {
	typ := c.Type()
	if _, seen := d.byType[typ]; !seen {
		d.typeOrder = append(d.typeOrder, typ)
	}
	d.byType[typ] = append(d.byType[typ], c)
}

// removeFromType drops one card from its type list by identity. The
// type keeps its slot in the emission order even when emptied.
func (d *Deck) removeFromType(c Card) {
	list := d.byType[c.Type()]
	for i, x := range list {
		if x == c {
			d.byType[c.Type()] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (d *Deck) addIndex(space Space, id int, c Card) {
	m := d.byID[space]
	if m == nil {
		m = make(map[int][]Card)
		d.byID[space] = m
	}
	m[id] = append(m[id], c)
}

func (d *Deck) has(space Space, id int) bool {
	return len(d.byID[space][id]) > 0
}

// Lookup returns the cards keyed by id in space. Grouped namespaces
// may hold several.
func (d *Deck) Lookup(space Space, id int) []Card {
	return append([]Card(nil), d.byID[space][id]...)
}

// Grid returns the node with this id.
func (d *Deck) Grid(id int) (*Grid, bool) {
	g, ok := d.single(SpaceNode, id).(*Grid)
	return g, ok
}

// Coord returns the coordinate frame with this id.
func (d *Deck) Coord(id int) (*Cord2R, bool) {
	c, ok := d.single(SpaceCoord, id).(*Cord2R)
	return c, ok
}

// Element returns the element with this id.
func (d *Deck) Element(id int) (Card, bool) {
	c := d.single(SpaceElement, id)
	return c, c != nil
}

// Property returns the property with this id.
func (d *Deck) Property(id int) (Card, bool) {
	c := d.single(SpaceProperty, id)
	return c, c != nil
}

// Material returns the material with this id.
func (d *Deck) Material(id int) (*Mat1, bool) {
	m, ok := d.single(SpaceMaterial, id).(*Mat1)
	return m, ok
}

// DesVar returns the design variable with this id.
func (d *Deck) DesVar(id int) (*DesVar, bool) {
	v, ok := d.single(SpaceDesVar, id).(*DesVar)
	return v, ok
}

// Param returns the parameter with this name.
func (d *Deck) Param(name string) (*Param, bool) {
	p, ok := d.params[name]
	return p, ok
}

func (d *Deck) single(space Space, id int) Card {
	if cs := d.byID[space][id]; len(cs) > 0 {
		return cs[0]
	}
	return nil
}

// ByType returns the cards of one type in insertion order.
func (d *Deck) ByType(typ string) []Card {
	return append([]Card(nil), d.byType[typ]...)
}

// Types lists the card types present, in emission order.
func (d *Deck) Types() []string {
	out := make([]string, 0, len(d.typeOrder))
	for _, typ := range d.typeOrder {
		if len(d.byType[typ]) > 0 {
			out = append(out, typ)
		}
	}
	return out
}

// Cards returns every card in emission order.
func (d *Deck) Cards() []Card {
	out := make([]Card, 0, d.Len())
	for _, typ := range d.typeOrder {
		out = append(out, d.byType[typ]...)
	}
	return out
}

// Len counts the cards in the deck.
func (d *Deck) Len() int {
	n := 0
	for _, list := range d.byType {
		n += len(list)
	}
	return n
}

// Counts maps each present card type to how many the deck holds.
func (d *Deck) Counts() map[string]int {
	out := make(map[string]int, len(d.byType))
	for typ, list := range d.byType {
		if len(list) > 0 {
			out[typ] = len(list)
		}
	}
	return out
}

// Resolved reports whether the reference state is current, and the
// dangling references found by the last Resolve.
func (d *Deck) Resolved() (bool, []UnresolvedRef) {
	return d.resolved, append([]UnresolvedRef(nil), d.unresolved...)
}

// Validated reports whether the validation state is current, and the
// findings of the last Validate.
func (d *Deck) Validated() (bool, []Issue) {
	return d.validated, append([]Issue(nil), d.issues...)
}

// Snapshot is a read-only hand-off of a checked deck: cards grouped
// by category, sorted by id, set cards gathered under their set id.
type Snapshot struct {
	Sol         int
	Nodes       []*Grid
	Coords      []*Cord2R
	Elements    []Card
	Properties  []Card
	Materials   []*Mat1
	Loads       map[int][]Card
	Constraints map[int][]*SPC1
	Methods     []*Eigrl
	DesVars     []*DesVar
	Responses   []*DResp1
	DConstrs    map[int][]*DConstr
	Relations   []*DVPRel1
	Params      map[string]Field
}

// Snapshot checks the deck and captures it for a solver. It refuses
// while references dangle or validation errors stand.
func (d *Deck) Snapshot() (*Snapshot, error) {
	if missing := d.Resolve(); len(missing) > 0 {
		return nil, fmt.Errorf("bdf: snapshot: %d unresolved references, first: %s", len(missing), missing[0].Error())
	}
	if issues := d.Validate(); HasErrors(issues) {
		return nil, fmt.Errorf("bdf: snapshot: %d validation errors", countErrors(issues))
	}
	s := &Snapshot{
		Sol:         d.sol,
		Loads:       make(map[int][]Card),
		Constraints: make(map[int][]*SPC1),
		DConstrs:    make(map[int][]*DConstr),
		Params:      make(map[string]Field, len(d.params)),
	}
	for _, c := range d.Cards() {
		switch card := c.(type) {
		case *Grid:
			s.Nodes = append(s.Nodes, card)
		case *Cord2R:
			s.Coords = append(s.Coords, card)
		case *CRod, *CBar, *CQuad4:
			s.Elements = append(s.Elements, card)
		case *PRod, *PBarL, *PShell:
			s.Properties = append(s.Properties, card)
		case *Mat1:
			s.Materials = append(s.Materials, card)
		case *SPC1:
			s.Constraints[card.ID()] = append(s.Constraints[card.ID()], card)
		case *Force, *Moment, *Load:
			s.Loads[card.ID()] = append(s.Loads[card.ID()], card)
		case *Eigrl:
			s.Methods = append(s.Methods, card)
		case *DesVar:
			s.DesVars = append(s.DesVars, card)
		case *DResp1:
			s.Responses = append(s.Responses, card)
		case *DConstr:
			s.DConstrs[card.ID()] = append(s.DConstrs[card.ID()], card)
		case *DVPRel1:
			s.Relations = append(s.Relations, card)
		case *Param:
			s.Params[card.Name()] = card.Value
		}
	}
	byCardID := func(list []Card) func(i, j int) bool {
		return func(i, j int) bool { return list[i].ID() < list[j].ID() }
	}
	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i].ID() < s.Nodes[j].ID() })
	sort.Slice(s.Coords, func(i, j int) bool { return s.Coords[i].ID() < s.Coords[j].ID() })
	sort.Slice(s.Elements, byCardID(s.Elements))
	sort.Slice(s.Properties, byCardID(s.Properties))
	sort.Slice(s.Materials, func(i, j int) bool { return s.Materials[i].ID() < s.Materials[j].ID() })
	sort.Slice(s.Methods, func(i, j int) bool { return s.Methods[i].ID() < s.Methods[j].ID() })
	sort.Slice(s.DesVars, func(i, j int) bool { return s.DesVars[i].ID() < s.DesVars[j].ID() })
	sort.Slice(s.Responses, func(i, j int) bool { return s.Responses[i].ID() < s.Responses[j].ID() })
	sort.Slice(s.Relations, func(i, j int) bool { return s.Relations[i].ID() < s.Relations[j].ID() })
	return s, nil
}
