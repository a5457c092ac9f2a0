package bdf

// Space names an identifier namespace. IDs are unique within a space,
// not across the deck: node 7, property 7 and material 7 coexist.
// Load, constraint and design-constraint spaces are grouped: several
// cards may share one set id and act together.
type Space uint8

const (
	SpaceNode Space = iota
	SpaceCoord
	SpaceElement
	SpaceProperty
	SpaceMaterial
	SpaceLoad       // grouped by set id
	SpaceConstraint // grouped by set id
	SpaceMethod
	SpaceDesVar
	SpaceDResp
	SpaceDConstr // grouped by set id
	SpaceDVPRel
	SpaceParam // name-keyed, not id-keyed
)

var spaceNames = [...]string{
	"node",
	"coord",
	"element",
	"property",
	"material",
	"load set",
	"constraint set",
	"method",
	"design variable",
	"design response",
	"design constraint set",
	"design-variable relation",
	"param",
}

func (s Space) String() string {
	if int(s) < len(spaceNames) {
		return spaceNames[s]
	}
	return "unknown"
}

// grouped reports whether several cards may share one id in this space.
func (s Space) grouped() bool {
	switch s {
	case SpaceLoad, SpaceConstraint, SpaceDConstr:
		return true
	}
	return false
}

// Ref is an outgoing cross-reference: a (namespace, id) pair naming an
// entity this card depends on. Coordinate ref 0 means the basic frame
// and is always satisfied; such refs are not emitted.
type Ref struct {
	Space Space
	ID    int
	Field string // referencing field name, for diagnostics
}

// Card is one bulk-data entry. Concrete card types are plain structs
// with exported data fields; identifiers are kept unexported so a card
// placed in a deck cannot drift out from under its index.
type Card interface {
	// Type returns the card keyword, e.g. "GRID".
	Type() string

	// ID returns the card's identifier in its namespace. PARAM cards,
	// which are name-keyed, return 0.
	ID() int

	// RawFields returns the card as an ordered field list with the
	// keyword in slot zero. Trailing blanks are significant only up to
	// the last non-blank field; the writer trims the tail.
	RawFields() []Field

	// References lists every outgoing cross-reference. Refs to the
	// basic coordinate frame (id 0) are omitted.
	References() []Ref

	// Validate checks single-card semantic rules and returns findings.
	// Cross-card rules live on the deck.
	Validate() []Issue

	// Comment returns the $ comment block attached above this card,
	// empty when none.
	Comment() string
	SetComment(string)
}

// baseCard carries the comment block shared by every concrete card.
type baseCard struct {
	comment string
}

func (b *baseCard) Comment() string     { return b.comment }
func (b *baseCard) SetComment(c string) { b.comment = c }

// noRefs is the empty reference list shared by self-contained cards.
var noRefs []Ref
