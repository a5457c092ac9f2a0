package bdf

import (
	"fmt"
	"sort"
	"strings"
)

// CardDef describes one card type: its keyword, the identifier
// namespace its ids live in, the ordered field slots with an optional
// repeating tail, and the hook that assembles the typed card from a
// schema-checked record. The slot table is the single source of field
// order and count; decode checks incoming records against it and the
// writer checks outgoing cards against it.
type CardDef struct {
	Type   string
	Space  Space
	Doc    string
	Fields []FieldSpec
	Tail   *TailSpec
	Parse  func(rec *CardRec) (Card, error)
}

// Registry maps card keywords to definitions. The default registry
// carries the built-in card set; a deck built against a cloned
// registry can move site-specific cards through the same pipeline.
type Registry struct {
	defs map[string]CardDef
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]CardDef)}
}

// Register adds a definition. Re-registering a keyword is an error.
func (r *Registry) Register(def CardDef) error {
	name := strings.ToUpper(strings.TrimSpace(def.Type))
	if name == "" {
		return fmt.Errorf("bdf: register: empty card type")
	}
	if def.Parse == nil {
		return fmt.Errorf("bdf: register %s: nil parser", name)
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("bdf: register %s: no field schema", name)
	}
	if def.Tail != nil && len(def.Tail.Group) == 0 {
		return fmt.Errorf("bdf: register %s: empty tail group", name)
	}
	if _, dup := r.defs[name]; dup {
		return fmt.Errorf("bdf: register %s: already registered", name)
	}
	def.Type = name
	r.defs[name] = def
	return nil
}

func (r *Registry) mustRegister(def CardDef) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup finds the definition for a keyword.
func (r *Registry) Lookup(typ string) (CardDef, bool) {
	def, ok := r.defs[strings.ToUpper(typ)]
	return def, ok
}

// MustLookup returns the definition for a keyword, panicking when the
// type was never registered. For lookups whose failure is a
// programming error, like the writer consulting the schema of a card
// a deck already admitted.
func (r *Registry) MustLookup(typ string) CardDef {
	def, ok := r.Lookup(typ)
	if !ok {
		panic("bdf: no card definition for " + typ)
	}
	return def
}

// Types lists the registered keywords, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Clone copies the registry so extra cards can be registered without
// touching the shared default.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for name, def := range r.defs {
		c.defs[name] = def
	}
	return c
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry holding the built-in card set.
// Clone it before registering additions.
func DefaultRegistry() *Registry { return defaultRegistry }

func init() {
	registerBuiltins(defaultRegistry)
}
