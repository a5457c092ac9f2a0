// Package bdf implements an in-memory model and codec for NASTRAN-style
// bulk-data decks.
//
// A deck is a sequence of cards: one logical record per entity (nodes,
// elements, properties, materials, loads, constraints, optimization
// directives). Client code either builds a Deck programmatically through
// typed constructors or decodes one from text; the deck validates field
// constraints, resolves integer ID references into direct entity links,
// and serializes back to the fixed-format encoding.
//
// # Card Encodings
//
// Three equivalent field encodings, chosen per card on write:
//
//	Small field:  10 columns of 8 characters (name, 8 data, continuation)
//	Large field:  name tagged with '*', 4 data columns of 16 characters
//	Free field:   comma-separated, variable width
//
// Continuation lines extend a card whose fields overflow one physical
// line. Comments start with '$' and stay attached to the card they
// precede.
//
// # Field Values
//
// Fields are blank, integer, real, or character. Blank is distinct from
// zero: a blank field takes the schema default. Reals accept standard
// notation plus the format's exponent shorthand where the sign acts as
// the separator:
//
//	1.5+3   == 1.5e+3
//	12.-4   == 12e-4
//	1.5D+3  == 1.5e+3 (Fortran double marker)
//
// # Pipeline
//
// Raw text -> record tokenizer -> schema registry lookup -> field decode
// -> typed cards -> cross-reference resolution -> validation -> encode.
//
//	deck, err := bdf.ReadDeck(src)
//	missing := deck.Resolve()
//	issues := deck.Validate()
//	err = deck.Write(dst, bdf.WriteOptions{})
//
// Card schemas live in a registry populated at package init; Register
// adds card types without touching the codec core.
//
// The model is single-threaded: no operation blocks, the codec performs
// no internal I/O, and a Deck must be confined to one goroutine or
// serialized externally.
package bdf
