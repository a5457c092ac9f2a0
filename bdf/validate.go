package bdf

import (
	"fmt"
	"strings"
)

// HasErrors reports whether any finding is error severity.
func HasErrors(issues []Issue) bool {
	return countErrors(issues) > 0
}

func countErrors(issues []Issue) int {
	n := 0
	for _, i := range issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Validate runs the semantic checks and returns every finding at
// once: per-card rules first, then the whole-deck rules that need
// more than one card in view. Reference existence is Resolve's job,
// not Validate's.
func (d *Deck) Validate() []Issue {
	var issues []Issue
	for _, c := range d.Cards() {
		issues = append(issues, c.Validate()...)
	}
	issues = append(issues, d.validateDeck()...)
	d.validated = true
	d.issues = issues
	return append([]Issue(nil), issues...)
}

func (d *Deck) validateDeck() []Issue {
	var issues []Issue

	// a combination's set id must not collide with any other load set
	for _, c := range d.byType["LOAD"] {
		if len(d.byID[SpaceLoad][c.ID()]) > 1 {
			issues = append(issues, issuef("LOAD", c.ID(), "SID", "combination shares its set id with other load cards"))
		}
	}

	issues = append(issues, d.coordCycles()...)

	// support entities nothing references stay in the deck but are flagged
	if orphans, err := d.Orphans(); err == nil {
		for _, k := range orphans {
			if cards := d.Lookup(k.Space, k.ID); len(cards) > 0 {
				issues = append(issues, warnf(cards[0].Type(), k.ID, "",
					"%s %d is referenced by nothing", k.Space, k.ID))
			}
		}
	}

	// relations must drive a property of the type they declare, and a
	// named dimension must exist on the section it drives
	for _, c := range d.byType["DVPREL1"] {
		r := c.(*DVPRel1)
		p, ok := d.Property(r.PID)
		if !ok {
			continue
		}
		if p.Type() != r.PropType {
			issues = append(issues, issuef("DVPREL1", r.ID(), "PID",
				"property %d is %s, relation declares %s", r.PID, p.Type(), r.PropType))
			continue
		}
		if bar, ok := p.(*PBarL); ok {
			if name, err := r.PNameFID.AsString(); err == nil && strings.HasPrefix(name, "DIM") {
				var i int
				if _, err := fmt.Sscanf(name, "DIM%d", &i); err == nil && i > len(bar.Dims) {
					issues = append(issues, issuef("DVPREL1", r.ID(), "PNAME",
						"section %s has %d dimensions, none named %s", bar.Section, len(bar.Dims), name))
				}
			}
		}
	}

	// stress responses must point at properties of their declared type
	for _, c := range d.byType["DRESP1"] {
		r := c.(*DResp1)
		sr, ok := r.Response.(StressResponse)
		if !ok {
			continue
		}
		for _, pid := range sr.PIDs {
			if p, ok := d.Property(pid); ok && p.Type() != sr.PropType {
				issues = append(issues, issuef("DRESP1", r.ID(), "ATT",
					"property %d is %s, response declares %s", pid, p.Type(), sr.PropType))
			}
		}
	}

	// solution sequence demands
	switch d.sol {
	case 103:
		if len(d.byType["EIGRL"]) == 0 {
			issues = append(issues, issuef("SOL", 103, "", "modal solution needs an eigenvalue method card"))
		}
	case 200:
		if len(d.byType["DESVAR"]) == 0 {
			issues = append(issues, issuef("SOL", 200, "", "optimization needs at least one design variable"))
		}
		if len(d.byType["DCONSTR"]) == 0 {
			issues = append(issues, issuef("SOL", 200, "", "optimization needs at least one design constraint"))
		}
	}

	return issues
}
