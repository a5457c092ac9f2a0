package bdf

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyDesignVariables pushes variable values through every relation
// onto its target property field. A variable absent from values
// starts at its initial value; inputs clamp to the variable's bounds
// and each result to the relation's min and max. The deck must
// resolve cleanly first; applied values invalidate its checked state.
func (d *Deck) ApplyDesignVariables(values map[int]float64) error {
	if unresolved := d.Resolve(); len(unresolved) > 0 {
		return &GateError{Unresolved: unresolved}
	}
	rels := d.byType["DVPREL1"]
	for _, c := range rels {
		r := c.(*DVPRel1)
		if len(r.DVIDs) != len(r.Coeffs) {
			return fmt.Errorf("bdf: DVPREL1 %d: %d variables against %d coefficients",
				r.ID(), len(r.DVIDs), len(r.Coeffs))
		}
		v := r.Value(func(dvid int) float64 {
			dv, _ := d.DesVar(dvid)
			x, ok := values[dvid]
			if !ok {
				x = dv.XInit
			}
			return dv.Clamp(x)
		})
		if lo, err := r.PMin.AsFloat(); err == nil && v < lo {
			v = lo
		}
		if hi, err := r.PMax.AsFloat(); err == nil && v > hi {
			v = hi
		}
		if err := d.applyPropertyField(r, v); err != nil {
			return err
		}
	}
	if len(rels) > 0 {
		d.invalidate()
	}
	return nil
}

func (d *Deck) applyPropertyField(r *DVPRel1, v float64) error {
	name, err := r.PNameFID.AsString()
	if err != nil {
		return fmt.Errorf("bdf: DVPREL1 %d: numeric property field ids are not supported", r.ID())
	}
	p, ok := d.Property(r.PID)
	if !ok {
		return fmt.Errorf("bdf: DVPREL1 %d: no property %d in deck", r.ID(), r.PID)
	}
	switch prop := p.(type) {
	case *PRod:
		switch name {
		case "A":
			prop.A = v
		case "J":
			prop.J = v
		case "C":
			prop.C = v
		case "NSM":
			prop.NSM = v
		default:
			return badDesignField(r, p, name)
		}
	case *PShell:
		switch name {
		case "T":
			prop.T = v
		case "NSM":
			prop.NSM = v
		case "Z1":
			prop.Z1 = v
		case "Z2":
			prop.Z2 = v
		default:
			return badDesignField(r, p, name)
		}
	case *PBarL:
		if name == "NSM" {
			prop.NSM = v
			return nil
		}
		s, isDim := strings.CutPrefix(name, "DIM")
		i, aerr := strconv.Atoi(s)
		if !isDim || aerr != nil || i < 1 || i > len(prop.Dims) {
			return badDesignField(r, p, name)
		}
		prop.Dims[i-1] = v
	default:
		return fmt.Errorf("bdf: DVPREL1 %d: property %d (%s) has no designable fields",
			r.ID(), r.PID, p.Type())
	}
	return nil
}

func badDesignField(r *DVPRel1, p Card, name string) error {
	return fmt.Errorf("bdf: DVPREL1 %d: %s %d has no designable field %q",
		r.ID(), p.Type(), p.ID(), name)
}
