package bdf

import (
	"errors"
	"sort"

	"github.com/dominikbraun/graph"
)

// EntityKey names one entity in the reference graph.
type EntityKey struct {
	Space Space
	ID    int
}

func entityHash(k EntityKey) EntityKey { return k }

// DependencyGraph builds the directed reference graph of the deck: an
// edge runs from each card's key to every entity the card references.
// Cards sharing a grouped set id collapse into one vertex.
func (d *Deck) DependencyGraph() (graph.Graph[EntityKey, EntityKey], error) {
	g := graph.New(entityHash, graph.Directed())
	for _, c := range d.Cards() {
		space, err := d.spaceOf(c)
		if err != nil {
			return nil, err
		}
		if space == SpaceParam {
			continue
		}
		from := EntityKey{space, c.ID()}
		if err := addVertex(g, from); err != nil {
			return nil, err
		}
		for _, ref := range c.References() {
			to := EntityKey{ref.Space, ref.ID}
			if to == from {
				continue
			}
			if err := addVertex(g, to); err != nil {
				return nil, err
			}
			if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}
	return g, nil
}

func addVertex(g graph.Graph[EntityKey, EntityKey], k EntityKey) error {
	if err := g.AddVertex(k); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return err
	}
	return nil
}

// Dependents reports the entities that reference the given one,
// sorted by namespace then id.
func (d *Deck) Dependents(space Space, id int) ([]EntityKey, error) {
	g, err := d.DependencyGraph()
	if err != nil {
		return nil, err
	}
	pred, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	var out []EntityKey
	for from := range pred[EntityKey{space, id}] {
		out = append(out, from)
	}
	sortKeys(out)
	return out, nil
}

// Orphans lists support entities nothing references: nodes, frames,
// properties and materials with no inbound reference at all.
func (d *Deck) Orphans() ([]EntityKey, error) {
	g, err := d.DependencyGraph()
	if err != nil {
		return nil, err
	}
	pred, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	var out []EntityKey
	for _, c := range d.Cards() {
		space, err := d.spaceOf(c)
		if err != nil {
			return nil, err
		}
		switch space {
		case SpaceNode, SpaceCoord, SpaceProperty, SpaceMaterial:
		default:
			continue
		}
		k := EntityKey{space, c.ID()}
		if len(pred[k]) == 0 {
			out = append(out, k)
		}
	}
	sortKeys(out)
	return out, nil
}

func sortKeys(keys []EntityKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Space != keys[j].Space {
			return keys[i].Space < keys[j].Space
		}
		return keys[i].ID < keys[j].ID
	})
}

// coordCycles finds reference cycles among coordinate frames by
// feeding their edges into a cycle-refusing graph and reading the
// refusals back as findings.
func (d *Deck) coordCycles() []Issue {
	g := graph.New(entityHash, graph.Directed(), graph.PreventCycles())
	var issues []Issue
	for _, c := range d.byType["CORD2R"] {
		f := c.(*Cord2R)
		if f.RID == 0 || f.RID == f.ID() {
			continue
		}
		from := EntityKey{SpaceCoord, f.ID()}
		to := EntityKey{SpaceCoord, f.RID}
		if addVertex(g, from) != nil || addVertex(g, to) != nil {
			continue
		}
		if err := g.AddEdge(from, to); errors.Is(err, graph.ErrEdgeCreatesCycle) {
			issues = append(issues, issuef("CORD2R", f.ID(), "RID",
				"frame reference cycle through frame %d", f.RID))
		}
	}
	return issues
}

// RemoveUnused drops the nodes, coordinate frames, properties and
// materials nothing reaches from the deck's working cards: elements,
// loads, constraints, methods and the design set all count as roots.
// It returns how many cards went.
func (d *Deck) RemoveUnused() (int, error) {
	g, err := d.DependencyGraph()
	if err != nil {
		return 0, err
	}
	adj, err := g.AdjacencyMap()
	if err != nil {
		return 0, err
	}
	prunable := map[Space]bool{
		SpaceNode: true, SpaceCoord: true, SpaceProperty: true, SpaceMaterial: true,
	}
	reached := make(map[EntityKey]bool)
	var stack []EntityKey
	for _, c := range d.Cards() {
		space, err := d.spaceOf(c)
		if err != nil {
			return 0, err
		}
		if space == SpaceParam || prunable[space] {
			continue
		}
		stack = append(stack, EntityKey{space, c.ID()})
	}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[k] {
			continue
		}
		reached[k] = true
		for to := range adj[k] {
			stack = append(stack, to)
		}
	}
	removed := 0
	for _, space := range []Space{SpaceNode, SpaceCoord, SpaceProperty, SpaceMaterial} {
		var victims []int
		for id := range d.byID[space] {
			if !reached[EntityKey{space, id}] {
				victims = append(victims, id)
			}
		}
		sort.Ints(victims)
		for _, id := range victims {
			removed += len(d.byID[space][id])
			d.Remove(space, id)
		}
	}
	return removed, nil
}
