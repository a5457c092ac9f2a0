package bdf

// Resolve checks every outgoing reference against the deck in one
// best-effort pass, collecting the dangling ones instead of stopping
// at the first. It is idempotent and touches nothing but the deck's
// resolved state; fixing the misses and resolving again is the
// expected loop.
func (d *Deck) Resolve() []UnresolvedRef {
	var missing []UnresolvedRef
	for _, c := range d.Cards() {
		for _, ref := range c.References() {
			if d.has(ref.Space, ref.ID) {
				continue
			}
			missing = append(missing, UnresolvedRef{
				Card:   c.Type(),
				CardID: c.ID(),
				Field:  ref.Field,
				Space:  ref.Space,
				ID:     ref.ID,
			})
		}
	}
	d.resolved = true
	d.unresolved = missing
	return append([]UnresolvedRef(nil), missing...)
}
