package view

import "txadmin/internal/models"

// ListState distinguishes "never fetched" from "fetched, zero rows" from
// "fetched, has rows".
type ListState int

const (
	// StateNotLoaded means no successful fetch has happened yet.
	StateNotLoaded ListState = iota
	// StateEmpty means the last fetch succeeded and returned no rows.
	StateEmpty
	// StateLoaded means the last fetch succeeded with at least one row.
	StateLoaded
)

// List is the client-side cache of the server's transaction list. Order is
// the server's response order; the list is never re-sorted.
type List struct {
	items  []models.Transaction
	loaded bool
}

// Replace adopts a freshly fetched list wholesale.
func (l *List) Replace(items []models.Transaction) {
	l.items = items
	l.loaded = true
}

// Items returns the cached transactions in server order.
func (l *List) Items() []models.Transaction {
	return l.items
}

// State reports whether the list was ever loaded and whether it has rows.
func (l *List) State() ListState {
	switch {
	case !l.loaded:
		return StateNotLoaded
	case len(l.items) == 0:
		return StateEmpty
	default:
		return StateLoaded
	}
}

// Confirm adopts the server's canonical record for id. An id not in the
// cache leaves the list untouched and returns ErrStaleView.
func (l *List) Confirm(id string, updated models.Transaction) error {
	next, err := ApplyConfirmed(l.items, id, updated)
	if err != nil {
		return err
	}
	l.items = next
	return nil
}
