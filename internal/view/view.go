// Package view derives what each transaction row should look like for the
// current caller and applies the one legal client-side mutation: adopting
// the server's canonical record after a confirmed status transition.
package view

import (
	"errors"

	"txadmin/internal/models"
)

// Variant is the rendered presentation mode of a transaction row.
type Variant int

const (
	// VariantLocked hides all controls; shown to non-admin callers.
	VariantLocked Variant = iota
	// VariantActionable offers the confirm control; admin + pending only.
	VariantActionable
	// VariantSettled shows the completed badge; admin + any non-pending
	// status, including unknown forward-compatible ones.
	VariantSettled
)

func (v Variant) String() string {
	switch v {
	case VariantActionable:
		return "actionable"
	case VariantSettled:
		return "settled"
	default:
		return "locked"
	}
}

// Row pairs a transaction with its display variant.
type Row struct {
	Transaction models.Transaction
	Variant     Variant
}

// ErrStaleView signals that a confirmed record targeted an id no longer in
// the current list; the caller should reload rather than treat it as fatal.
var ErrStaleView = errors.New("transaction not in current view")

// ComputeDisplay derives the per-row variant for the given caller,
// preserving server order. Non-admins never see an actionable row.
func ComputeDisplay(list []models.Transaction, isAdmin bool) []Row {
	rows := make([]Row, 0, len(list))
	for _, t := range list {
		v := VariantLocked
		if isAdmin {
			if t.Status.IsPending() {
				v = VariantActionable
			} else {
				v = VariantSettled
			}
		}
		rows = append(rows, Row{Transaction: t, Variant: v})
	}
	return rows
}

// ApplyConfirmed replaces the entry matching id with the server's canonical
// updated record, leaving order and every other entry untouched. The input
// slice is not modified. An unknown id returns the original list and
// ErrStaleView. Applying the same record twice is idempotent.
func ApplyConfirmed(list []models.Transaction, id string, updated models.Transaction) ([]models.Transaction, error) {
	for i, t := range list {
		if t.ID == id {
			out := make([]models.Transaction, len(list))
			copy(out, list)
			out[i] = updated
			return out, nil
		}
	}
	return list, ErrStaleView
}
