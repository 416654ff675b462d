// Package picker turns pointer input into vertex selection changes.
package picker

import (
	"slices"

	"github.com/Faultbox/meshsculpt/internal/editor/registry"
)

// Click applies a single-vertex click to e. Without multi the selection
// becomes exactly {idx}; with multi, idx is toggled and the rest is kept.
func Click(e registry.Entry, idx int, multi bool) {
	if !multi {
		e.SetSelection([]int{idx})
		return
	}

	sel := slices.Clone(e.Selection())
	if i := slices.Index(sel, idx); i >= 0 {
		e.SetSelection(slices.Delete(sel, i, i+1))
		return
	}
	e.SetSelection(append(sel, idx))
}

// ClickAt resolves the vertex nearest to the pointer and applies Click to it.
// A click that hits nothing clears every selection unless multi is held.
func ClickAt(reg *registry.Registry, hit Hit, ok bool, multi bool) {
	if !ok {
		if !multi {
			reg.ClearAllSelections()
		}
		return
	}
	if !multi {
		for _, e := range reg.Entries() {
			if e.ID() != hit.Entry.ID() {
				e.SetSelection(nil)
			}
		}
	}
	Click(hit.Entry, hit.Index, multi)
}
