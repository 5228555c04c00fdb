// Package layout owns the desktop grid policy: where new items land and how
// a container's children are repositioned after a sort. The allocator and the
// sorter share one cell-walk so their results always agree.
package layout

import "desk-cli/internal/model"

// GridRows is the number of rows in a desktop column. Icons fill a column
// top-to-bottom before spilling into the next column; columns are unbounded,
// so a container can hold any number of items.
const GridRows = 8

// cellAt returns the grid cell for ordinal n under the shared walk order.
func cellAt(n int) model.Position {
	return model.Position{X: n / GridRows, Y: n % GridRows}
}

// occupiedCells collects the cells claimed by non-trashed items in the
// container, skipping any ids in exclude (an item being repositioned must not
// block its own target cell).
func occupiedCells(items []model.Item, containerID string, exclude map[string]bool) map[model.Position]bool {
	occupied := map[model.Position]bool{}
	for _, it := range items {
		if it.Trashed || it.ParentID != containerID {
			continue
		}
		if exclude[it.ID] {
			continue
		}
		occupied[it.Position] = true
	}
	return occupied
}

// Allocate returns count distinct free cells in the container, in walk order.
// Each returned cell is marked occupied for the remainder of the call, so a
// multi-item allocation never hands out the same cell twice. Deterministic:
// the same occupancy and count always produce the same sequence.
func Allocate(items []model.Item, containerID string, count int, exclude map[string]bool) []model.Position {
	if count <= 0 {
		return nil
	}
	occupied := occupiedCells(items, containerID, exclude)
	out := make([]model.Position, 0, count)
	for n := 0; len(out) < count; n++ {
		cell := cellAt(n)
		if occupied[cell] {
			continue
		}
		occupied[cell] = true
		out = append(out, cell)
	}
	return out
}
