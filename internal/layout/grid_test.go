package layout

import (
	"testing"

	"desk-cli/internal/model"
)

func item(id, parent string, x, y int) model.Item {
	return model.Item{ID: id, Type: model.TypeText, ParentID: parent, Position: model.Position{X: x, Y: y}}
}

func TestAllocateFillsColumnThenWraps(t *testing.T) {
	got := Allocate(nil, "", 9, nil)
	for i := 0; i < 8; i++ {
		want := model.Position{X: 0, Y: i}
		if got[i] != want {
			t.Fatalf("cell %d: expected %v, got %v", i, want, got[i])
		}
	}
	if got[8] != (model.Position{X: 1, Y: 0}) {
		t.Fatalf("ninth cell should wrap to the next column, got %v", got[8])
	}
}

func TestAllocateSkipsOccupiedCells(t *testing.T) {
	items := []model.Item{
		item("item-a", "", 0, 0),
		item("item-b", "", 0, 2),
	}
	got := Allocate(items, "", 3, nil)
	want := []model.Position{{X: 0, Y: 1}, {X: 0, Y: 3}, {X: 0, Y: 4}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestAllocateIgnoresTrashedAndOtherContainers(t *testing.T) {
	trashed := item("item-t", "", 0, 0)
	trashed.Trashed = true
	items := []model.Item{
		trashed,
		item("item-x", "item-folder", 0, 1),
	}
	got := Allocate(items, "", 2, nil)
	if got[0] != (model.Position{X: 0, Y: 0}) || got[1] != (model.Position{X: 0, Y: 1}) {
		t.Fatalf("trashed items and other containers must not occupy cells, got %v", got)
	}
}

func TestAllocateExcludeFreesOwnCell(t *testing.T) {
	items := []model.Item{item("item-a", "", 0, 0)}
	got := Allocate(items, "", 1, map[string]bool{"item-a": true})
	if got[0] != (model.Position{X: 0, Y: 0}) {
		t.Fatalf("excluded item must not block its own cell, got %v", got[0])
	}
}

func TestAllocateNeverReturnsDuplicates(t *testing.T) {
	got := Allocate(nil, "", 20, nil)
	seen := map[model.Position]bool{}
	for _, p := range got {
		if seen[p] {
			t.Fatalf("duplicate cell %v", p)
		}
		seen[p] = true
	}
}

func TestAllocateDeterministicAndDisjointWithCumulativeExcludes(t *testing.T) {
	items := []model.Item{item("item-a", "", 0, 0), item("item-b", "", 0, 3)}

	first := Allocate(items, "", 3, nil)
	again := Allocate(items, "", 3, nil)
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("allocation must be deterministic: %v vs %v", first, again)
		}
	}

	// Simulate the first batch being placed, then allocate again.
	placed := items
	for i, p := range first {
		placed = append(placed, item("item-n"+string(rune('0'+i)), "", p.X, p.Y))
	}
	second := Allocate(placed, "", 3, nil)
	used := map[model.Position]bool{}
	for _, p := range first {
		used[p] = true
	}
	for _, p := range second {
		if used[p] {
			t.Fatalf("second allocation reused cell %v", p)
		}
	}
}
