package layout

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"desk-cli/internal/model"
)

// Placement is one item's computed cell after a sort or clean-up pass.
// Moved is false when the item already sits on its target cell, so callers
// can skip the updatedAt bump and the remote write for it.
type Placement struct {
	ID       string
	Position model.Position
	Moved    bool
}

// newCollator returns the collator used for name ordering: locale-aware and
// case-insensitive (collate.Loose also folds width and diacritic variants).
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}

// Plan orders the container's non-trashed children by key and re-derives
// their positions with the shared grid walk. Items outside the container and
// trashed items are untouched. Sorting an already-sorted container produces
// the identical assignment, with every Placement reporting Moved=false.
func Plan(items []model.Item, containerID string, key model.SortOrder) ([]Placement, error) {
	var in []model.Item
	for _, it := range items {
		if it.Trashed || it.ParentID != containerID {
			continue
		}
		in = append(in, it)
	}

	coll := newCollator()
	byName := func(a, b model.Item) bool {
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		// Equal names are not unique; fall back to id so the order is total.
		return a.ID < b.ID
	}

	switch key {
	case model.SortByName:
		sort.SliceStable(in, func(i, j int) bool { return byName(in[i], in[j]) })
	case model.SortByDate:
		// Most recently touched first.
		sort.SliceStable(in, func(i, j int) bool {
			if !in[i].UpdatedAt.Equal(in[j].UpdatedAt) {
				return in[i].UpdatedAt.After(in[j].UpdatedAt)
			}
			return byName(in[i], in[j])
		})
	case model.SortByKind:
		sort.SliceStable(in, func(i, j int) bool {
			pi, pj := model.KindPriority(in[i].Type), model.KindPriority(in[j].Type)
			if pi != pj {
				return pi < pj
			}
			return byName(in[i], in[j])
		})
	default:
		return nil, fmt.Errorf("unknown sort order: %q", key)
	}

	out := make([]Placement, 0, len(in))
	for n, it := range in {
		cell := cellAt(n)
		out = append(out, Placement{ID: it.ID, Position: cell, Moved: it.Position != cell})
	}
	return out, nil
}

// CompactPlan repositions the container's children onto the first free cells
// without changing their relative visual order ("clean up"). Visual order is
// the grid walk order of their current cells.
func CompactPlan(items []model.Item, containerID string) []Placement {
	var in []model.Item
	for _, it := range items {
		if it.Trashed || it.ParentID != containerID {
			continue
		}
		in = append(in, it)
	}
	sort.SliceStable(in, func(i, j int) bool {
		a, b := in[i].Position, in[j].Position
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	out := make([]Placement, 0, len(in))
	for n, it := range in {
		cell := cellAt(n)
		out = append(out, Placement{ID: it.ID, Position: cell, Moved: it.Position != cell})
	}
	return out
}
