package layout

import (
	"testing"
	"time"

	"desk-cli/internal/model"
)

func named(id, name string, typ model.ItemType, updated time.Time) model.Item {
	return model.Item{ID: id, Type: typ, Name: name, UpdatedAt: updated}
}

func placements(t *testing.T, items []model.Item, key model.SortOrder) map[string]model.Position {
	t.Helper()
	plan, err := Plan(items, "", key)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	out := map[string]model.Position{}
	for _, pl := range plan {
		out[pl.ID] = pl.Position
	}
	return out
}

func TestPlanByNameIsCaseInsensitive(t *testing.T) {
	now := time.Now()
	items := []model.Item{
		named("item-1", "banana", model.TypeText, now),
		named("item-2", "Apple", model.TypeText, now),
		named("item-3", "cherry", model.TypeText, now),
	}
	got := placements(t, items, model.SortByName)
	if got["item-2"] != (model.Position{X: 0, Y: 0}) {
		t.Fatalf("expected Apple first, got %v", got)
	}
	if got["item-1"] != (model.Position{X: 0, Y: 1}) || got["item-3"] != (model.Position{X: 0, Y: 2}) {
		t.Fatalf("expected banana then cherry, got %v", got)
	}
}

func TestPlanByDateMostRecentFirst(t *testing.T) {
	base := time.Now()
	items := []model.Item{
		named("item-old", "old", model.TypeText, base.Add(-time.Hour)),
		named("item-new", "new", model.TypeText, base),
	}
	got := placements(t, items, model.SortByDate)
	if got["item-new"] != (model.Position{X: 0, Y: 0}) {
		t.Fatalf("expected most recently touched first, got %v", got)
	}
}

func TestPlanByKindFollowsPriorityWithNameTiebreak(t *testing.T) {
	now := time.Now()
	items := []model.Item{
		named("item-w", "widget", model.TypeWidget, now),
		named("item-p", "doc", model.TypePDF, now),
		named("item-f2", "zeta", model.TypeFolder, now),
		named("item-f1", "alpha", model.TypeFolder, now),
	}
	got := placements(t, items, model.SortByKind)
	want := map[string]model.Position{
		"item-f1": {X: 0, Y: 0},
		"item-f2": {X: 0, Y: 1},
		"item-p":  {X: 0, Y: 2},
		"item-w":  {X: 0, Y: 3},
	}
	for id, pos := range want {
		if got[id] != pos {
			t.Fatalf("%s: expected %v, got %v (all: %v)", id, pos, got[id], got)
		}
	}
}

func TestPlanSkipsTrashedAndForeignItems(t *testing.T) {
	now := time.Now()
	trashed := named("item-t", "aaa", model.TypeText, now)
	trashed.Trashed = true
	foreign := named("item-x", "aab", model.TypeText, now)
	foreign.ParentID = "item-folder"
	items := []model.Item{trashed, foreign, named("item-k", "zzz", model.TypeText, now)}

	got := placements(t, items, model.SortByName)
	if len(got) != 1 {
		t.Fatalf("expected only the container's live item planned, got %v", got)
	}
	if got["item-k"] != (model.Position{X: 0, Y: 0}) {
		t.Fatalf("expected item-k at origin, got %v", got)
	}
}

func TestPlanIsIdempotent(t *testing.T) {
	now := time.Now()
	items := []model.Item{
		named("item-b", "b", model.TypeText, now),
		named("item-a", "a", model.TypeText, now),
		named("item-c", "c", model.TypeText, now),
	}

	first, err := Plan(items, "", model.SortByName)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, pl := range first {
		for i := range items {
			if items[i].ID == pl.ID {
				items[i].Position = pl.Position
			}
		}
	}

	second, err := Plan(items, "", model.SortByName)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for i := range second {
		if second[i].Position != first[i].Position {
			t.Fatalf("expected identical assignment, got %v vs %v", second[i], first[i])
		}
		if second[i].Moved {
			t.Fatalf("re-sorting a sorted container must not move %s", second[i].ID)
		}
	}
}

func TestPlanRejectsUnknownKey(t *testing.T) {
	if _, err := Plan(nil, "", model.SortOrder("size")); err == nil {
		t.Fatalf("expected error for unknown sort order")
	}
}

func TestCompactPlanKeepsVisualOrder(t *testing.T) {
	items := []model.Item{
		item("item-far", "", 3, 2),
		item("item-near", "", 0, 5),
		item("item-mid", "", 1, 1),
	}
	plan := CompactPlan(items, "")
	got := map[string]model.Position{}
	for _, pl := range plan {
		got[pl.ID] = pl.Position
	}
	if got["item-near"] != (model.Position{X: 0, Y: 0}) ||
		got["item-mid"] != (model.Position{X: 0, Y: 1}) ||
		got["item-far"] != (model.Position{X: 0, Y: 2}) {
		t.Fatalf("expected walk-order compaction, got %v", got)
	}
}
