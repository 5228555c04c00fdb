package desktop

import (
	"sort"

	"desk-cli/internal/model"
)

// Item returns a copy of the item with the given id.
func (s *Store) Item(id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.findLocked(id)
	if !ok {
		return model.Item{}, false
	}
	return *it, true
}

// Items returns a snapshot of the whole collection in insertion order,
// trashed items included.
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ItemsByParent returns the container's non-trashed children in insertion
// order. Insertion order is not display order; positions carry the layout.
func (s *Store) ItemsByParent(containerID string) []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Item
	for _, it := range s.items {
		if !it.Trashed && it.ParentID == containerID {
			out = append(out, it)
		}
	}
	return out
}

// TrashedItems returns every trashed item, regardless of container.
func (s *Store) TrashedItems() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Item
	for _, it := range s.items {
		if it.Trashed {
			out = append(out, it)
		}
	}
	return out
}

// Selection is pure local state: no network effect, no cache write.

func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); ok {
		s.selected[id] = true
	}
}

func (s *Store) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// SelectAll replaces the selection with the container's non-trashed children.
func (s *Store) SelectAll(containerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[string]bool{}
	for _, it := range s.items {
		if !it.Trashed && it.ParentID == containerID {
			s.selected[it.ID] = true
		}
	}
}

func (s *Store) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[string]bool{}
}

func (s *Store) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[id]
}

func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
