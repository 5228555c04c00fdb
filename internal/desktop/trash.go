package desktop

import (
	"context"

	"desk-cli/internal/model"
	"desk-cli/internal/notify"
	"desk-cli/internal/remote"
)

// resolveCascadeLocked expands the requested ids into the full set to trash:
// every requested id plus, for requested folders, all transitive descendants,
// regardless of their current trashed state. The children index is built once
// per call and the traversal adds each id exactly once, so the walk is
// proportional to the subtree size and terminates on any graph. Unknown ids
// are dropped. Caller holds s.mu.
func (s *Store) resolveCascadeLocked(ids []string) map[string]bool {
	byID := make(map[string]*model.Item, len(s.items))
	children := map[string][]string{}
	for i := range s.items {
		it := &s.items[i]
		byID[it.ID] = it
		if it.ParentID != "" {
			children[it.ParentID] = append(children[it.ParentID], it.ID)
		}
	}

	out := map[string]bool{}
	var queue []string
	for _, id := range ids {
		if byID[id] == nil || out[id] {
			continue
		}
		out[id] = true
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if byID[id].Type != model.TypeFolder {
			continue
		}
		for _, child := range children[id] {
			if out[child] {
				continue
			}
			out[child] = true
			queue = append(queue, child)
		}
	}
	return out
}

// MoveToTrash soft-deletes the items and, for folders, their whole subtrees.
// Trashed items keep their parent and position but leave container listings
// and the selection. One immediate batch update covers the full cascade.
func (s *Store) MoveToTrash(ids ...string) error {
	s.mu.Lock()
	for _, id := range ids {
		if _, ok := s.findLocked(id); !ok {
			s.mu.Unlock()
			return NotFoundError{Kind: "item", ID: id}
		}
	}
	set := s.resolveCascadeLocked(ids)
	now := s.now()
	trashed := true
	patches := make([]remote.ItemPatch, 0, len(set))
	affected := make([]string, 0, len(set))
	for i := range s.items {
		it := &s.items[i]
		if !set[it.ID] || it.Trashed {
			continue
		}
		it.Trashed = true
		ts := now
		it.TrashedAt = &ts
		if now.After(it.UpdatedAt) {
			it.UpdatedAt = now
		}
		delete(s.selected, it.ID)
		when, upd := ts, it.UpdatedAt
		patches = append(patches, remote.ItemPatch{
			ID:     it.ID,
			Fields: model.Patch{Trashed: &trashed, TrashedAt: &when, UpdatedAt: &upd},
		})
		affected = append(affected, it.ID)
	}
	s.mu.Unlock()

	if len(patches) > 0 {
		s.scheduleCacheWrite()
		s.goRemote(affected, "trash", "Could not sync trashed items", func(ctx context.Context) error {
			return s.remote.UpdateItems(ctx, patches)
		})
		s.sounds.Play(notify.SoundTrash)
	}
	return nil
}

// RestoreFromTrash restores exactly the given ids; it does not cascade.
// Restoring a folder deliberately leaves its still-trashed contents trashed.
func (s *Store) RestoreFromTrash(ids ...string) error {
	s.mu.Lock()
	now := s.now()
	trashed := false
	patches := make([]remote.ItemPatch, 0, len(ids))
	affected := make([]string, 0, len(ids))
	for _, id := range ids {
		it, ok := s.findLocked(id)
		if !ok {
			s.mu.Unlock()
			return NotFoundError{Kind: "item", ID: id}
		}
		if !it.Trashed {
			continue
		}
		it.Trashed = false
		it.TrashedAt = nil
		if now.After(it.UpdatedAt) {
			it.UpdatedAt = now
		}
		upd := it.UpdatedAt
		patches = append(patches, remote.ItemPatch{
			ID:     it.ID,
			Fields: model.Patch{Trashed: &trashed, UpdatedAt: &upd},
		})
		affected = append(affected, it.ID)
	}
	s.mu.Unlock()

	if len(patches) > 0 {
		s.scheduleCacheWrite()
		s.goRemote(affected, "restore", "Could not sync restored items", func(ctx context.Context) error {
			return s.remote.UpdateItems(ctx, patches)
		})
	}
	return nil
}

// EmptyTrash removes every trashed item from the collection in one local step
// and issues one remote empty-trash call. Items are not recoverable locally
// after this returns; a remote failure is reported but nothing is restored.
func (s *Store) EmptyTrash() {
	s.mu.Lock()
	kept := s.items[:0]
	var removed []string
	for _, it := range s.items {
		if it.Trashed {
			removed = append(removed, it.ID)
			delete(s.selected, it.ID)
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	s.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	for _, id := range removed {
		s.moves.Cancel(id)
	}
	s.scheduleCacheWrite()
	s.goRemote(nil, "empty-trash", "Could not empty the trash on the server", func(ctx context.Context) error {
		return s.remote.EmptyTrash(ctx)
	})
	s.sounds.Play(notify.SoundEmptyTrash)
}
