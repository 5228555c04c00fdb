// Package desktop owns the client-resident item collection: every mutation
// applies to the in-memory state synchronously, then reconciles with the
// remote store in the background. Remote failures are reported, never rolled
// back — in-session responsiveness wins over strict consistency.
package desktop

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"desk-cli/internal/cache"
	"desk-cli/internal/layout"
	"desk-cli/internal/model"
	"desk-cli/internal/notify"
	"desk-cli/internal/remote"
	"desk-cli/internal/syncer"
)

const (
	// DefaultMoveDebounce is the quiet period for per-item position writes.
	// A drag gesture emits many intermediate positions; only the last one
	// inside the window reaches the remote store.
	DefaultMoveDebounce = 500 * time.Millisecond

	// DefaultCacheDebounce is the (longer) quiet period for local snapshot
	// writes, decoupled from remote sync so rapid mutations coalesce before
	// touching disk.
	DefaultCacheDebounce = time.Second

	DefaultMaxUploadBytes = 32 << 20
)

const cacheWriteKey = "items"

type Options struct {
	// Remote is the backend client. Nil puts the store in local-only mode:
	// mutations apply and cache normally, no network calls are made.
	Remote remote.Client

	// Cache seeds the collection at construction and receives debounced
	// snapshots. The zero value disables persistence.
	Cache cache.Cache

	Notifier notify.Notifier
	Sounds   notify.Player
	Log      *zap.Logger

	MoveDebounce   time.Duration
	CacheDebounce  time.Duration
	MaxUploadBytes int64

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is the desktop item store. One instance is constructed at application
// start and shared; all mutations go through it. The mutex exists because
// debounce timers and remote completions re-enter from other goroutines.
type Store struct {
	mu       sync.Mutex
	items    []model.Item
	selected map[string]bool
	prefs    map[string]cache.SortPref
	uploads  map[string]*Upload
	pending  map[string]int // item id -> in-flight remote call count
	idSeq    int

	seededFromCache bool

	remote   remote.Client
	cache    cache.Cache
	notifier notify.Notifier
	sounds   notify.Player
	log      *zap.Logger
	now      func() time.Time

	moves  *syncer.Scheduler // per-item-id remote position writes
	writes *syncer.Scheduler // local cache snapshots

	maxUploadBytes int64
	wg             sync.WaitGroup
}

func New(opts Options) *Store {
	if opts.Notifier == nil {
		opts.Notifier = notify.LogNotifier{Log: opts.Log}
	}
	if opts.Sounds == nil {
		opts.Sounds = notify.LogPlayer{Log: opts.Log}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.MoveDebounce <= 0 {
		opts.MoveDebounce = DefaultMoveDebounce
	}
	if opts.CacheDebounce <= 0 {
		opts.CacheDebounce = DefaultCacheDebounce
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		selected:       map[string]bool{},
		prefs:          map[string]cache.SortPref{},
		uploads:        map[string]*Upload{},
		pending:        map[string]int{},
		remote:         opts.Remote,
		cache:          opts.Cache,
		notifier:       opts.Notifier,
		sounds:         opts.Sounds,
		log:            opts.Log,
		now:            opts.Now,
		moves:          syncer.New(opts.MoveDebounce),
		writes:         syncer.New(opts.CacheDebounce),
		maxUploadBytes: opts.MaxUploadBytes,
	}

	// Seed from the durable snapshot so first paint is instant on reload.
	// Best-effort: a missing or unreadable cache just means a cold start.
	ctx := context.Background()
	if items, ok, err := s.cache.LoadItems(ctx); err == nil && ok {
		s.items = items
		s.seededFromCache = true
	} else if err != nil {
		s.log.Debug("cache read failed", zap.Error(err))
	}
	if prefs, err := s.cache.LoadSortPrefs(ctx); err == nil {
		s.prefs = prefs
	}

	return s
}

// Flush runs all pending debounced work now and waits for in-flight remote
// calls to finish. The CLI calls it before exit so nothing is lost to a
// still-ticking timer.
func (s *Store) Flush() {
	s.moves.Flush()
	s.writes.Flush()
	s.wg.Wait()
}

// Close flushes and stops the schedulers. The store must not be used after.
func (s *Store) Close() {
	s.Flush()
	s.moves.Stop()
	s.writes.Stop()
}

func (s *Store) findLocked(id string) (*model.Item, bool) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], true
		}
	}
	return nil, false
}

func (s *Store) snapshotLocked() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// scheduleCacheWrite coalesces snapshot writes behind the cache debounce.
// Cache failures degrade durability, never the operation.
func (s *Store) scheduleCacheWrite() {
	s.writes.Debounce(cacheWriteKey, func() {
		s.mu.Lock()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		if err := s.cache.SaveItems(context.Background(), snap); err != nil {
			s.log.Debug("cache write failed", zap.Error(err))
		}
	})
}

// goRemote issues one remote call in the background, tracking the given item
// ids as pending-sync until it completes. Failure raises a user-facing
// message; the optimistic local state stands.
func (s *Store) goRemote(ids []string, op, errMsg string, call func(ctx context.Context) error) {
	if s.remote == nil {
		return
	}
	s.mu.Lock()
	for _, id := range ids {
		s.pending[id]++
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := call(context.Background())

		s.mu.Lock()
		for _, id := range ids {
			if s.pending[id] <= 1 {
				delete(s.pending, id)
			} else {
				s.pending[id]--
			}
		}
		s.mu.Unlock()

		if err != nil {
			s.log.Warn("remote sync failed", zap.String("op", op), zap.Error(err))
			s.notifier.Error(errMsg, "Sync error")
		}
	}()
}

// AddItem appends the item to the collection and issues an immediate remote
// create. Missing id and timestamps are filled in. Returns the stored item.
func (s *Store) AddItem(it model.Item) model.Item {
	s.mu.Lock()
	now := s.now()
	if it.ID == "" {
		it.ID = s.newIDLocked()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	if it.UpdatedAt.Before(it.CreatedAt) {
		it.UpdatedAt = it.CreatedAt
	}
	s.items = append(s.items, it)
	s.mu.Unlock()

	s.scheduleCacheWrite()
	item := it
	s.goRemote([]string{it.ID}, "create", "Could not create "+it.Name, func(ctx context.Context) error {
		return s.remote.CreateItem(ctx, item)
	})
	return it
}

// CreateItem builds a new item of the given type at the next free cell of the
// container and adds it. The container must be the root or an existing
// non-trashed folder; nothing else can hold children.
func (s *Store) CreateItem(typ model.ItemType, name, parentID string) (model.Item, error) {
	if !model.ValidType(typ) {
		return model.Item{}, ValidationError{Field: "type", Reason: string(typ)}
	}
	s.mu.Lock()
	if err := s.validContainerLocked(parentID); err != nil {
		s.mu.Unlock()
		return model.Item{}, err
	}
	pos := layout.Allocate(s.items, parentID, 1, nil)[0]
	s.mu.Unlock()

	return s.AddItem(model.Item{
		Type:     typ,
		Name:     name,
		ParentID: parentID,
		Position: pos,
	}), nil
}

func (s *Store) validContainerLocked(containerID string) error {
	if containerID == "" {
		return nil
	}
	parent, ok := s.findLocked(containerID)
	if !ok {
		return NotFoundError{Kind: "folder", ID: containerID}
	}
	if parent.Type != model.TypeFolder || parent.Trashed {
		return ValidationError{Field: "parentId", Reason: containerID + " is not an active folder"}
	}
	return nil
}

// RemoveItem deletes the item locally, prunes it from the selection and
// issues an immediate remote delete. A pending debounced position write for
// the id is cancelled so it can never fire after the delete.
func (s *Store) RemoveItem(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return NotFoundError{Kind: "item", ID: id}
	}
	name := s.items[idx].Name
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	delete(s.selected, id)
	s.mu.Unlock()

	s.moves.Cancel(id)
	s.scheduleCacheWrite()
	s.goRemote([]string{id}, "delete", "Could not delete "+name, func(ctx context.Context) error {
		return s.remote.DeleteItem(ctx, id)
	})
	return nil
}

// UpdateItem merges the patch into the item and issues an immediate remote
// update. Renames and property edits are infrequent, so there is no debounce:
// one logical edit is one network call. A ParentID patch is held to the same
// rules as MoveToContainer: the target must be an active folder (or the root)
// and never the item itself or one of its descendants.
func (s *Store) UpdateItem(id string, p model.Patch) error {
	s.mu.Lock()
	it, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "item", ID: id}
	}
	if p.ParentID != nil {
		if err := s.validContainerLocked(*p.ParentID); err != nil {
			s.mu.Unlock()
			return err
		}
		if *p.ParentID != "" && s.resolveCascadeLocked([]string{id})[*p.ParentID] {
			s.mu.Unlock()
			return ValidationError{Field: "parentId", Reason: "cannot move a folder into itself"}
		}
	}
	it.Apply(p, s.now())
	ts := it.UpdatedAt
	s.mu.Unlock()

	s.scheduleCacheWrite()
	p.UpdatedAt = &ts
	patches := []remote.ItemPatch{{ID: id, Fields: p}}
	s.goRemote([]string{id}, "update", "Could not sync item changes", func(ctx context.Context) error {
		return s.remote.UpdateItems(ctx, patches)
	})
	return nil
}

// MoveItem writes the position locally right away and debounces the remote
// write per item id: successive moves for the same id within the quiet window
// collapse into one network call carrying the final position.
func (s *Store) MoveItem(id string, pos model.Position) error {
	s.mu.Lock()
	it, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return NotFoundError{Kind: "item", ID: id}
	}
	it.Position = pos
	now := s.now()
	if now.After(it.UpdatedAt) {
		it.UpdatedAt = now
	}
	s.mu.Unlock()

	s.scheduleCacheWrite()
	if s.remote == nil {
		return nil
	}
	s.moves.Debounce(id, func() {
		// Send whatever the position is at fire time, not at schedule time;
		// the last local write always wins.
		s.mu.Lock()
		cur, ok := s.findLocked(id)
		if !ok {
			s.mu.Unlock()
			return
		}
		p, ts := cur.Position, cur.UpdatedAt
		s.mu.Unlock()

		patches := []remote.ItemPatch{{ID: id, Fields: model.Patch{Position: &p, UpdatedAt: &ts}}}
		s.goRemote([]string{id}, "move", "Could not sync item position", func(ctx context.Context) error {
			return s.remote.UpdateItems(ctx, patches)
		})
	})
	return nil
}

// MoveToContainer is the cut/paste move: the items are reparented into the
// target container at freshly allocated cells, in one immediate batch update.
// A folder can never be moved into itself or one of its descendants.
func (s *Store) MoveToContainer(ids []string, containerID string) error {
	s.mu.Lock()
	if err := s.validContainerLocked(containerID); err != nil {
		s.mu.Unlock()
		return err
	}
	if containerID != "" {
		reach := s.resolveCascadeLocked(ids)
		if reach[containerID] {
			s.mu.Unlock()
			return ValidationError{Field: "parentId", Reason: "cannot move a folder into itself"}
		}
	}

	var moving []*model.Item
	exclude := map[string]bool{}
	for _, id := range ids {
		it, ok := s.findLocked(id)
		if !ok {
			s.mu.Unlock()
			return NotFoundError{Kind: "item", ID: id}
		}
		moving = append(moving, it)
		exclude[id] = true
	}

	cells := layout.Allocate(s.items, containerID, len(moving), exclude)
	now := s.now()
	parent := containerID
	patches := make([]remote.ItemPatch, 0, len(moving))
	moved := make([]string, 0, len(moving))
	for i, it := range moving {
		it.ParentID = containerID
		it.Position = cells[i]
		if now.After(it.UpdatedAt) {
			it.UpdatedAt = now
		}
		pos, ts := it.Position, it.UpdatedAt
		patches = append(patches, remote.ItemPatch{
			ID:     it.ID,
			Fields: model.Patch{ParentID: &parent, Position: &pos, UpdatedAt: &ts},
		})
		moved = append(moved, it.ID)
	}
	s.mu.Unlock()

	s.scheduleCacheWrite()
	s.goRemote(moved, "cut-move", "Could not sync moved items", func(ctx context.Context) error {
		return s.remote.UpdateItems(ctx, patches)
	})
	return nil
}

// Duplicate copies the items verbatim (payload included) under fresh ids at
// newly allocated cells in their own containers, issuing one immediate remote
// create per copy. Returns the copies in request order.
func (s *Store) Duplicate(ids []string) ([]model.Item, error) {
	s.mu.Lock()
	now := s.now()
	copies := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		src, ok := s.findLocked(id)
		if !ok {
			s.mu.Unlock()
			return nil, NotFoundError{Kind: "item", ID: id}
		}
		cp := *src
		cp.ID = s.newIDLocked()
		cp.CreatedAt = now
		cp.UpdatedAt = now
		cp.Trashed = false
		cp.TrashedAt = nil
		cp.Position = layout.Allocate(s.items, cp.ParentID, 1, nil)[0]
		s.items = append(s.items, cp)
		copies = append(copies, cp)
	}
	s.mu.Unlock()

	s.scheduleCacheWrite()
	for _, cp := range copies {
		item := cp
		s.goRemote([]string{cp.ID}, "duplicate", "Could not create "+cp.Name, func(ctx context.Context) error {
			return s.remote.CreateItem(ctx, item)
		})
	}
	return copies, nil
}

// applyPlacements writes a layout plan into the collection, bumping UpdatedAt
// only for items that actually changed cell. Caller holds s.mu. Returns the
// batch patches for the repositioned items.
func (s *Store) applyPlacementsLocked(plan []layout.Placement) []remote.ItemPatch {
	now := s.now()
	patches := make([]remote.ItemPatch, 0, len(plan))
	for _, pl := range plan {
		if !pl.Moved {
			continue
		}
		it, ok := s.findLocked(pl.ID)
		if !ok {
			continue
		}
		it.Position = pl.Position
		if now.After(it.UpdatedAt) {
			it.UpdatedAt = now
		}
		pos, ts := it.Position, it.UpdatedAt
		patches = append(patches, remote.ItemPatch{
			ID:     pl.ID,
			Fields: model.Patch{Position: &pos, UpdatedAt: &ts},
		})
	}
	return patches
}

func (s *Store) syncPlacements(patches []remote.ItemPatch, op, errMsg string) {
	if len(patches) == 0 {
		return
	}
	s.scheduleCacheWrite()
	ids := make([]string, 0, len(patches))
	for _, p := range patches {
		ids = append(ids, p.ID)
	}
	s.goRemote(ids, op, errMsg, func(ctx context.Context) error {
		return s.remote.UpdateItems(ctx, patches)
	})
}

// Sort reorders the container's children by key, re-derives their grid cells
// and records the key as the container's sort preference. The preference is
// read-side only: new items are not re-sorted automatically.
func (s *Store) Sort(containerID string, key model.SortOrder) error {
	s.mu.Lock()
	plan, err := layout.Plan(s.items, containerID, key)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	patches := s.applyPlacementsLocked(plan)
	pref := cache.SortPref{SortOrder: key}
	s.prefs[cache.PrefKey(containerID)] = pref
	s.mu.Unlock()

	// Preference storage is best-effort, like every other cache write.
	if err := s.cache.SaveSortPref(context.Background(), containerID, pref); err != nil {
		s.log.Debug("sort preference write failed", zap.Error(err))
	}
	s.syncPlacements(patches, "sort", "Could not sync sorted positions")
	return nil
}

// CleanUp compacts the container's children onto the first free cells without
// changing their relative order or the saved sort preference.
func (s *Store) CleanUp(containerID string) {
	s.mu.Lock()
	plan := layout.CompactPlan(s.items, containerID)
	patches := s.applyPlacementsLocked(plan)
	s.mu.Unlock()

	s.syncPlacements(patches, "clean-up", "Could not sync cleaned-up positions")
}

// SortOrderFor reports the container's recorded sort preference, if any.
func (s *Store) SortOrderFor(containerID string) (model.SortOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pref, ok := s.prefs[cache.PrefKey(containerID)]
	return pref.SortOrder, ok
}

// LoadDesktop replaces the collection with server truth and rewrites the
// cache. If the fetch fails but the store was seeded from a cache, the stale
// snapshot is kept silently; with no cache the error is surfaced.
func (s *Store) LoadDesktop(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	items, err := s.remote.FetchDesktop(ctx)
	if err != nil {
		s.mu.Lock()
		stale := s.seededFromCache
		s.mu.Unlock()
		if stale {
			s.log.Warn("desktop fetch failed, keeping cached snapshot", zap.Error(err))
			return nil
		}
		s.notifier.Error("Could not load your desktop", "Load error")
		return err
	}

	s.mu.Lock()
	s.items = items
	s.seededFromCache = true
	for id := range s.selected {
		if _, ok := s.findLocked(id); !ok {
			delete(s.selected, id)
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.cache.SaveItems(ctx, snap); err != nil {
		s.log.Debug("cache write failed", zap.Error(err))
	}
	return nil
}

// IsSyncPending reports whether the item has a scheduled or in-flight remote
// write, so a UI can show a sync indicator.
func (s *Store) IsSyncPending(id string) bool {
	if s.moves.IsPending(id) {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[id] > 0
}

// PendingSyncs returns the ids with unsettled remote writes, sorted.
func (s *Store) PendingSyncs() []string {
	set := map[string]bool{}
	for _, id := range s.moves.PendingKeys() {
		set[id] = true
	}
	s.mu.Lock()
	for id, n := range s.pending {
		if n > 0 {
			set[id] = true
		}
	}
	s.mu.Unlock()

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
