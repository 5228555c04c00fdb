package desktop

import (
	"context"
	"sync"

	"desk-cli/internal/model"
	"desk-cli/internal/notify"
	"desk-cli/internal/remote"
)

type fakeRemote struct {
	mu         sync.Mutex
	creates    []model.Item
	updates    [][]remote.ItemPatch
	deletes    []string
	emptyCalls int

	fetchItems []model.Item
	fetchErr   error

	uploadItem model.Item
	uploadErr  error
	progress   []int

	err error // returned by create/update/delete when set
}

func (f *fakeRemote) CreateItem(ctx context.Context, item model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, item)
	return f.err
}

func (f *fakeRemote) UpdateItems(ctx context.Context, patches []remote.ItemPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, patches)
	return f.err
}

func (f *fakeRemote) DeleteItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.err
}

func (f *fakeRemote) UploadFile(ctx context.Context, req remote.UploadRequest, onProgress remote.ProgressFunc) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if onProgress != nil {
		for _, pct := range []int{25, 100} {
			f.progress = append(f.progress, pct)
			onProgress(pct)
		}
	}
	if f.uploadErr != nil {
		return model.Item{}, f.uploadErr
	}
	it := f.uploadItem
	it.Name = req.Name
	it.ParentID = req.ParentID
	it.Position = req.Position
	return it, nil
}

func (f *fakeRemote) FetchDesktop(ctx context.Context) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetchItems, nil
}

func (f *fakeRemote) EmptyTrash(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emptyCalls++
	return f.err
}

func (f *fakeRemote) updateCalls() [][]remote.ItemPatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]remote.ItemPatch, len(f.updates))
	copy(out, f.updates)
	return out
}

func (f *fakeRemote) createCalls() []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Item, len(f.creates))
	copy(out, f.creates)
	return out
}

func (f *fakeRemote) deleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deletes))
	copy(out, f.deletes)
	return out
}

func (f *fakeRemote) emptyTrashCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emptyCalls
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Error(message, title string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type recordingPlayer struct {
	mu     sync.Mutex
	played []notify.Sound
}

func (p *recordingPlayer) Play(kind notify.Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, kind)
}

func (p *recordingPlayer) sounds() []notify.Sound {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Sound, len(p.played))
	copy(out, p.played)
	return out
}
