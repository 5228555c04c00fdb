package desktop

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"desk-cli/internal/layout"
	"desk-cli/internal/model"
	"desk-cli/internal/notify"
	"desk-cli/internal/remote"
)

type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadComplete  UploadStatus = "complete"
	UploadError     UploadStatus = "error"
)

// Upload tracks one upload attempt so the interface can show per-file
// progress and which uploads need retrying.
type Upload struct {
	ID        string
	Name      string
	ParentID  string
	Status    UploadStatus
	Progress  int
	Error     string
	ItemID    string
	StartedAt time.Time
}

var uploadTypes = map[string]model.ItemType{
	".txt":  model.TypeText,
	".md":   model.TypeText,
	".png":  model.TypeImage,
	".jpg":  model.TypeImage,
	".jpeg": model.TypeImage,
	".gif":  model.TypeImage,
	".webp": model.TypeImage,
	".mp4":  model.TypeVideo,
	".webm": model.TypeVideo,
	".mp3":  model.TypeAudio,
	".wav":  model.TypeAudio,
	".ogg":  model.TypeAudio,
	".pdf":  model.TypePDF,
}

func (s *Store) setUpload(id string, fn func(*Upload)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.uploads[id]; ok {
		fn(u)
	}
}

// Upload validates the file, sends it to the remote store with progress
// tracking, and appends the created item on success. Validation failures
// reject the upload before any local mutation.
func (s *Store) Upload(ctx context.Context, name string, size int64, mimeType string, data io.Reader, parentID string) (model.Item, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := uploadTypes[ext]; !ok {
		return model.Item{}, ValidationError{Field: "file", Reason: fmt.Sprintf("unsupported file type %q", ext)}
	}
	if size <= 0 {
		return model.Item{}, ValidationError{Field: "file", Reason: "empty file"}
	}
	if size > s.maxUploadBytes {
		return model.Item{}, ValidationError{Field: "file", Reason: fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes)}
	}
	if s.remote == nil {
		return model.Item{}, &remote.NetworkError{Op: "upload", Err: fmt.Errorf("no remote configured")}
	}

	s.mu.Lock()
	if err := s.validContainerLocked(parentID); err != nil {
		s.mu.Unlock()
		return model.Item{}, err
	}
	pos := layout.Allocate(s.items, parentID, 1, nil)[0]
	attempt := &Upload{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		Status:    UploadPending,
		StartedAt: s.now(),
	}
	s.uploads[attempt.ID] = attempt
	s.mu.Unlock()

	s.setUpload(attempt.ID, func(u *Upload) { u.Status = UploadUploading })
	item, err := s.remote.UploadFile(ctx, remote.UploadRequest{
		Name:     name,
		ParentID: parentID,
		Position: pos,
		MimeType: mimeType,
		Size:     size,
		Data:     data,
	}, func(pct int) {
		s.setUpload(attempt.ID, func(u *Upload) { u.Progress = pct })
	})
	if err != nil {
		s.setUpload(attempt.ID, func(u *Upload) {
			u.Status = UploadError
			u.Error = err.Error()
		})
		s.notifier.Error("Could not upload "+name, "Upload error")
		return model.Item{}, err
	}

	s.mu.Lock()
	if item.ID == "" {
		item.ID = s.newIDLocked()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	if item.UpdatedAt.Before(item.CreatedAt) {
		item.UpdatedAt = item.CreatedAt
	}
	s.items = append(s.items, item)
	if u, ok := s.uploads[attempt.ID]; ok {
		u.Status = UploadComplete
		u.Progress = 100
		u.ItemID = item.ID
	}
	s.mu.Unlock()

	s.scheduleCacheWrite()
	s.sounds.Play(notify.SoundUpload)
	return item, nil
}

// Uploads returns a snapshot of all upload attempts this session, oldest
// first.
func (s *Store) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Upload, 0, len(s.uploads))
	for _, u := range s.uploads {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
