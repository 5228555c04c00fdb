package desktop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"desk-cli/internal/model"
)

func TestUploadRejectsUnsupportedTypeBeforeMutation(t *testing.T) {
	s := newTestStore(t, &fakeRemote{})

	_, err := s.Upload(context.Background(), "tool.exe", 10, "", strings.NewReader("x"), "")
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(s.Items()) != 0 {
		t.Fatalf("validation failure must not touch local state")
	}
	if len(s.Uploads()) != 0 {
		t.Fatalf("rejected uploads are not tracked as attempts")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	f := &fakeRemote{}
	s := New(Options{Remote: f, MaxUploadBytes: 4})
	defer s.Close()

	_, err := s.Upload(context.Background(), "a.txt", 5, "text/plain", strings.NewReader("12345"), "")
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUploadTracksProgressAndAppendsItem(t *testing.T) {
	f := &fakeRemote{uploadItem: model.Item{ID: "item-up1", Type: model.TypeText}}
	s := newTestStore(t, f)

	it, err := s.Upload(context.Background(), "a.txt", 3, "text/plain", strings.NewReader("abc"), "")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if it.ID != "item-up1" || it.Name != "a.txt" {
		t.Fatalf("expected the created item back, got %+v", it)
	}
	if _, ok := s.Item(it.ID); !ok {
		t.Fatalf("expected uploaded item in the collection")
	}

	ups := s.Uploads()
	if len(ups) != 1 {
		t.Fatalf("expected one tracked attempt")
	}
	if ups[0].Status != UploadComplete || ups[0].Progress != 100 || ups[0].ItemID != it.ID {
		t.Fatalf("expected completed attempt, got %+v", ups[0])
	}
}

func TestUploadFailureKeepsErrorStatus(t *testing.T) {
	f := &fakeRemote{uploadErr: errors.New("disk full")}
	n := &recordingNotifier{}
	s := New(Options{Remote: f, Notifier: n})
	defer s.Close()

	_, err := s.Upload(context.Background(), "a.txt", 3, "text/plain", strings.NewReader("abc"), "")
	if err == nil {
		t.Fatalf("expected error")
	}

	ups := s.Uploads()
	if len(ups) != 1 || ups[0].Status != UploadError || ups[0].Error == "" {
		t.Fatalf("expected tracked error attempt, got %+v", ups)
	}
	if len(s.Items()) != 0 {
		t.Fatalf("failed upload must not append an item")
	}
	if n.count() != 1 {
		t.Fatalf("expected a user-facing upload error")
	}
}
