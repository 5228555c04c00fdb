// Package remote defines the contract the desktop store uses to talk to the
// authoritative backend, and an HTTP implementation of it. The store treats
// any implementation the same way: optimistic local state first, remote
// reconciliation after, failures surfaced but never rolled back.
package remote

import (
	"context"
	"fmt"
	"io"

	"desk-cli/internal/model"
)

// ItemPatch is the batch-update element: one item id plus the fields that
// changed. Sort, clean-up and trash cascades send many of these in one call.
type ItemPatch struct {
	ID     string      `json:"id"`
	Fields model.Patch `json:"fields"`
}

// ProgressFunc receives upload progress in whole percent, 0-100.
type ProgressFunc func(percent int)

// UploadRequest carries one file destined for a container cell.
type UploadRequest struct {
	Name     string
	ParentID string
	Position model.Position
	MimeType string
	Size     int64
	Data     io.Reader
}

// Client is the remote store contract.
type Client interface {
	CreateItem(ctx context.Context, item model.Item) error
	UpdateItems(ctx context.Context, patches []ItemPatch) error
	DeleteItem(ctx context.Context, id string) error
	UploadFile(ctx context.Context, req UploadRequest, onProgress ProgressFunc) (model.Item, error)
	FetchDesktop(ctx context.Context) ([]model.Item, error)
	EmptyTrash(ctx context.Context) error
}

// NetworkError wraps a failed remote call. The store reports it to the user
// and keeps the optimistic local state; the next compatible action (or a
// reload) is the retry path.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
