package model

import (
	"fmt"
	"strings"
	"time"
)

type ItemType string

const (
	TypeFolder ItemType = "folder"
	TypeText   ItemType = "text"
	TypeImage  ItemType = "image"
	TypeVideo  ItemType = "video"
	TypeAudio  ItemType = "audio"
	TypePDF    ItemType = "pdf"
	TypeLink   ItemType = "link"
	TypeWidget ItemType = "widget"
)

// kindPriority orders item types for kind-sorting. Unknown types sort last.
var kindPriority = map[ItemType]int{
	TypeFolder: 0,
	TypeText:   1,
	TypeImage:  2,
	TypeVideo:  3,
	TypeAudio:  4,
	TypePDF:    5,
	TypeLink:   6,
	TypeWidget: 7,
}

func KindPriority(t ItemType) int {
	if p, ok := kindPriority[t]; ok {
		return p
	}
	return len(kindPriority)
}

func ValidType(t ItemType) bool {
	_, ok := kindPriority[t]
	return ok
}

func ParseItemType(s string) (ItemType, error) {
	t := ItemType(strings.ToLower(strings.TrimSpace(s)))
	if !ValidType(t) {
		return "", fmt.Errorf("invalid item type: %q (expected folder|text|image|video|audio|pdf|link|widget)", s)
	}
	return t, nil
}

// Position is an integer grid cell scoped to the item's container. It is
// meaningful only relative to siblings sharing the same parent.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Item is a single desktop entry: a folder, a file-like document, a link or
// a widget. ParentID is the containing folder id; "" means the root desktop.
type Item struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	ParentID string   `json:"parentId,omitempty"`
	Position Position `json:"position"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Soft delete. A trashed item stays addressable by id and keeps its
	// ParentID, but is excluded from normal container listings.
	Trashed   bool       `json:"isTrashed,omitempty"`
	TrashedAt *time.Time `json:"trashedAt,omitempty"`

	// Type-specific payload. Opaque to the store: copied verbatim on
	// duplicate, never inspected otherwise.
	Content  string `json:"content,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	URL      string `json:"url,omitempty"`
	Widget   string `json:"widget,omitempty"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name      *string    `json:"name,omitempty"`
	ParentID  *string    `json:"parentId,omitempty"`
	Position  *Position  `json:"position,omitempty"`
	Trashed   *bool      `json:"isTrashed,omitempty"`
	TrashedAt *time.Time `json:"trashedAt,omitempty"`
	Content   *string    `json:"content,omitempty"`
	MimeType  *string    `json:"mimeType,omitempty"`
	URL       *string    `json:"url,omitempty"`
	Widget    *string    `json:"widget,omitempty"`

	// UpdatedAt carries the client-side timestamp bump to the remote store.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Apply merges p into the item and bumps UpdatedAt. UpdatedAt never moves
// backwards: if now is older than the current value, the current value wins.
func (it *Item) Apply(p Patch, now time.Time) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.ParentID != nil {
		it.ParentID = *p.ParentID
	}
	if p.Position != nil {
		it.Position = *p.Position
	}
	if p.Trashed != nil {
		it.Trashed = *p.Trashed
		if it.Trashed {
			if p.TrashedAt != nil {
				it.TrashedAt = p.TrashedAt
			} else {
				ts := now
				it.TrashedAt = &ts
			}
		} else {
			it.TrashedAt = nil
		}
	}
	if p.Content != nil {
		it.Content = *p.Content
	}
	if p.MimeType != nil {
		it.MimeType = *p.MimeType
	}
	if p.URL != nil {
		it.URL = *p.URL
	}
	if p.Widget != nil {
		it.Widget = *p.Widget
	}
	if now.After(it.UpdatedAt) {
		it.UpdatedAt = now
	}
}

type SortOrder string

const (
	SortByName SortOrder = "name"
	SortByDate SortOrder = "date"
	SortByKind SortOrder = "kind"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortByName, nil
	case "date":
		return SortByDate, nil
	case "kind":
		return SortByKind, nil
	default:
		return "", fmt.Errorf("invalid sort order: %q (expected name|date|kind)", s)
	}
}
