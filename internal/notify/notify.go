// Package notify holds the user-feedback collaborators the desktop store
// calls out to: a non-blocking error reporter and a fire-and-forget sound
// player. Neither may fail; implementations swallow their own errors.
package notify

import "go.uber.org/zap"

type Notifier interface {
	// Error shows a user-visible, non-blocking notification.
	Error(message, title string)
}

type Sound string

const (
	SoundTrash      Sound = "trash"
	SoundEmptyTrash Sound = "empty-trash"
	SoundUpload     Sound = "upload"
)

type Player interface {
	Play(kind Sound)
}

// LogNotifier routes user-facing errors through the process logger. It is the
// default when no UI notifier is attached.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Error(message, title string) {
	log := n.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Warn("user-facing error",
		zap.String("title", title),
		zap.String("message", message))
}

// LogPlayer logs sound cues instead of playing them.
type LogPlayer struct {
	Log *zap.Logger
}

func (p LogPlayer) Play(kind Sound) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("play sound", zap.String("kind", string(kind)))
}

type NopNotifier struct{}

func (NopNotifier) Error(message, title string) {}

type NopPlayer struct{}

func (NopPlayer) Play(kind Sound) {}
