package domain

import (
	"context"
	"time"
)

// NoticeKind classifies notice presentation.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

// Notice is the outcome of the last action, shown in the viewer's
// notification slot. ID is assigned by the NoticeStore on Post.
type Notice struct {
	ID        string     `json:"id"`
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// NewNotice returns an unposted notice.
func NewNotice(kind NoticeKind, message string) Notice {
	return Notice{Kind: kind, Message: message}
}

// IsSuccess reports whether the notice reports a successful action.
func (n Notice) IsSuccess() bool {
	return n.Kind == NoticeSuccess
}

// NoticeStore holds at most one notice per viewer.
type NoticeStore interface {
	// Post replaces the viewer's notice, assigning a fresh ID and expiry, and
	// schedules its dismissal.
	Post(ctx context.Context, viewer string, n Notice) (Notice, error)
	// Current returns the viewer's live notice.
	Current(ctx context.Context, viewer string) (Notice, bool, error)
	// Dismiss clears the slot only if id still names the displayed notice.
	Dismiss(ctx context.Context, viewer, id string) (bool, error)
}
