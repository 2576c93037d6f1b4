package repositories

import (
	"context"
	"time"

	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// SessionStore is the opaque key-value session collaborator. The core only
// ever addresses sessions by their opaque id; expiry is a fixed max-age set
// at creation.
type SessionStore interface {
	// Put stores the session payload under its SID with the given max-age.
	Put(ctx context.Context, sess domain.Session, ttl time.Duration) error

	// Get retrieves a session payload, apperrors.ErrNotFound when absent
	// or expired.
	Get(ctx context.Context, sid string) (*domain.Session, error)

	// Touch updates the session's last-activity timestamp.
	Touch(ctx context.Context, sid string, at time.Time) error

	// Delete removes a single session. Deleting an absent session returns
	// apperrors.ErrNotFound.
	Delete(ctx context.Context, sid string) error

	// ListByUser returns the user's live sessions. Backed by a per-user
	// index, not a scan over every session.
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)

	// DeleteByUser terminates all of a user's sessions and reports how
	// many were removed.
	DeleteByUser(ctx context.Context, userID string) (int, error)

	// InvalidateSessionsForRole terminates all sessions whose cached role
	// matches, forcing re-login after a grant change. Explicit hook; the
	// cached capability snapshot is otherwise never refreshed.
	InvalidateSessionsForRole(ctx context.Context, roleName string) (int, error)
}
