// Package recency implements the retention policy for recently-viewed
// recipes: upsert by title, a 48-hour expiry window, and a hard cap on how
// many records a user may accumulate.
package recency

import (
	"context"
	"time"

	"github.com/purechef/purechef/internal/domain/recent"
	"github.com/purechef/purechef/internal/domain/recipe"
)

const (
	// Window is how long a view stays visible and persisted.
	Window = 48 * time.Hour
	// RetentionCap is the maximum number of records persisted per user.
	RetentionCap = 20
	// PageSize is the maximum number of records a list call returns,
	// independent of RetentionCap.
	PageSize = 10
)

// Store is the persistence the manager runs its policy against.
type Store interface {
	Upsert(ctx context.Context, userID string, snap recipe.Generated, at time.Time) (recent.View, error)
	DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) error
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteOldest(ctx context.Context, userID string, n int) error
	ListSince(ctx context.Context, userID string, cutoff time.Time, limit int) ([]recent.View, error)
}

type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// RecordView upserts the snapshot and then applies both eviction rules.
// Eviction runs inline on every view, not on a schedule. Eviction is not
// transactional with the upsert; a failure part-way through leaves the
// invariant to be restored by the next view.
func (m *Manager) RecordView(ctx context.Context, userID string, snap recipe.Generated) (recent.View, error) {
	now := m.now().UTC()

	view, err := m.store.Upsert(ctx, userID, snap, now)
	if err != nil {
		return recent.View{}, err
	}

	if err := m.store.DeleteOlderThan(ctx, userID, now.Add(-Window)); err != nil {
		return recent.View{}, err
	}

	count, err := m.store.CountByUser(ctx, userID)
	if err != nil {
		return recent.View{}, err
	}

	if count > RetentionCap {
		if err := m.store.DeleteOldest(ctx, userID, count-RetentionCap); err != nil {
			return recent.View{}, err
		}
	}

	return view, nil
}

// ListRecent returns views inside the window, newest first, capped at
// PageSize even though up to RetentionCap records may be persisted.
func (m *Manager) ListRecent(ctx context.Context, userID string) ([]recent.View, error) {
	cutoff := m.now().UTC().Add(-Window)
	return m.store.ListSince(ctx, userID, cutoff, PageSize)
}
