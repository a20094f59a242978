package recency

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/purechef/purechef/internal/domain/recent"
	"github.com/purechef/purechef/internal/domain/recipe"
)

// In-memory Store with the same observable semantics as the mongo repo.

type memStore struct {
	nextID int
	views  []recent.View

	failDeleteOldest bool
}

func (s *memStore) Upsert(_ context.Context, userID string, snap recipe.Generated, at time.Time) (recent.View, error) {
	for i, v := range s.views {
		if v.UserID == userID && v.Recipe.Title == snap.Title {
			s.views[i].Recipe = snap
			s.views[i].ViewedAt = at
			return s.views[i], nil
		}
	}

	s.nextID++
	v := recent.View{
		ID:       fmt.Sprintf("view-%d", s.nextID),
		UserID:   userID,
		Recipe:   snap,
		ViewedAt: at,
	}
	s.views = append(s.views, v)
	return v, nil
}

func (s *memStore) DeleteOlderThan(_ context.Context, userID string, cutoff time.Time) error {
	kept := s.views[:0]
	for _, v := range s.views {
		if v.UserID == userID && v.ViewedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, v)
	}
	s.views = kept
	return nil
}

func (s *memStore) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, v := range s.views {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) DeleteOldest(_ context.Context, userID string, n int) error {
	if s.failDeleteOldest {
		return errors.New("store down")
	}

	owned := []recent.View{}
	for _, v := range s.views {
		if v.UserID == userID {
			owned = append(owned, v)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ViewedAt.Before(owned[j].ViewedAt) })

	if n > len(owned) {
		n = len(owned)
	}
	doomed := map[string]bool{}
	for _, v := range owned[:n] {
		doomed[v.ID] = true
	}

	kept := s.views[:0]
	for _, v := range s.views {
		if !doomed[v.ID] {
			kept = append(kept, v)
		}
	}
	s.views = kept
	return nil
}

func (s *memStore) ListSince(_ context.Context, userID string, cutoff time.Time, limit int) ([]recent.View, error) {
	out := []recent.View{}
	for _, v := range s.views {
		if v.UserID == userID && !v.ViewedAt.Before(cutoff) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ViewedAt.After(out[j].ViewedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestManager(store Store, start time.Time) (*Manager, *time.Time) {
	clock := start
	m := NewManager(store)
	m.now = func() time.Time { return clock }
	return m, &clock
}

func snap(title string) recipe.Generated {
	return recipe.Generated{Title: title}
}

func TestRecordViewSameTitleUpdatesInPlace(t *testing.T) {
	store := &memStore{}
	m, clock := newTestManager(store, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := m.RecordView(ctx, "u1", snap("Pasta"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	*clock = clock.Add(10 * time.Minute)

	second, err := m.RecordView(ctx, "u1", snap("Pasta"))
	if err != nil {
		t.Fatalf("record again: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same record, got %s then %s", first.ID, second.ID)
	}
	if !second.ViewedAt.After(first.ViewedAt) {
		t.Fatal("expected timestamp to advance on re-view")
	}

	count, _ := store.CountByUser(ctx, "u1")
	if count != 1 {
		t.Fatalf("got %d records, want 1", count)
	}
}

func TestRecordViewEvictsBeyondCap(t *testing.T) {
	store := &memStore{}
	m, clock := newTestManager(store, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		*clock = clock.Add(time.Minute)
		if _, err := m.RecordView(ctx, "u1", snap(fmt.Sprintf("Dish %02d", i))); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	count, _ := store.CountByUser(ctx, "u1")
	if count != RetentionCap {
		t.Fatalf("got %d persisted records, want %d", count, RetentionCap)
	}

	// The five oldest titles must be the ones evicted.
	views, err := m.ListRecent(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, v := range views {
		for i := 0; i < 5; i++ {
			if v.Recipe.Title == fmt.Sprintf("Dish %02d", i) {
				t.Fatalf("evicted title %q still listed", v.Recipe.Title)
			}
		}
	}
}

func TestListRecentCapsPageIndependentOfRetention(t *testing.T) {
	store := &memStore{}
	m, clock := newTestManager(store, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		*clock = clock.Add(time.Minute)
		if _, err := m.RecordView(ctx, "u1", snap(fmt.Sprintf("Dish %02d", i))); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	views, err := m.ListRecent(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(views) != PageSize {
		t.Fatalf("got %d views, want page size %d", len(views), PageSize)
	}

	// Newest first.
	if views[0].Recipe.Title != "Dish 14" {
		t.Fatalf("got newest %q, want Dish 14", views[0].Recipe.Title)
	}
	for i := 1; i < len(views); i++ {
		if views[i].ViewedAt.After(views[i-1].ViewedAt) {
			t.Fatal("views not sorted newest first")
		}
	}
}

func TestRecordViewExpiresOldEntries(t *testing.T) {
	store := &memStore{}
	m, clock := newTestManager(store, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := m.RecordView(ctx, "u1", snap("Stale Soup")); err != nil {
		t.Fatalf("record: %v", err)
	}

	*clock = clock.Add(Window + time.Hour)

	if _, err := m.RecordView(ctx, "u1", snap("Fresh Salad")); err != nil {
		t.Fatalf("record: %v", err)
	}

	count, _ := store.CountByUser(ctx, "u1")
	if count != 1 {
		t.Fatalf("got %d records, want 1 (stale entry should be purged)", count)
	}

	views, _ := m.ListRecent(ctx, "u1")
	if len(views) != 1 || views[0].Recipe.Title != "Fresh Salad" {
		t.Fatalf("unexpected listing: %+v", views)
	}
}

func TestRecordViewTenantIsolation(t *testing.T) {
	store := &memStore{}
	m, clock := newTestManager(store, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		*clock = clock.Add(time.Minute)
		if _, err := m.RecordView(ctx, "u1", snap(fmt.Sprintf("Dish %02d", i))); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if _, err := m.RecordView(ctx, "u2", snap("Only Dish")); err != nil {
		t.Fatalf("record u2: %v", err)
	}

	c1, _ := store.CountByUser(ctx, "u1")
	c2, _ := store.CountByUser(ctx, "u2")

	if c1 != RetentionCap || c2 != 1 {
		t.Fatalf("got u1=%d u2=%d, want %d and 1", c1, c2, RetentionCap)
	}
}

func TestRecordViewSurfacesEvictionFailure(t *testing.T) {
	store := &memStore{failDeleteOldest: true}
	m, clock := newTestManager(store, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	var lastErr error
	for i := 0; i < RetentionCap+1; i++ {
		*clock = clock.Add(time.Minute)
		_, lastErr = m.RecordView(ctx, "u1", snap(fmt.Sprintf("Dish %02d", i)))
	}

	if lastErr == nil {
		t.Fatal("expected the over-cap view to surface the store failure")
	}

	// The upsert before the failed eviction is kept; retention is eventual,
	// not atomic.
	count, _ := store.CountByUser(ctx, "u1")
	if count != RetentionCap+1 {
		t.Fatalf("got %d records, want %d", count, RetentionCap+1)
	}
}
