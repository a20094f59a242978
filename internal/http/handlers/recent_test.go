package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/domain/recent"
	"github.com/purechef/purechef/internal/domain/recipe"
	"github.com/purechef/purechef/internal/http/handlers"
	"github.com/purechef/purechef/internal/recency"
)

type fakeRecentStore struct {
	views  []recent.View
	nextID int
}

func (f *fakeRecentStore) Upsert(_ context.Context, userID string, snap recipe.Generated, at time.Time) (recent.View, error) {
	for i, v := range f.views {
		if v.UserID == userID && v.Recipe.Title == snap.Title {
			f.views[i].Recipe = snap
			f.views[i].ViewedAt = at
			return f.views[i], nil
		}
	}

	f.nextID++
	v := recent.View{ID: "r" + strconv.Itoa(f.nextID), UserID: userID, Recipe: snap, ViewedAt: at}
	f.views = append(f.views, v)
	return v, nil
}

func (f *fakeRecentStore) DeleteOlderThan(_ context.Context, userID string, cutoff time.Time) error {
	kept := f.views[:0]
	for _, v := range f.views {
		if v.UserID == userID && v.ViewedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, v)
	}
	f.views = kept
	return nil
}

func (f *fakeRecentStore) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, v := range f.views {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRecentStore) DeleteOldest(_ context.Context, userID string, n int) error {
	var mine []recent.View
	for _, v := range f.views {
		if v.UserID == userID {
			mine = append(mine, v)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].ViewedAt.Before(mine[j].ViewedAt) })

	doomed := map[string]bool{}
	for i := 0; i < n && i < len(mine); i++ {
		doomed[mine[i].ID] = true
	}

	kept := f.views[:0]
	for _, v := range f.views {
		if !doomed[v.ID] {
			kept = append(kept, v)
		}
	}
	f.views = kept
	return nil
}

func (f *fakeRecentStore) ListSince(_ context.Context, userID string, cutoff time.Time, limit int) ([]recent.View, error) {
	var out []recent.View
	for _, v := range f.views {
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

func recentRouter(store *fakeRecentStore) *gin.Engine {
	h := handlers.NewRecentHandler(recency.NewManager(store))

	r := gin.New()
	g := r.Group("/api/recent-recipes", asUser("u1"))
	g.GET("", h.ListRecent)
	g.POST("", h.RecordView)
	return r
}

func TestRecordViewRequiresTitle(t *testing.T) {
	r := recentRouter(&fakeRecentStore{})

	w := postJSON(t, r, "/api/recent-recipes", `{"recipe":{"description":"no title"}}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestRecordViewUpsertsByTitle(t *testing.T) {
	store := &fakeRecentStore{}
	r := recentRouter(store)

	first := postJSON(t, r, "/api/recent-recipes", `{"recipe":{"title":"Shakshuka","calories":"450 kcal"}}`)
	second := postJSON(t, r, "/api/recent-recipes", `{"recipe":{"title":"Shakshuka","calories":"500 kcal"}}`)

	for name, w := range map[string]*httptest.ResponseRecorder{"first": first, "second": second} {
		if w.Code != http.StatusOK {
			t.Fatalf("%s view: got status %d, want 200: %s", name, w.Code, w.Body.String())
		}
	}

	if len(store.views) != 1 {
		t.Fatalf("store holds %d views, want 1 after re-view", len(store.views))
	}
	if store.views[0].Recipe.Calories != "500 kcal" {
		t.Fatalf("snapshot not refreshed: %q", store.views[0].Recipe.Calories)
	}
}

func TestListRecentReturnsNewestFirstPage(t *testing.T) {
	store := &fakeRecentStore{}
	now := time.Now().UTC()
	for i := 0; i < 15; i++ {
		_, err := store.Upsert(context.Background(), "u1", recipe.Generated{Title: "Dish " + strconv.Itoa(i)}, now.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	r := recentRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/recent-recipes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	var body struct {
		Count         int           `json:"count"`
		RecentRecipes []recent.View `json:"recentRecipes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.Count != recency.PageSize || len(body.RecentRecipes) != recency.PageSize {
		t.Fatalf("got %d views, want page of %d", len(body.RecentRecipes), recency.PageSize)
	}
	if body.RecentRecipes[0].Recipe.Title != "Dish 14" {
		t.Fatalf("newest first violated: got %q", body.RecentRecipes[0].Recipe.Title)
	}
}
