package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/domain/pantry"
	"github.com/purechef/purechef/internal/http/handlers"
	"github.com/purechef/purechef/internal/http/middlewares"
	"github.com/purechef/purechef/internal/repo/mongodb"
)

type fakePantry struct {
	items  []pantry.Item
	nextID int
}

func (f *fakePantry) ListByUser(_ context.Context, userID string) ([]pantry.Item, error) {
	var out []pantry.Item
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakePantry) ExistsByName(_ context.Context, userID, name string) (bool, error) {
	for _, it := range f.items {
		if it.UserID == userID && strings.EqualFold(it.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePantry) Create(_ context.Context, userID, name string) (pantry.Item, error) {
	f.nextID++
	it := pantry.Item{ID: "p" + strconv.Itoa(f.nextID), UserID: userID, Name: name}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakePantry) Delete(_ context.Context, userID, id string) error {
	for i, it := range f.items {
		if it.UserID == userID && it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxUserID, userID)
		c.Next()
	}
}

func pantryRouter(store *fakePantry, userID string) *gin.Engine {
	h := handlers.NewPantryHandler(store)

	r := gin.New()
	g := r.Group("/api/pantry", asUser(userID))
	g.GET("", h.List)
	g.POST("", h.Add)
	g.DELETE("/:id", h.Delete)
	return r
}

func TestPantryAddSkipsCaseInsensitiveDuplicates(t *testing.T) {
	store := &fakePantry{}
	if _, err := store.Create(context.Background(), "u1", "EGG"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := pantryRouter(store, "u1")

	req := httptest.NewRequest(http.MethodPost, "/api/pantry", bytes.NewBufferString(`{"ingredients":["Egg","egg","Milk"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", w.Code, w.Body.String())
	}

	var body struct {
		Added   int    `json:"added"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Added != 1 {
		t.Fatalf("got added=%d, want 1 (only Milk is new)", body.Added)
	}

	items, _ := store.ListByUser(context.Background(), "u1")
	if len(items) != 2 {
		t.Fatalf("store holds %d items, want 2", len(items))
	}
}

func TestPantryAddIgnoresBlankNames(t *testing.T) {
	store := &fakePantry{}
	r := pantryRouter(store, "u1")

	req := httptest.NewRequest(http.MethodPost, "/api/pantry", bytes.NewBufferString(`{"ingredients":["  ","","Butter"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201", w.Code)
	}

	var body struct {
		Added int `json:"added"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Added != 1 {
		t.Fatalf("got added=%d, want 1", body.Added)
	}
}

func TestPantryDeleteUnknownIDIsNotFound(t *testing.T) {
	r := pantryRouter(&fakePantry{}, "u1")

	req := httptest.NewRequest(http.MethodDelete, "/api/pantry/does-not-exist", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
	if code := errorCode(t, w); code != "not_found" {
		t.Fatalf("got code %q, want not_found", code)
	}
}

func TestPantryDeleteOtherUsersItemIsNotFound(t *testing.T) {
	store := &fakePantry{}
	it, err := store.Create(context.Background(), "owner", "Egg")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := pantryRouter(store, "intruder")

	req := httptest.NewRequest(http.MethodDelete, "/api/pantry/"+it.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}

	// The owner's item is untouched.
	items, _ := store.ListByUser(context.Background(), "owner")
	if len(items) != 1 {
		t.Fatalf("owner's pantry lost items: %d left", len(items))
	}
}

func TestPantryListCountsItems(t *testing.T) {
	store := &fakePantry{}
	for _, name := range []string{"Egg", "Milk", "Flour"} {
		if _, err := store.Create(context.Background(), "u1", name); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	r := pantryRouter(store, "u1")

	req := httptest.NewRequest(http.MethodGet, "/api/pantry", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	var body struct {
		Count int           `json:"count"`
		Items []pantry.Item `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 3 || len(body.Items) != 3 {
		t.Fatalf("got count=%d len=%d, want 3", body.Count, len(body.Items))
	}
}
