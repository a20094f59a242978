package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/http/handlers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type bindTarget struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func bindProbe() (*gin.Engine, *struct{ ok bool }) {
	state := &struct{ ok bool }{}

	r := gin.New()
	r.POST("/probe", func(ctx *gin.Context) {
		var req bindTarget
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		state.ok = true
		ctx.Status(http.StatusOK)
	})

	return r, state
}

func TestBindJSONAcceptsValidBody(t *testing.T) {
	r, state := bindProbe()

	req := httptest.NewRequest(http.MethodPost, "/probe", bytes.NewBufferString(`{"email":"a@b.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !state.ok {
		t.Fatalf("got status %d (handler ran: %v), want 200", w.Code, state.ok)
	}
}

func TestBindJSONReportsFieldErrors(t *testing.T) {
	r, state := bindProbe()

	req := httptest.NewRequest(http.MethodPost, "/probe", bytes.NewBufferString(`{"email":"not-an-email","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
	if state.ok {
		t.Fatal("handler body ran despite invalid payload")
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []handlers.FieldError `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.Error.Code != "invalid_request" {
		t.Fatalf("got code %q, want invalid_request", body.Error.Code)
	}

	got := map[string]string{}
	for _, f := range body.Error.Details.Fields {
		got[f.Field] = f.Rule
	}
	if got["email"] != "email" || got["password"] != "min" {
		t.Fatalf("unexpected field errors: %v", got)
	}
}

func TestBindJSONRejectsMalformedJSON(t *testing.T) {
	r, _ := bindProbe()

	req := httptest.NewRequest(http.MethodPost, "/probe", bytes.NewBufferString(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}
