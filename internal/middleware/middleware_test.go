package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestTokenMiddleware(t *testing.T) {
	var seen string
	h := TokenMiddleware(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TokenFromContext(r.Context())
	}))

	cases := []struct {
		header string
		status int
		token  string
	}{
		{"", http.StatusOK, ""},
		{"Bearer abc.def", http.StatusOK, "abc.def"},
		{"bearer xyz", http.StatusOK, "xyz"},
		{"Basic dXNlcg==", http.StatusUnauthorized, ""},
		{"Bearer ", http.StatusUnauthorized, ""},
	}
	for _, c := range cases {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != c.status || seen != c.token {
			t.Errorf("header %q: status=%d token=%q, want %d %q", c.header, rec.Code, seen, c.status, c.token)
		}
	}
}

func TestWriteProblem(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteProblem(rec, http.StatusConflict, "Gig is not available")
	if rec.Header().Get("Content-Type") != "application/problem+json" {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
	var body struct {
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != http.StatusConflict || body.Detail != "Gig is not available" {
		t.Errorf("body = %+v", body)
	}
}
