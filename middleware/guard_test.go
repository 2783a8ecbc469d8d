package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	portalAuth "github.com/leanda/portalAuth"
)

type fakeAuthorizer struct {
	token string
	calls int
}

func (f *fakeAuthorizer) Authorize(_ context.Context, token string) (portalAuth.Identity, error) {
	f.calls++
	if token != f.token {
		return portalAuth.Identity{}, errors.New("unauthorized")
	}
	return portalAuth.Identity{Email: "a@x.com", FullName: "A"}, nil
}

func TestGuard(t *testing.T) {
	auth := &fakeAuthorizer{token: "good"}
	var seen portalAuth.Identity
	h := Guard(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]int{
		"Bearer good": http.StatusNoContent,
		"bearer good": http.StatusNoContent,
		"BEARER good": http.StatusNoContent,
		"Bearer bad":  http.StatusUnauthorized,
		"Bearer ":     http.StatusUnauthorized,
		"Basic abc":   http.StatusUnauthorized,
		"good":        http.StatusUnauthorized,
		"":            http.StatusUnauthorized,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("header %q: expected %d, got %d", header, want, rec.Code)
		}
		if want == http.StatusUnauthorized && rec.Body.String() != "{\"error\":\"unauthorized\"}\n" {
			t.Fatalf("header %q: unexpected body %q", header, rec.Body.String())
		}
	}
	if seen.Email != "a@x.com" {
		t.Fatalf("unexpected identity %+v", seen)
	}
}

func TestGuardNilAuthorizer(t *testing.T) {
	h := Guard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequestContextCapturesClient(t *testing.T) {
	if got := clientIP("10.1.2.3:5555"); got != "10.1.2.3" {
		t.Fatalf("unexpected ip %q", got)
	}
	if got := clientIP("not-an-addr"); got != "not-an-addr" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
