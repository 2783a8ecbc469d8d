package portalAuth

import (
	"errors"
	"testing"

	"github.com/leanda/portalAuth/jwt"
)

func TestAuthErrorMatching(t *testing.T) {
	cause := jwt.ErrExpired
	err := newAuthError(KindExpired, "", cause)

	if err.Error() != "unauthorized" {
		t.Fatalf("expected token failure to render as unauthorized, got %q", err.Error())
	}
	if !errors.Is(err, ErrUnauthorized) || !errors.Is(err, jwt.ErrExpired) {
		t.Fatal("expected sentinel and cause to match")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("unexpected match")
	}

	var wrapped error = err
	if KindOf(wrapped) != KindExpired {
		t.Fatalf("expected KindExpired, got %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("expected KindUnknown for foreign error")
	}
}

func TestAuthErrorText(t *testing.T) {
	cases := []struct {
		err  *AuthError
		want string
	}{
		{newAuthError(KindWeakPassword, "Password must contain at least 1 number", nil), "Password must contain at least 1 number"},
		{newAuthError(KindEmailTaken, "", nil), ErrEmailTaken.Error()},
		{newAuthError(KindMalformed, "detail", nil), "unauthorized"},
		{newAuthError(KindUnknown, "", nil), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestAuthResultHelpers(t *testing.T) {
	ok := AuthResult{}
	if !ok.OK() || ok.Kind() != KindUnknown || ok.Error() != nil {
		t.Fatal("zero result must be a success")
	}
	failed := AuthResult{Err: newAuthError(KindInvalidCredentials, "Invalid credentials", nil)}
	if failed.OK() || failed.Kind() != KindInvalidCredentials || !errors.Is(failed.Error(), ErrInvalidCredentials) {
		t.Fatal("unexpected failed result helpers")
	}
}
