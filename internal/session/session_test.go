package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/auth"
	"mx70/internal/client"
	"mx70/internal/model"
	"mx70/internal/repository"
	"mx70/internal/service"
	"mx70/internal/upload"

	"github.com/rs/zerolog"
)

func newAPI(t *testing.T) client.API {
	t.Helper()
	store, err := repository.NewDefaultStore()
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(service.Deps{
		Store:  store,
		Tokens: auth.NewTokenManager("test-secret", time.Hour, nil),
		Logger: zerolog.Nop(),
	})
	return client.NewSimulated(svc, client.SimOptions{Policy: upload.DefaultPolicy()})
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	b := NewFileBackend(path)

	token, err := b.Load()
	if err != nil || token != "" {
		t.Fatalf("Load on missing file = %q, %v", token, err)
	}
	if err := b.Save("abc.def"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
	if token, _ := NewFileBackend(path).Load(); token != "abc.def" {
		t.Errorf("reloaded token = %q", token)
	}
	if err := b.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := b.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
	if token, _ := b.Load(); token != "" {
		t.Errorf("token after Clear = %q", token)
	}
}

func TestLoginPersistsAcrossStores(t *testing.T) {
	api := newAPI(t)
	backend := NewFileBackend(filepath.Join(t.TempDir(), "token"))
	ctx := context.Background()

	s := NewStore(backend, zerolog.Nop())
	u, err := s.Login(ctx, api, "clipper@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != model.RoleClipper || !s.Authenticated() {
		t.Fatalf("after login user=%+v authenticated=%v", u, s.Authenticated())
	}

	restored := NewStore(backend, zerolog.Nop())
	if restored.User() != nil {
		t.Error("user known before Restore")
	}
	if got := restored.Restore(ctx, api); got == nil || got.ID != u.ID {
		t.Fatalf("Restore = %+v", got)
	}
	if restored.Caller().Token != s.Token() {
		t.Error("restored caller carries a different token")
	}
}

func TestRestoreClearsInvalidToken(t *testing.T) {
	backend := NewMemoryBackend("stale-token")
	s := NewStore(backend, zerolog.Nop())

	if u := s.Restore(context.Background(), newAPI(t)); u != nil {
		t.Fatalf("Restore = %+v, want nil", u)
	}
	if s.Authenticated() {
		t.Error("still authenticated")
	}
	if token, _ := backend.Load(); token != "" {
		t.Errorf("persisted token = %q", token)
	}
}

func TestRestoreWithoutToken(t *testing.T) {
	s := NewStore(NewMemoryBackend(""), zerolog.Nop())
	if u := s.Restore(context.Background(), newAPI(t)); u != nil {
		t.Errorf("Restore = %+v", u)
	}
}

func TestLoginFailureKeepsSignedOut(t *testing.T) {
	s := NewStore(NewMemoryBackend(""), zerolog.Nop())
	_, err := s.Login(context.Background(), newAPI(t), "business@example.com", "bad")
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
	if s.Authenticated() || s.User() != nil {
		t.Error("failed login left a session")
	}
}

func TestSignupAndLogout(t *testing.T) {
	api := newAPI(t)
	s := NewStore(NewMemoryBackend(""), zerolog.Nop())
	ctx := context.Background()

	u, err := s.Signup(ctx, api, model.Registration{Email: "owner@example.com", Password: "secret1", Role: model.RoleBusiness})
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "owner@example.com" || !s.Authenticated() {
		t.Fatalf("after signup user=%+v", u)
	}

	_, err = s.Signup(ctx, api, model.Registration{Email: "owner@example.com", Password: "secret1", Role: model.RoleBusiness})
	if !errors.Is(err, apperr.ErrAlreadyRegistered) {
		t.Errorf("duplicate signup err = %v", err)
	}

	s.Logout()
	if s.Authenticated() || s.User() != nil {
		t.Error("logout left a session")
	}
}

type hookRecorder struct {
	client.API
	hook func()
}

func (h *hookRecorder) SetUnauthorizedHook(fn func()) { h.hook = fn }

func TestWatchWiresUnauthorizedHook(t *testing.T) {
	s := NewStore(NewMemoryBackend("token"), zerolog.Nop())
	rec := &hookRecorder{}
	s.Watch(rec)
	if rec.hook == nil {
		t.Fatal("hook not installed")
	}
	rec.hook()
	if s.Authenticated() {
		t.Error("hook did not clear the token")
	}
}
