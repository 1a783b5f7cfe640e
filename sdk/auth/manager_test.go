package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
)

var managerNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type stubTracker struct {
	loginCred    *tracker.Credential
	loginErr     error
	refreshCred  *tracker.Credential
	refreshErr   error
	refreshCalls int
}

func (s *stubTracker) Name() string { return "stub" }

func (s *stubTracker) Authenticate(context.Context) (*tracker.Credential, error) {
	return s.loginCred, s.loginErr
}

func (s *stubTracker) Revalidate(context.Context, *tracker.Credential) (*tracker.Credential, error) {
	s.refreshCalls++
	return s.refreshCred, s.refreshErr
}

func (s *stubTracker) Search(context.Context, string, *tracker.Credential) ([]tracker.SearchResult, error) {
	return nil, nil
}

func (s *stubTracker) FindStatus(context.Context, int64, *tracker.Credential) (*tracker.ListStatus, error) {
	return nil, nil
}

func (s *stubTracker) UpdateStatus(context.Context, int64, tracker.UpdatePayload, *tracker.Credential) (*tracker.ListStatus, error) {
	return nil, nil
}

func newTestManager(t *testing.T) (*Manager, *config.Config) {
	t.Helper()
	m := NewManager(NewFileCredentialStore(""))
	m.now = func() time.Time { return managerNow }
	return m, &config.Config{AuthDir: t.TempDir()}
}

func TestManagerLogin(t *testing.T) {
	m, cfg := newTestManager(t)
	ctx := context.Background()
	stub := &stubTracker{loginCred: &tracker.Credential{AccessToken: "a", RefreshToken: "r", ExpiresAt: managerNow.Add(30 * 24 * time.Hour)}}

	cred, path, err := m.Login(ctx, stub, cfg)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if path == "" || cred.AccessToken != "a" {
		t.Fatalf("Login() = %+v, %q", cred, path)
	}

	got, err := m.Credential(ctx, stub, cfg)
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if got.AccessToken != "a" || stub.refreshCalls != 0 {
		t.Fatalf("Credential() = %+v after %d refreshes", got, stub.refreshCalls)
	}
}

func TestManagerLogin_NotCompleted(t *testing.T) {
	m, cfg := newTestManager(t)
	_, _, err := m.Login(context.Background(), &stubTracker{}, cfg)
	if !errors.Is(err, ErrLoginNotCompleted) {
		t.Fatalf("Login() error = %v, want ErrLoginNotCompleted", err)
	}
}

func TestManagerCredential_RefreshesWithinLead(t *testing.T) {
	m, cfg := newTestManager(t)
	ctx := context.Background()
	stub := &stubTracker{
		loginCred:   &tracker.Credential{AccessToken: "old", RefreshToken: "r", ExpiresAt: managerNow.Add(10 * time.Minute)},
		refreshCred: &tracker.Credential{AccessToken: "new", RefreshToken: "r2", ExpiresAt: managerNow.Add(30 * 24 * time.Hour)},
	}
	if _, _, err := m.Login(ctx, stub, cfg); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	got, err := m.Credential(ctx, stub, cfg)
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if got.AccessToken != "new" || stub.refreshCalls != 1 {
		t.Fatalf("Credential() = %+v after %d refreshes", got, stub.refreshCalls)
	}

	stored, err := m.store.Load(ctx, "stub")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stored.AccessToken != "new" || stored.RefreshToken != "r2" {
		t.Fatalf("refreshed credential not persisted: %+v", stored)
	}
}

func TestManagerCredential_RefreshFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("still valid", func(t *testing.T) {
		m, cfg := newTestManager(t)
		stub := &stubTracker{
			loginCred:  &tracker.Credential{AccessToken: "old", RefreshToken: "r", ExpiresAt: managerNow.Add(10 * time.Minute)},
			refreshErr: errors.New("remote down"),
		}
		if _, _, err := m.Login(ctx, stub, cfg); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		got, err := m.Credential(ctx, stub, cfg)
		if err != nil || got.AccessToken != "old" {
			t.Fatalf("Credential() = %+v, %v; want stored credential", got, err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		m, cfg := newTestManager(t)
		stub := &stubTracker{
			loginCred:  &tracker.Credential{AccessToken: "old", RefreshToken: "r", ExpiresAt: managerNow.Add(-time.Minute)},
			refreshErr: errors.New("remote down"),
		}
		if _, _, err := m.Login(ctx, stub, cfg); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if _, err := m.Credential(ctx, stub, cfg); err == nil {
			t.Fatal("Credential() expected error for expired credential")
		}
	})
}

func TestManagerLogout(t *testing.T) {
	m, cfg := newTestManager(t)
	ctx := context.Background()
	stub := &stubTracker{loginCred: &tracker.Credential{AccessToken: "a", ExpiresAt: managerNow.Add(48 * time.Hour)}}
	if _, _, err := m.Login(ctx, stub, cfg); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := m.Logout(ctx, stub, cfg); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := m.Credential(ctx, stub, cfg); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Credential() after logout error = %v, want ErrNotLoggedIn", err)
	}
}

func TestRefreshLead(t *testing.T) {
	if got := RefreshLead(tracker.MyAnimeListName); got != 24*time.Hour {
		t.Fatalf("RefreshLead(myanimelist) = %v", got)
	}
	if got := RefreshLead("unknown"); got != DefaultRefreshLead {
		t.Fatalf("RefreshLead(unknown) = %v", got)
	}
}
