package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/router-for-me/TrackerSync/internal/util"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
	log "github.com/sirupsen/logrus"
)

// ErrLoginNotCompleted is returned when the user abandoned the login or the redirect
// carried no authorization code.
var ErrLoginNotCompleted = errors.New("tracker auth: login not completed")

// Manager coordinates tracker logins and refreshes with a credential store.
type Manager struct {
	store CredentialStore
	now   func() time.Time
}

// NewManager constructs a manager with the provided credential store.
// If store is nil, the caller must set it later using SetStore.
func NewManager(store CredentialStore) *Manager {
	return &Manager{store: store, now: time.Now}
}

// SetStore updates the credential store used for persistence.
func (m *Manager) SetStore(store CredentialStore) {
	m.store = store
}

func (m *Manager) prepareStore(cfg *config.Config) error {
	if m.store == nil {
		return fmt.Errorf("tracker auth: credential store is not configured")
	}
	if cfg == nil {
		return nil
	}
	if dirSetter, ok := m.store.(interface{ SetBaseDir(string) }); ok {
		dir, err := util.ResolveAuthDir(cfg.AuthDir)
		if err != nil {
			return err
		}
		dirSetter.SetBaseDir(dir)
	}
	return nil
}

// Login runs the tracker's interactive login and persists the resulting credential.
// It returns ErrLoginNotCompleted when the tracker produced no credential.
func (m *Manager) Login(ctx context.Context, t tracker.Tracker, cfg *config.Config) (*tracker.Credential, string, error) {
	if t == nil {
		return nil, "", fmt.Errorf("tracker auth: tracker is nil")
	}
	if err := m.prepareStore(cfg); err != nil {
		return nil, "", err
	}

	cred, err := t.Authenticate(ctx)
	if err != nil {
		return nil, "", err
	}
	if cred == nil {
		return nil, "", ErrLoginNotCompleted
	}

	savedPath, err := m.store.Save(ctx, t.Name(), cred)
	if err != nil {
		return cred, "", err
	}
	return cred, savedPath, nil
}

// Refresh exchanges the stored refresh token for a new credential and persists it.
func (m *Manager) Refresh(ctx context.Context, t tracker.Tracker, cfg *config.Config) (*tracker.Credential, string, error) {
	if t == nil {
		return nil, "", fmt.Errorf("tracker auth: tracker is nil")
	}
	if err := m.prepareStore(cfg); err != nil {
		return nil, "", err
	}
	stored, err := m.store.Load(ctx, t.Name())
	if err != nil {
		return nil, "", err
	}
	return m.refresh(ctx, t, stored)
}

func (m *Manager) refresh(ctx context.Context, t tracker.Tracker, stored *tracker.Credential) (*tracker.Credential, string, error) {
	cred, err := t.Revalidate(ctx, stored)
	if err != nil {
		return nil, "", err
	}
	savedPath, err := m.store.Save(ctx, t.Name(), cred)
	if err != nil {
		return cred, "", err
	}
	return cred, savedPath, nil
}

// Credential returns a usable credential for t. A stored credential that expires within
// the tracker's refresh lead is refreshed first; if that refresh fails the stored
// credential is still returned while it has not actually expired.
func (m *Manager) Credential(ctx context.Context, t tracker.Tracker, cfg *config.Config) (*tracker.Credential, error) {
	if t == nil {
		return nil, fmt.Errorf("tracker auth: tracker is nil")
	}
	if err := m.prepareStore(cfg); err != nil {
		return nil, err
	}
	stored, err := m.store.Load(ctx, t.Name())
	if err != nil {
		return nil, err
	}

	now := m.now()
	if !stored.ExpiresWithin(now, RefreshLead(t.Name())) {
		return stored, nil
	}

	entry := log.WithField("tracker", t.Name())
	entry.Debug("stored credential is due for refresh")
	cred, _, err := m.refresh(ctx, t, stored)
	if err != nil {
		if !stored.Expired(now) {
			entry.WithField("error", err).Warn("credential refresh failed; using stored credential")
			return stored, nil
		}
		return nil, err
	}
	return cred, nil
}

// Logout deletes the stored credential for t.
func (m *Manager) Logout(ctx context.Context, t tracker.Tracker, cfg *config.Config) error {
	if t == nil {
		return fmt.Errorf("tracker auth: tracker is nil")
	}
	if err := m.prepareStore(cfg); err != nil {
		return err
	}
	return m.store.Delete(ctx, t.Name())
}
