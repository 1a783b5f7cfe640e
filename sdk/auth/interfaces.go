// Package auth persists tracker credentials on behalf of a host and keeps them fresh:
// it runs logins through a tracker, stores the result and refreshes stored credentials
// before they expire.
package auth

import (
	"context"
	"errors"

	"github.com/router-for-me/TrackerSync/sdk/tracker"
)

// ErrNotLoggedIn is returned when no credential is stored for a tracker.
var ErrNotLoggedIn = errors.New("tracker auth: not logged in")

// CredentialStore persists one credential per tracker.
type CredentialStore interface {
	// Save writes the credential and returns the location it was written to.
	Save(ctx context.Context, trackerName string, cred *tracker.Credential) (string, error)
	// Load returns the stored credential or ErrNotLoggedIn.
	Load(ctx context.Context, trackerName string) (*tracker.Credential, error)
	// Delete removes the stored credential. Deleting a missing credential is not an error.
	Delete(ctx context.Context, trackerName string) error
}
