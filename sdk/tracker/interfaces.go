// Package tracker defines the host-facing contract for remote progress trackers and
// ships the MyAnimeList implementation.
package tracker

import (
	"context"
	"net/http"
	"time"

	"github.com/router-for-me/TrackerSync/internal/browser"
	"github.com/router-for-me/TrackerSync/internal/config"
)

// Tracker is a remote service that stores the user's reading list.
type Tracker interface {
	Name() string
	// Authenticate runs an interactive login. It returns (nil, nil) when the user
	// abandons the login or the redirect carries no authorization code.
	Authenticate(ctx context.Context) (*Credential, error)
	Revalidate(ctx context.Context, cred *Credential) (*Credential, error)
	Search(ctx context.Context, query string, cred *Credential) ([]SearchResult, error)
	FindStatus(ctx context.Context, id int64, cred *Credential) (*ListStatus, error)
	UpdateStatus(ctx context.Context, id int64, payload UpdatePayload, cred *Credential) (*ListStatus, error)
}

// AuthSessionResult is the outcome of an interactive browser session.
type AuthSessionResult = browser.Result

// Browser session outcomes.
const (
	ResultSuccess = browser.ResultSuccess
	ResultCancel  = browser.ResultCancel
	ResultDismiss = browser.ResultDismiss
)

// Browser runs an interactive authorization session for authURL and reports the
// redirect it ended on.
type Browser interface {
	OpenAuthSession(ctx context.Context, authURL, redirectURI string) (*AuthSessionResult, error)
}

// Dependencies are the host capabilities a tracker is built with. Zero fields fall
// back to defaults.
type Dependencies struct {
	HTTPClient *http.Client
	Browser    Browser
	Now        func() time.Time
}

// Factory builds a tracker for one configuration.
type Factory func(cfg config.TrackerConfig, deps Dependencies) (Tracker, error)
