package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/router-for-me/TrackerSync/internal/auth/myanimelist"
	"github.com/router-for-me/TrackerSync/internal/browser"
	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/router-for-me/TrackerSync/internal/logging"
	"github.com/router-for-me/TrackerSync/internal/misc"
	log "github.com/sirupsen/logrus"
)

// MyAnimeListName is the registry name of the MyAnimeList tracker.
const MyAnimeListName = "myanimelist"

func init() {
	Register(MyAnimeListName, func(cfg config.TrackerConfig, deps Dependencies) (Tracker, error) {
		t, err := NewMyAnimeList(cfg, deps)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}

// MyAnimeList implements Tracker on top of the MyAnimeList v2 API.
type MyAnimeList struct {
	cfg     config.TrackerConfig
	auth    *myanimelist.MALAuth
	client  *myanimelist.MALClient
	browser Browser
}

// NewMyAnimeList builds the tracker. Empty configuration fields take the public
// MyAnimeList defaults; a nil Browser opens the system browser with a loopback callback.
func NewMyAnimeList(cfg config.TrackerConfig, deps Dependencies) (*MyAnimeList, error) {
	cfg = cfg.WithDefaults(myanimelist.DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultRequestTimeout}
	}
	b := deps.Browser
	if b == nil {
		b = browser.NewLoopbackSession(false, nil)
	}
	return &MyAnimeList{
		cfg:     cfg,
		auth:    myanimelist.NewMALAuth(cfg, httpClient, deps.Now),
		client:  myanimelist.NewMALClient(cfg, httpClient),
		browser: b,
	}, nil
}

func (t *MyAnimeList) Name() string {
	return MyAnimeListName
}

func (t *MyAnimeList) logger(ctx context.Context) *log.Entry {
	return logging.FromContext(ctx).WithField("tracker", MyAnimeListName)
}

// Authenticate runs one PKCE login attempt in the browser and exchanges the returned
// authorization code for a credential.
func (t *MyAnimeList) Authenticate(ctx context.Context) (*Credential, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := myanimelist.NewLoginSession()
	if err != nil {
		return nil, fmt.Errorf("myanimelist login: %w", err)
	}
	ctx = logging.WithSessionID(ctx, session.ID)
	entry := t.logger(ctx)

	authURL, err := t.auth.BuildAuthURL(session)
	if err != nil {
		return nil, fmt.Errorf("myanimelist authorization url generation failed: %w", err)
	}

	result, err := t.browser.OpenAuthSession(ctx, authURL, t.cfg.RedirectURI)
	if err != nil {
		if errors.Is(err, browser.ErrPortInUse) {
			return nil, myanimelist.NewAuthenticationError(myanimelist.ErrPortInUse, err)
		}
		return nil, myanimelist.NewAuthenticationError(myanimelist.ErrServerStartFailed, err)
	}
	if !result.Success() {
		if result != nil && result.Error != "" {
			oauthErr := myanimelist.NewOAuthError(result.Error, result.ErrorDescription, http.StatusBadRequest)
			entry.WithFields(log.Fields{"result": result.Type, "error": oauthErr}).Info(myanimelist.GetUserFriendlyMessage(oauthErr))
			return nil, nil
		}
		fields := log.Fields{}
		if result != nil {
			fields["result"] = result.Type
		}
		entry.WithFields(fields).Info("myanimelist login not completed")
		return nil, nil
	}

	code := misc.ExtractAuthorizationCode(result.URL)
	if code == "" {
		entry.Warn("myanimelist redirect carried no authorization code")
		return nil, nil
	}

	entry.Debug("authorization code received; exchanging for tokens")
	tokens, err := t.auth.ExchangeCodeForTokens(ctx, code, session)
	if err != nil {
		return nil, myanimelist.NewAuthenticationError(myanimelist.ErrCodeExchangeFailed, err)
	}

	entry.Info("myanimelist login succeeded")
	return credentialFromTokens(tokens), nil
}

// Revalidate exchanges the credential's refresh token for a new credential.
func (t *MyAnimeList) Revalidate(ctx context.Context, cred *Credential) (*Credential, error) {
	if cred == nil {
		return nil, fmt.Errorf("myanimelist token refresh: credential is required")
	}
	tokens, err := t.auth.RefreshTokens(ctx, cred.RefreshToken)
	if err != nil {
		return nil, myanimelist.NewAuthenticationError(myanimelist.ErrTokenRefreshFailed, err)
	}
	t.logger(ctx).Debug("myanimelist token refreshed")
	return credentialFromTokens(tokens), nil
}

// Search returns catalog entries of the configured media type matching query.
func (t *MyAnimeList) Search(ctx context.Context, query string, cred *Credential) ([]SearchResult, error) {
	if cred == nil {
		return nil, fmt.Errorf("myanimelist search: credential is required")
	}
	entry := t.logger(ctx).WithField("query", query)

	entries, err := t.client.SearchCatalog(ctx, cred.OAuth2Token(), query)
	if err != nil {
		if myanimelist.IsStatusError(err) && t.cfg.ReadPolicy.SearchSoft() {
			entry.WithField("error", err).Warn("myanimelist search failed; returning no results")
			return []SearchResult{}, nil
		}
		return nil, err
	}

	results := make([]SearchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, SearchResult{ID: e.ID, Title: e.Title, CoverImage: e.CoverImage})
	}
	entry.WithField("results", len(results)).Debug("myanimelist search completed")
	return results, nil
}

// FindStatus returns the user's list status for the catalog entry id.
func (t *MyAnimeList) FindStatus(ctx context.Context, id int64, cred *Credential) (*ListStatus, error) {
	if cred == nil {
		return nil, fmt.Errorf("myanimelist list status: credential is required")
	}
	entry := t.logger(ctx).WithField("entry_id", id)

	data, err := t.client.FetchListStatus(ctx, cred.OAuth2Token(), id)
	if err != nil {
		if myanimelist.IsStatusError(err) && t.cfg.ReadPolicy.StatusSoft() {
			entry.WithField("error", err).Warn("myanimelist list status failed; returning defaults")
			return listStatusFromData(myanimelist.DefaultListStatus()), nil
		}
		return nil, err
	}
	entry.WithField("status", data.Status).Debug("myanimelist list status fetched")
	return listStatusFromData(data), nil
}

// UpdateStatus writes payload to the user's list and returns the state the remote echoed.
func (t *MyAnimeList) UpdateStatus(ctx context.Context, id int64, payload UpdatePayload, cred *Credential) (*ListStatus, error) {
	if cred == nil {
		return nil, fmt.Errorf("myanimelist list update: credential is required")
	}
	data, err := t.client.UpdateListStatus(ctx, cred.OAuth2Token(), id, myanimelist.ListStatusUpdate{
		Status:   payload.Status,
		Progress: payload.Progress,
		Score:    payload.Score,
	})
	if err != nil {
		return nil, err
	}
	t.logger(ctx).WithFields(log.Fields{"entry_id": id, "status": data.Status}).Info("myanimelist list status updated")
	return listStatusFromData(data), nil
}

func credentialFromTokens(tokens *myanimelist.TokenData) *Credential {
	return &Credential{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}
}

func listStatusFromData(data *myanimelist.ListStatusData) *ListStatus {
	return &ListStatus{
		Status:        data.Status,
		Score:         data.Score,
		Progress:      data.Progress,
		TotalChapters: data.TotalChapters,
	}
}
