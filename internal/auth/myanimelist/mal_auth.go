package myanimelist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/router-for-me/TrackerSync/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// MALAuth handles the MyAnimeList OAuth2 flow.
// It builds authorization URLs, exchanges authorization codes for tokens and refreshes
// access tokens. It holds no per-login state; that lives in LoginSession.
type MALAuth struct {
	httpClient *http.Client
	cfg        config.TrackerConfig
	now        func() time.Time
}

// NewMALAuth creates a new MyAnimeList auth service for the given tracker configuration.
// A nil httpClient falls back to http.DefaultClient; a nil now falls back to time.Now.
func NewMALAuth(cfg config.TrackerConfig, httpClient *http.Client, now func() time.Time) *MALAuth {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if now == nil {
		now = time.Now
	}
	return &MALAuth{
		httpClient: httpClient,
		cfg:        cfg.WithDefaults(DefaultConfig()),
		now:        now,
	}
}

// oauthConfig describes the remote's endpoints for golang.org/x/oauth2.
func (o *MALAuth) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID: o.cfg.ClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:   o.cfg.BaseOAuthURL,
			TokenURL:  o.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// BuildAuthURL creates the authorization URL for a login session. The session verifier
// is sent as the code challenge using the plain method.
func (o *MALAuth) BuildAuthURL(session *LoginSession) (string, error) {
	if session == nil || session.Verifier == "" {
		return "", fmt.Errorf("login session with verifier is required")
	}
	return o.oauthConfig().AuthCodeURL("",
		oauth2.SetAuthURLParam("code_challenge_method", "plain"),
		oauth2.SetAuthURLParam("code_challenge", session.Verifier),
	), nil
}

// ExchangeCodeForTokens exchanges an authorization code for access and refresh tokens
// using the verifier of the session that produced the authorization URL.
func (o *MALAuth) ExchangeCodeForTokens(ctx context.Context, code string, session *LoginSession) (*TokenData, error) {
	if session == nil || session.Verifier == "" {
		return nil, fmt.Errorf("login session with verifier is required for token exchange")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("authorization code is required")
	}

	form := encodeForm(
		formField{"client_id", o.cfg.ClientID},
		formField{"grant_type", "authorization_code"},
		formField{"code", code},
		formField{"code_verifier", session.Verifier},
	)
	body, err := do(ctx, o.httpClient, "token exchange", http.MethodPost, o.cfg.TokenURL, nil, form, status2xx)
	if err != nil {
		return nil, err
	}
	return o.parseTokenResponse("token exchange", body)
}

// RefreshTokens exchanges a refresh token for a new token set.
// Only grant_type and refresh_token are sent; the remote does not require client_id here.
func (o *MALAuth) RefreshTokens(ctx context.Context, refreshToken string) (*TokenData, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	form := encodeForm(
		formField{"grant_type", "refresh_token"},
		formField{"refresh_token", refreshToken},
	)
	body, err := do(ctx, o.httpClient, "token refresh", http.MethodPost, o.cfg.TokenURL, nil, form, status2xx)
	if err != nil {
		return nil, err
	}
	return o.parseTokenResponse("token refresh", body)
}

// parseTokenResponse converts the token endpoint body into TokenData.
// expires_in is a lifetime in seconds relative to the current clock.
func (o *MALAuth) parseTokenResponse(op string, body []byte) (*TokenData, error) {
	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("myanimelist %s: decode response: %w", op, err)
	}
	if strings.TrimSpace(tokenResp.AccessToken) == "" {
		return nil, fmt.Errorf("myanimelist %s: response missing access_token", op)
	}
	if tokenResp.TokenType != "" && !strings.EqualFold(tokenResp.TokenType, "bearer") {
		log.Warnf("myanimelist %s: unexpected token type %q", op, tokenResp.TokenType)
	}

	return &TokenData{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    o.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}
