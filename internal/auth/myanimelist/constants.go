// Package myanimelist provides OAuth2 authentication and REST access for the
// MyAnimeList v2 API. It handles plain-method PKCE login sessions, authorization
// code exchange, token refresh, catalog search and per-user list status reads and writes.
package myanimelist

import "github.com/router-for-me/TrackerSync/internal/config"

// OAuth configuration defaults for MyAnimeList
const (
	ClientID            = "d2f499825d64b0213bb77e78193ccbb1"
	AuthURL             = "https://myanimelist.net/v1/oauth2/authorize"
	TokenURL            = "https://myanimelist.net/v1/oauth2/token"
	APIURL              = "https://api.myanimelist.net/v2"
	DefaultCallbackPort = 8765
	RedirectURI         = "http://localhost:8765/callback"
)

// TargetMediaType is the catalog media type kept by searches unless configured otherwise.
const TargetMediaType = "light_novel"

// Field selections sent to the catalog endpoints.
const (
	searchFields = "id,title,main_picture,media_type"
	detailFields = "id,num_chapters,my_list_status{start_date,finish_date}"
)

// StatusReading is the list status reported when the user has not tracked an entry yet.
const StatusReading = "reading"

// DefaultConfig returns the tracker configuration used when nothing is overridden.
func DefaultConfig() config.TrackerConfig {
	return config.TrackerConfig{
		ClientID:        ClientID,
		BaseOAuthURL:    AuthURL,
		TokenURL:        TokenURL,
		BaseAPIURL:      APIURL,
		TargetMediaType: TargetMediaType,
		RedirectURI:     RedirectURI,
		ReadPolicy: config.ReadPolicy{
			Search: config.FailSoft,
			Status: config.FailStrict,
		},
	}
}
