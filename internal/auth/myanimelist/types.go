package myanimelist

import "time"

// TokenData holds the OAuth token information obtained from MyAnimeList.
type TokenData struct {
	// AccessToken is the OAuth2 access token for API access
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`
	// ExpiresAt is the absolute instant the access token expires
	ExpiresAt time.Time `json:"expires_at"`
}

// tokenResponse mirrors the token endpoint JSON body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// CatalogEntry is one search hit from the catalog endpoint.
type CatalogEntry struct {
	ID         int64
	Title      string
	CoverImage string
	MediaType  string
}

// ListStatusData is the user's tracked state for one catalog entry.
type ListStatusData struct {
	Status   string
	Score    int
	Progress int
	// TotalChapters is nil when the remote reports no chapter count.
	TotalChapters *int
}

// ListStatusUpdate is the state pushed to the list status endpoint.
type ListStatusUpdate struct {
	Status   string
	Progress int
	Score    int
}
