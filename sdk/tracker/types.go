package tracker

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the token bundle a tracker hands back after login or refresh.
// The host persists it and passes it to every subsequent operation.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is no longer valid at now.
func (c *Credential) Expired(now time.Time) bool {
	return c.ExpiresWithin(now, 0)
}

// ExpiresWithin reports whether the access token expires before now+lead.
func (c *Credential) ExpiresWithin(now time.Time, lead time.Duration) bool {
	if c == nil || c.AccessToken == "" {
		return true
	}
	return !now.Add(lead).Before(c.ExpiresAt)
}

// OAuth2Token converts the credential to a bearer token.
func (c *Credential) OAuth2Token() *oauth2.Token {
	if c == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.ExpiresAt,
	}
}

// SearchResult is one catalog entry matching a search query.
type SearchResult struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CoverImage string `json:"cover_image,omitempty"`
}

// ListStatus is the user's tracked state for one catalog entry.
type ListStatus struct {
	Status   string `json:"status"`
	Score    int    `json:"score"`
	Progress int    `json:"progress"`
	// TotalChapters is nil when the remote does not know the chapter count.
	TotalChapters *int `json:"total_chapters,omitempty"`
}

// UpdatePayload is the state written back to the remote list.
type UpdatePayload struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Score    int    `json:"score"`
}

// Reading list statuses accepted by the remote.
const (
	StatusReading    = "reading"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
	StatusDropped    = "dropped"
	StatusPlanToRead = "plan_to_read"
)

var knownStatuses = map[string]struct{}{
	StatusReading:    {},
	StatusCompleted:  {},
	StatusOnHold:     {},
	StatusDropped:    {},
	StatusPlanToRead: {},
}

// IsKnownStatus reports whether status is one of the list statuses above.
func IsKnownStatus(status string) bool {
	_, ok := knownStatuses[status]
	return ok
}
