package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/router-for-me/TrackerSync/sdk/tracker"
)

// DefaultRefreshLead is used for trackers that registered no lead of their own.
const DefaultRefreshLead = time.Hour

var (
	refreshLeadMu sync.RWMutex
	refreshLeads  = make(map[string]time.Duration)
)

func init() {
	// MyAnimeList access tokens live for about a month.
	RegisterRefreshLead(tracker.MyAnimeListName, 24*time.Hour)
}

// RegisterRefreshLead sets how long before expiry a stored credential is refreshed.
func RegisterRefreshLead(trackerName string, lead time.Duration) {
	refreshLeadMu.Lock()
	refreshLeads[strings.ToLower(strings.TrimSpace(trackerName))] = lead
	refreshLeadMu.Unlock()
}

// RefreshLead returns the refresh lead registered for trackerName.
func RefreshLead(trackerName string) time.Duration {
	refreshLeadMu.RLock()
	defer refreshLeadMu.RUnlock()
	if lead, ok := refreshLeads[strings.ToLower(strings.TrimSpace(trackerName))]; ok {
		return lead
	}
	return DefaultRefreshLead
}
