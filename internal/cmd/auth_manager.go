package cmd

import (
	"github.com/router-for-me/TrackerSync/internal/browser"
	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/router-for-me/TrackerSync/internal/util"
	sdkAuth "github.com/router-for-me/TrackerSync/sdk/auth"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
)

// newAuthManager creates an authentication manager backed by the globally registered
// credential store.
func newAuthManager() *sdkAuth.Manager {
	return sdkAuth.NewManager(sdkAuth.GetCredentialStore())
}

// newTracker builds the selected tracker with a proxy-aware HTTP client and, for
// logins, a loopback browser session.
func newTracker(cfg *config.Config, options *Options) (tracker.Tracker, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	name := options.trackerName()
	promptFn := options.Prompt
	if promptFn == nil {
		promptFn = defaultPrompt()
	}
	deps := tracker.Dependencies{
		HTTPClient: util.NewHTTPClient(&cfg.SDKConfig),
		Browser:    browser.NewLoopbackSession(options.NoBrowser, promptFn),
	}
	return tracker.New(name, cfg.Tracker(name), deps)
}
