package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/router-for-me/TrackerSync/sdk/tracker"
)

// stdout receives command output.
var stdout io.Writer = os.Stdout

// Options contains options shared by the tracker commands.
type Options struct {
	// Tracker selects the registered tracker. Empty means MyAnimeList.
	Tracker string

	// NoBrowser indicates whether to skip opening the browser automatically.
	NoBrowser bool

	// Prompt allows the caller to provide interactive input when needed.
	Prompt func(prompt string) (string, error)
}

func (o *Options) trackerName() string {
	if o == nil || strings.TrimSpace(o.Tracker) == "" {
		return tracker.MyAnimeListName
	}
	return strings.ToLower(strings.TrimSpace(o.Tracker))
}
