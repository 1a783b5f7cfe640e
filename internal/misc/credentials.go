// Package misc holds small helpers shared by the login flow and the credential store:
// OAuth redirect parsing and consistent credential-persistence messages.
package misc

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// LogSavingCredentials emits a consistent message when persisting a tracker credential.
func LogSavingCredentials(tracker, path string) {
	if path == "" {
		return
	}
	// Use filepath.Clean so output remains stable even if callers pass redundant separators.
	fmt.Printf("Saving %s credentials to %s\n", tracker, filepath.Clean(path))
	log.WithField("tracker", tracker).Debugf("credential file %s", filepath.Clean(path))
}
