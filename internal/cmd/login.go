package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/router-for-me/TrackerSync/internal/auth/myanimelist"
	"github.com/router-for-me/TrackerSync/internal/config"
	sdkAuth "github.com/router-for-me/TrackerSync/sdk/auth"
	log "github.com/sirupsen/logrus"
)

// DoLogin runs the tracker's browser login and saves the credential to the auth directory.
// A cancelled or incomplete login leaves the user logged out without an error. Other
// failures are returned with a user-facing message. They keep the wrapped
// *myanimelist.AuthenticationError so the caller can pick an exit code.
func DoLogin(ctx context.Context, cfg *config.Config, options *Options) error {
	t, err := newTracker(cfg, options)
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}

	_, savedPath, err := newAuthManager().Login(ctx, t, cfg)
	if err != nil {
		if errors.Is(err, sdkAuth.ErrLoginNotCompleted) {
			fmt.Fprintln(stdout, "Not logged in: the login was cancelled or returned no authorization code.")
			return nil
		}
		var authErr *myanimelist.AuthenticationError
		if errors.As(err, &authErr) {
			log.Debugf("login error: %v", authErr)
			return fmt.Errorf("%s: %w", myanimelist.GetUserFriendlyMessage(authErr), err)
		}
		return fmt.Errorf("%s authentication failed: %w", t.Name(), err)
	}

	if savedPath != "" {
		fmt.Fprintf(stdout, "Authentication saved to %s\n", savedPath)
	}
	fmt.Fprintf(stdout, "%s authentication successful!\n", t.Name())
	return nil
}

// DoLogout removes the stored credential.
func DoLogout(ctx context.Context, cfg *config.Config, options *Options) error {
	t, err := newTracker(cfg, options)
	if err != nil {
		return err
	}
	if err = newAuthManager().Logout(ctx, t, cfg); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Logged out of %s\n", t.Name())
	return nil
}
