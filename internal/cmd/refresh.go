package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/router-for-me/TrackerSync/internal/auth/myanimelist"
	"github.com/router-for-me/TrackerSync/internal/config"
)

// DoRefresh exchanges the stored refresh token for a new credential.
func DoRefresh(ctx context.Context, cfg *config.Config, options *Options) error {
	t, err := newTracker(cfg, options)
	if err != nil {
		return err
	}
	cred, savedPath, err := newAuthManager().Refresh(ctx, t, cfg)
	if err != nil {
		if myanimelist.IsAuthenticationError(err) {
			return fmt.Errorf("%s: %w", myanimelist.GetUserFriendlyMessage(err), err)
		}
		return err
	}
	if savedPath != "" {
		fmt.Fprintf(stdout, "Authentication saved to %s\n", savedPath)
	}
	fmt.Fprintf(stdout, "%s token refreshed, valid until %s\n", t.Name(), cred.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}
