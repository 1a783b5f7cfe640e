package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/router-for-me/TrackerSync/internal/config"
)

// DoSearch prints catalog entries matching query.
func DoSearch(ctx context.Context, cfg *config.Config, options *Options, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("search query is empty")
	}
	t, err := newTracker(cfg, options)
	if err != nil {
		return err
	}
	cred, err := newAuthManager().Credential(ctx, t, cfg)
	if err != nil {
		return err
	}

	results, err := t.Search(ctx, query, cred)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(stdout, "No results for %q\n", query)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(stdout, "%8d  %s\n", r.ID, r.Title)
	}
	return nil
}
