package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds parallel status reads.
const maxConcurrentLookups = 4

// ParseIDs parses a comma separated list of catalog ids.
func ParseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid catalog id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no catalog ids given")
	}
	return ids, nil
}

// DoStatus prints the list status of each id. Lookups run concurrently and the
// output keeps the order of ids.
func DoStatus(ctx context.Context, cfg *config.Config, options *Options, ids []int64) error {
	t, err := newTracker(cfg, options)
	if err != nil {
		return err
	}
	cred, err := newAuthManager().Credential(ctx, t, cfg)
	if err != nil {
		return err
	}

	statuses := make([]*tracker.ListStatus, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			status, errFind := t.FindStatus(gctx, id, cred)
			if errFind != nil {
				return fmt.Errorf("entry %d: %w", id, errFind)
			}
			statuses[i] = status
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	for i, id := range ids {
		fmt.Fprintf(stdout, "%8d  %s\n", id, formatStatus(statuses[i]))
	}
	return nil
}

func formatStatus(s *tracker.ListStatus) string {
	total := "?"
	if s.TotalChapters != nil {
		total = strconv.Itoa(*s.TotalChapters)
	}
	return fmt.Sprintf("%-12s chapters %d/%s  score %d", s.Status, s.Progress, total, s.Score)
}
