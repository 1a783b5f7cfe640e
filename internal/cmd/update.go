package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
)

// UpdateRequest describes the fields to change. An empty Status or a negative
// Progress or Score keeps the current remote value.
type UpdateRequest struct {
	Status   string
	Progress int
	Score    int
}

func (r UpdateRequest) validate() error {
	if r.Status != "" && !tracker.IsKnownStatus(r.Status) {
		return fmt.Errorf("unknown status %q (want one of reading, completed, on_hold, dropped, plan_to_read)", r.Status)
	}
	if r.Score > 10 {
		return fmt.Errorf("score %d is out of range 0-10", r.Score)
	}
	return nil
}

func (r UpdateRequest) partial() bool {
	return r.Status == "" || r.Progress < 0 || r.Score < 0
}

// DoUpdate writes the requested fields to the list status of id.
func DoUpdate(ctx context.Context, cfg *config.Config, options *Options, id int64, req UpdateRequest) error {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := req.validate(); err != nil {
		return err
	}
	t, err := newTracker(cfg, options)
	if err != nil {
		return err
	}
	cred, err := newAuthManager().Credential(ctx, t, cfg)
	if err != nil {
		return err
	}

	payload := tracker.UpdatePayload{Status: req.Status, Progress: req.Progress, Score: req.Score}
	if req.partial() {
		current, errFind := t.FindStatus(ctx, id, cred)
		if errFind != nil {
			return fmt.Errorf("read current status: %w", errFind)
		}
		if payload.Status == "" {
			payload.Status = current.Status
		}
		if payload.Progress < 0 {
			payload.Progress = current.Progress
		}
		if payload.Score < 0 {
			payload.Score = current.Score
		}
	}

	updated, err := t.UpdateStatus(ctx, id, payload, cred)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%8d  %s\n", id, formatStatus(updated))
	return nil
}
