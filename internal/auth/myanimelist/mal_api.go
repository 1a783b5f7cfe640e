package myanimelist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/router-for-me/TrackerSync/internal/config"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// MALClient performs bearer-authenticated catalog and list status calls.
// Every method is a single round trip; nothing is cached.
type MALClient struct {
	httpClient *http.Client
	cfg        config.TrackerConfig
}

// NewMALClient creates an API client for the given tracker configuration.
func NewMALClient(cfg config.TrackerConfig, httpClient *http.Client) *MALClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MALClient{
		httpClient: httpClient,
		cfg:        cfg.WithDefaults(DefaultConfig()),
	}
}

// SearchCatalog queries the catalog by free-text title and keeps entries whose media
// type matches the configured target, in the order returned by the remote.
// A non-200 status is returned as *StatusError; callers decide whether to soft-fail.
func (c *MALClient) SearchCatalog(ctx context.Context, token *oauth2.Token, query string) ([]CatalogEntry, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", searchFields)
	if c.cfg.SearchLimit > 0 {
		params.Set("limit", strconv.Itoa(c.cfg.SearchLimit))
	}
	endpoint := c.cfg.BaseAPIURL + "/manga?" + params.Encode()

	body, err := do(ctx, c.httpClient, "search", http.MethodGet, endpoint, token, "", statusOK)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("myanimelist search: decode response: invalid JSON")
	}

	target := strings.TrimSpace(c.cfg.TargetMediaType)
	entries := make([]CatalogEntry, 0)
	gjson.GetBytes(body, "data").ForEach(func(_, item gjson.Result) bool {
		node := item.Get("node")
		mediaType := node.Get("media_type").String()
		if target != "" && mediaType != target {
			return true
		}
		entries = append(entries, CatalogEntry{
			ID:         node.Get("id").Int(),
			Title:      node.Get("title").String(),
			CoverImage: node.Get("main_picture.large").String(),
			MediaType:  mediaType,
		})
		return true
	})
	return entries, nil
}

// FetchListStatus reads the user's list status for one catalog entry. When the user has
// not tracked the entry, status defaults to StatusReading and score/progress to zero.
// TotalChapters always mirrors the remote's num_chapters.
func (c *MALClient) FetchListStatus(ctx context.Context, token *oauth2.Token, id int64) (*ListStatusData, error) {
	params := url.Values{}
	params.Set("fields", detailFields)
	endpoint := fmt.Sprintf("%s/manga/%d?%s", c.cfg.BaseAPIURL, id, params.Encode())

	body, err := do(ctx, c.httpClient, "list status", http.MethodGet, endpoint, token, "", statusOK)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("myanimelist list status: decode response: invalid JSON")
	}

	data := DefaultListStatus()
	data.TotalChapters = optionalInt(gjson.GetBytes(body, "num_chapters"))

	listStatus := gjson.GetBytes(body, "my_list_status")
	if listStatus.IsObject() {
		if status := listStatus.Get("status").String(); status != "" {
			data.Status = status
		}
		data.Score = int(listStatus.Get("score").Int())
		data.Progress = int(listStatus.Get("num_chapters_read").Int())
	}
	return data, nil
}

// UpdateListStatus pushes a status update and returns the state echoed by the remote.
// The returned TotalChapters is always nil since the endpoint does not report it.
func (c *MALClient) UpdateListStatus(ctx context.Context, token *oauth2.Token, id int64, update ListStatusUpdate) (*ListStatusData, error) {
	endpoint := fmt.Sprintf("%s/manga/%d/my_list_status", c.cfg.BaseAPIURL, id)
	form := encodeForm(
		formField{"status", update.Status},
		formField{"num_chapters_read", strconv.Itoa(update.Progress)},
		formField{"score", strconv.Itoa(update.Score)},
	)

	body, err := do(ctx, c.httpClient, "list update", http.MethodPut, endpoint, token, form, status2xx)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("myanimelist list update: decode response: invalid JSON")
	}

	return &ListStatusData{
		Status:   gjson.GetBytes(body, "status").String(),
		Score:    int(gjson.GetBytes(body, "score").Int()),
		Progress: int(gjson.GetBytes(body, "num_chapters_read").Int()),
	}, nil
}

// DefaultListStatus returns the state reported for an untracked entry.
func DefaultListStatus() *ListStatusData {
	return &ListStatusData{Status: StatusReading}
}

func optionalInt(value gjson.Result) *int {
	if value.Type != gjson.Number {
		return nil
	}
	n := int(value.Int())
	return &n
}
