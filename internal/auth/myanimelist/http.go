package myanimelist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// maxErrorBody bounds the response body kept in a StatusError.
const maxErrorBody = 8 << 10

// formField is one key/value pair of a form-encoded body.
type formField struct {
	key   string
	value string
}

// encodeForm encodes fields in the given order. The remote has historically received
// its bodies in this order, so url.Values (which sorts keys) is not used.
func encodeForm(fields ...formField) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.value))
	}
	return b.String()
}

// do executes a request and returns the body of a successful response. Any status for
// which ok returns false is reported as a *StatusError.
func do(ctx context.Context, client *http.Client, op, method, endpoint string, token *oauth2.Token, form string, ok func(int) bool) ([]byte, error) {
	var body io.Reader
	if form != "" {
		body = strings.NewReader(form)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("myanimelist %s: create request: %w", op, err)
	}
	if form != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if token != nil {
		token.SetAuthHeader(req)
	}

	resp, errDo := client.Do(req)
	if errDo != nil {
		return nil, fmt.Errorf("myanimelist %s: execute request: %w", op, errDo)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("myanimelist %s: close body error: %v", op, errClose)
		}
	}()

	if !ok(resp.StatusCode) {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	data, errRead := io.ReadAll(resp.Body)
	if errRead != nil {
		return nil, fmt.Errorf("myanimelist %s: read response: %w", op, errRead)
	}
	return data, nil
}

func statusOK(code int) bool {
	return code == http.StatusOK
}

func status2xx(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
