package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/router-for-me/TrackerSync/internal/misc"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FileCredentialStore keeps each tracker's credential in <base-dir>/<tracker>.json.
// Saving merges into an existing file so keys written by other tools survive.
type FileCredentialStore struct {
	mu      sync.Mutex
	dirLock sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileCredentialStore creates a store rooted at baseDir. The directory may also be
// set later with SetBaseDir.
func NewFileCredentialStore(baseDir string) *FileCredentialStore {
	return &FileCredentialStore{baseDir: strings.TrimSpace(baseDir), now: time.Now}
}

// SetBaseDir updates the directory credential files are kept in.
func (s *FileCredentialStore) SetBaseDir(dir string) {
	s.dirLock.Lock()
	s.baseDir = strings.TrimSpace(dir)
	s.dirLock.Unlock()
}

// Save persists the credential for trackerName.
func (s *FileCredentialStore) Save(_ context.Context, trackerName string, cred *tracker.Credential) (string, error) {
	if cred == nil {
		return "", fmt.Errorf("auth filestore: credential is nil")
	}
	path, err := s.pathFor(trackerName)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("auth filestore: create dir failed: %w", err)
	}

	existing, errRead := os.ReadFile(path)
	if errRead != nil && !os.IsNotExist(errRead) {
		return "", fmt.Errorf("auth filestore: read existing failed: %w", errRead)
	}
	base := existing
	if !gjson.ValidBytes(base) || !gjson.ParseBytes(base).IsObject() {
		base = []byte("{}")
	}

	raw, err := mergeCredential(base, trackerName, cred, s.now())
	if err != nil {
		return "", err
	}
	if errRead == nil && jsonEqual(existing, raw) {
		return path, nil
	}

	misc.LogSavingCredentials(trackerName, path)
	if err = os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("auth filestore: write file failed: %w", err)
	}
	return path, nil
}

func mergeCredential(base []byte, trackerName string, cred *tracker.Credential, now time.Time) ([]byte, error) {
	updates := []struct {
		path  string
		value any
	}{
		{"type", strings.ToLower(strings.TrimSpace(trackerName))},
		{"access_token", cred.AccessToken},
		{"refresh_token", cred.RefreshToken},
		{"expires_at", cred.ExpiresAt.UTC().Format(time.RFC3339)},
		{"last_refresh", now.UTC().Format(time.RFC3339)},
	}
	out := base
	for _, u := range updates {
		var err error
		out, err = sjson.SetBytes(out, u.path, u.value)
		if err != nil {
			return nil, fmt.Errorf("auth filestore: set %s failed: %w", u.path, err)
		}
	}
	return out, nil
}

// Load reads the credential for trackerName.
func (s *FileCredentialStore) Load(_ context.Context, trackerName string) (*tracker.Credential, error) {
	path, err := s.pathFor(trackerName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("auth filestore: read file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("auth filestore: %s is not valid JSON", path)
	}

	cred := &tracker.Credential{
		AccessToken:  extractString(data, "access_token"),
		RefreshToken: extractString(data, "refresh_token"),
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return nil, ErrNotLoggedIn
	}
	if expiresAt := extractString(data, "expires_at"); expiresAt != "" {
		if parsed, errParse := time.Parse(time.RFC3339, expiresAt); errParse == nil {
			cred.ExpiresAt = parsed
		}
	}
	return cred, nil
}

// Delete removes the credential file for trackerName.
func (s *FileCredentialStore) Delete(_ context.Context, trackerName string) error {
	path, err := s.pathFor(trackerName)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("auth filestore: delete failed: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) pathFor(trackerName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(trackerName))
	if name == "" {
		return "", fmt.Errorf("auth filestore: tracker name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("auth filestore: invalid tracker name %q", trackerName)
	}
	dir := s.baseDirSnapshot()
	if dir == "" {
		return "", fmt.Errorf("auth filestore: directory not configured")
	}
	return filepath.Join(dir, name+".json"), nil
}

func (s *FileCredentialStore) baseDirSnapshot() string {
	s.dirLock.RLock()
	defer s.dirLock.RUnlock()
	return s.baseDir
}

// extractString reads key from the top level of a credential file, falling back to the
// nested "token" object some tools write.
func extractString(data []byte, key string) string {
	for _, path := range []string{key, "token." + key} {
		value := gjson.GetBytes(data, path)
		if value.Type != gjson.String {
			continue
		}
		if v := strings.TrimSpace(value.String()); v != "" {
			return v
		}
	}
	return ""
}

// jsonEqual compares two JSON blobs by parsing them into Go objects and deep comparing.
func jsonEqual(a, b []byte) bool {
	var objA any
	var objB any
	if err := json.Unmarshal(a, &objA); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &objB); err != nil {
		return false
	}
	return deepEqualJSON(objA, objB)
}

func deepEqualJSON(a, b any) bool {
	switch valA := a.(type) {
	case map[string]any:
		valB, ok := b.(map[string]any)
		if !ok || len(valA) != len(valB) {
			return false
		}
		for key, subA := range valA {
			subB, ok1 := valB[key]
			if !ok1 || !deepEqualJSON(subA, subB) {
				return false
			}
		}
		return true
	case []any:
		sliceB, ok := b.([]any)
		if !ok || len(valA) != len(sliceB) {
			return false
		}
		for i := range valA {
			if !deepEqualJSON(valA[i], sliceB[i]) {
				return false
			}
		}
		return true
	case float64:
		valB, ok := b.(float64)
		return ok && valA == valB
	case string:
		valB, ok := b.(string)
		return ok && valA == valB
	case bool:
		valB, ok := b.(bool)
		return ok && valA == valB
	case nil:
		return b == nil
	default:
		return false
	}
}
