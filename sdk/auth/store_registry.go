package auth

import "sync"

var (
	storeMu         sync.RWMutex
	registeredStore CredentialStore
)

// RegisterCredentialStore sets the global credential store used by the helpers.
func RegisterCredentialStore(store CredentialStore) {
	storeMu.Lock()
	registeredStore = store
	storeMu.Unlock()
}

// GetCredentialStore returns the globally registered credential store, creating a
// file store without a base directory on first use.
func GetCredentialStore() CredentialStore {
	storeMu.RLock()
	s := registeredStore
	storeMu.RUnlock()
	if s != nil {
		return s
	}
	storeMu.Lock()
	defer storeMu.Unlock()
	if registeredStore == nil {
		registeredStore = NewFileCredentialStore("")
	}
	return registeredStore
}
