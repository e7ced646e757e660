package session

import "sync"

// Keys used in the session-local store. Both are scoped to one browser
// session and never synchronized across devices.
const (
	AccessCodeKey = "accessCode"
	SubmittedKey  = "rsvpSubmitted"
)

// Store is the session-local key/value store backing the gate. In the
// browser this is sessionStorage; in tests and server-side sessions it is
// the in-memory implementation below.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryStore is a Store held in process memory for one session.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get returns the value for key and whether it was present.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Delete removes key from the store.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
