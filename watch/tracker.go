package watch

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Fingerprint returns the SHA-256 hex digest of raw fetched content.
// No normalization is applied before hashing: two fetches differing only in
// incidental formatting register as changed.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Store maps resource identifiers to their last-known fingerprint.
// Safe for concurrent keyed access; entries for distinct resources are
// updated independently.
type Store struct {
	mu      sync.RWMutex
	digests map[string]string
}

// NewStore creates an empty fingerprint store.
func NewStore() *Store {
	return &Store{digests: make(map[string]string)}
}

// Seed records the baseline fingerprint for a resource.
func (s *Store) Seed(identifier, digest string) {
	s.mu.Lock()
	s.digests[identifier] = digest
	s.mu.Unlock()
}

// Digest returns the stored fingerprint for a resource, if any.
func (s *Store) Digest(identifier string) (string, bool) {
	s.mu.RLock()
	digest, ok := s.digests[identifier]
	s.mu.RUnlock()
	return digest, ok
}

// Changed compares digest with the stored value and reports whether the
// resource content changed. A first observation only seeds the baseline and
// is never reported as a change. On a detected change the stored fingerprint
// is replaced immediately so the same change is not reported twice.
func (s *Store) Changed(identifier, digest string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.digests[identifier]
	if !ok {
		s.digests[identifier] = digest
		return false
	}
	if prior == digest {
		return false
	}

	s.digests[identifier] = digest
	return true
}
