package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_NoNormalization(t *testing.T) {
	base := Fingerprint([]byte("hello"))

	assert.Equal(t, base, Fingerprint([]byte("hello")))
	// a trailing space is a real change
	assert.NotEqual(t, base, Fingerprint([]byte("hello ")))
}

func TestStore_FirstObservationSeedsOnly(t *testing.T) {
	store := NewStore()

	assert.False(t, store.Changed("a.txt", Fingerprint([]byte("hello"))))

	digest, ok := store.Digest("a.txt")
	assert.True(t, ok)
	assert.Equal(t, Fingerprint([]byte("hello")), digest)
}

func TestStore_ChangeRoundTrip(t *testing.T) {
	store := NewStore()
	store.Seed("a.txt", Fingerprint([]byte("hello")))

	assert.False(t, store.Changed("a.txt", Fingerprint([]byte("hello"))))
	assert.True(t, store.Changed("a.txt", Fingerprint([]byte("hello "))))

	// the fingerprint was updated on detection, so the same change is not
	// reported twice
	assert.False(t, store.Changed("a.txt", Fingerprint([]byte("hello "))))
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := NewStore()
	store.Seed("a.txt", Fingerprint([]byte("a")))
	store.Seed("b.txt", Fingerprint([]byte("b")))

	assert.True(t, store.Changed("a.txt", Fingerprint([]byte("a2"))))
	assert.False(t, store.Changed("b.txt", Fingerprint([]byte("b"))))
}
