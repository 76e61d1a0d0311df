package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_LocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644))

	client := New(dir)
	content, err := client.Fetch(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)
}

func TestFetch_LocalFileMissing(t *testing.T) {
	client := New(t.TempDir())

	_, err := client.Fetch(context.Background(), "missing.txt")
	assert.Error(t, err)
}

func TestFetch_CacheInvalidatedOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	client := New(dir)
	content, err := client.Fetch(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), content)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2 longer"), 0644))

	content, err = client.Fetch(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2 longer"), content)
}

func TestFetch_RemoteHTMLExtractsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><style>p{color:red}</style></head>` +
			`<body><script>alert(1)</script><p>Readable text</p></body></html>`))
	}))
	defer server.Close()

	client := New(t.TempDir())
	content, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "Readable text")
	assert.NotContains(t, text, "alert(1)")
	assert.NotContains(t, text, "color:red")
}

func TestFetch_RemotePlainTextPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("raw body"))
	}))
	defer server.Close()

	client := New(t.TempDir())
	content, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw body"), content)
}

func TestFetch_RemoteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(t.TempDir())
	_, err := client.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}
