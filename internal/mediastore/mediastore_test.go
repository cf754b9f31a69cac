package mediastore

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xZumii/cat-tv/pkg/apperr"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(logger.NewNop(), t.TempDir(), "https://cat.tv")
	require.NoError(t, err)
	return store
}

func TestSaveWritesFileAndReturnsURL(t *testing.T) {
	store := newTestStore(t)
	payload := []byte("fake image bytes")

	url, err := store.Save(base64.StdEncoding.EncodeToString(payload), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cat.tv/media/"), "got %s", url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), "got %s", url)

	name := url[strings.LastIndex(url, "/")+1:]
	written, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestSaveRejectsUnknownContentType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(base64.StdEncoding.EncodeToString([]byte("x")), "application/pdf")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.From(err).Status)
}

func TestSaveAcceptsExactlyMaxSize(t *testing.T) {
	store := newTestStore(t)
	payload := make([]byte, MaxUploadBytes)

	url, err := store.Save(base64.StdEncoding.EncodeToString(payload), "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".mp4"), "got %s", url)
}

func TestSaveRejectsOversizedPayload(t *testing.T) {
	store := newTestStore(t)
	big := make([]byte, MaxUploadBytes+1)

	_, err := store.Save(base64.StdEncoding.EncodeToString(big), "video/mp4")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.From(err).Status)

	// Nothing should have reached disk.
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsBadBase64(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("not base64 at all!!!", "image/png")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.From(err).Status)
}

func TestMediaKind(t *testing.T) {
	kind, ok := MediaKind("image/webp")
	require.True(t, ok)
	assert.Equal(t, "image", kind)

	kind, ok = MediaKind("video/webm")
	require.True(t, ok)
	assert.Equal(t, "video", kind)

	_, ok = MediaKind("audio/mpeg")
	assert.False(t, ok)
}
