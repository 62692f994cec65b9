package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewLocalStorage(t.TempDir(), "/media", log)
}

func TestSaveAndDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "uploads/recipe/a.jpg", strings.NewReader("image bytes")))

	data, err := os.ReadFile(filepath.Join(s.Root(), "uploads", "recipe", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	require.NoError(t, s.Save(ctx, "uploads/recipe/a.jpg", strings.NewReader("replaced")))
	data, err = os.ReadFile(filepath.Join(s.Root(), "uploads", "recipe", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	require.NoError(t, s.Delete(ctx, "uploads/recipe/a.jpg"))
	_, err = os.Stat(filepath.Join(s.Root(), "uploads", "recipe", "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, "uploads/recipe/a.jpg"))
}

func TestRejectsEscapingKeys(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, key := range []string{"", "../outside.jpg", "uploads/../../outside.jpg", "/etc/passwd", "uploads//a.jpg"} {
		assert.ErrorIs(t, s.Save(ctx, key, strings.NewReader("x")), ErrInvalidKey, key)
		assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey, key)
	}
}

func TestURL(t *testing.T) {
	s := newTestStorage(t)

	assert.Equal(t, "/media/uploads/recipe/a.jpg", s.URL("uploads/recipe/a.jpg"))
	assert.Equal(t, "", s.URL(""))
	assert.Equal(t, "http://cdn.local/m/x.png", NewLocalStorage("media", "http://cdn.local/m/", logrus.New()).URL("x.png"))
}
