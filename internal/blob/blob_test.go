package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key, err := s.Put(ctx, "logos/mailer.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "logos/mailer.png", key)

	rc, info, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	require.NoError(t, s.Delete(ctx, key))
	assert.ErrorIs(t, s.Delete(ctx, key), ErrNotFound)
	_, _, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_GeneratesKey(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key, err := s.Put(context.Background(), "", strings.NewReader("x"), 1, "")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}/\d{2}/[0-9a-f]{32}$`, key)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "")
	require.NoError(t, err, "clean key stays under root")

	_, err = cleanKey("  ")
	assert.Error(t, err)
	_, err = cleanKey("..")
	assert.Error(t, err)
}

func TestNewKey_KeepsExtension(t *testing.T) {
	assert.Regexp(t, `^\d{4}/\d{2}/[0-9a-f]{32}\.png$`, NewKey(`C:\Users\me\Logo.PNG`))
	assert.Regexp(t, `^\d{4}/\d{2}/[0-9a-f]{32}$`, NewKey("noext"))
}
