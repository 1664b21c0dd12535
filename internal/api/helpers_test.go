package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTypes(dir string) error {
	return os.WriteFile(filepath.Join(dir, "types.yaml"), []byte("items: [{name: string}, {name: number}]\n"), 0o644)
}

func TestOptHelpers(t *testing.T) {
	assert.Nil(t, optString("  "))
	require.NotNil(t, optString(" x "))
	assert.Equal(t, "x", *optString(" x "))

	v, err := optInt64("")
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = optInt64("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), *v)
	_, err = optInt64("4x")
	assert.Error(t, err)
}

func TestServerNewIDIsMonotonic(t *testing.T) {
	s := &Server{}
	a, b := s.newID(), s.newID()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}
