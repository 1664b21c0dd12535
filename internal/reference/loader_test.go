package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "types.yaml", `
name: types
items:
  - {name: number, order: 2}
  - {name: string, order: 1}
  - {name: boolean, order: 3}
`)
	writeFile(t, dir, "categories.yml", `
items:
  - name: mail
  - name: storage
`)
	writeFile(t, dir, "extra_types.yaml", `
name: types
items:
  - name: string
  - name: file
`)
	writeFile(t, dir, "README.md", "ignored")

	seed, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"mail", "storage"}, seed.Categories)
	// файлы читаются в алфавитном порядке, дубликаты отбрасываются
	assert.Equal(t, []string{"string", "file", "number", "boolean"}, seed.Types)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "auth.yaml", "items: [{name: basic}]")
	_, err := Load(dir)
	assert.ErrorContains(t, err, `unknown directory "auth"`)

	dir = t.TempDir()
	writeFile(t, dir, "types.yaml", "items: [{name: ' '}]")
	_, err = Load(dir)
	assert.ErrorContains(t, err, "empty name")

	dir = t.TempDir()
	writeFile(t, dir, "types.yaml", "items: [")
	_, err = Load(dir)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

type fakeSeeder struct {
	types, categories []string
	err               error
}

func (f *fakeSeeder) Seed(_ context.Context, types, categories []string) error {
	f.types, f.categories = types, categories
	return f.err
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "types.yaml", "items: [{name: string}, {name: number}]")

	s := &fakeSeeder{}
	seed, err := Apply(context.Background(), s, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"string", "number"}, s.types)
	assert.Empty(t, s.categories)
	assert.Equal(t, s.types, seed.Types)

	s.err = errors.New("db down")
	_, err = Apply(context.Background(), s, dir)
	assert.ErrorContains(t, err, "db down")
}

func TestShippedReferenceDirectory(t *testing.T) {
	seed, err := Load(filepath.Join("..", "..", "reference"))
	require.NoError(t, err)
	assert.Contains(t, seed.Types, "string")
	assert.Contains(t, seed.Types, "number")
	assert.NotEmpty(t, seed.Categories)
}
