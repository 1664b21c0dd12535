package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection/internal/blob"
	"collection/internal/config"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")

	// serve по умолчанию: флаги доступны и на корне
	assert.NotNil(t, root.Flags().Lookup("db"))
	assert.NotNil(t, root.Flags().Lookup("port"))
	assert.NotNil(t, root.RunE)
}

func TestOpenDB_RequiresURL(t *testing.T) {
	_, err := openDB(context.Background(), config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_url is required")
}

func TestOpenBlob_LocalDriver(t *testing.T) {
	store, err := openBlob(context.Background(), config.Config{BlobDriver: "local", FilesRoot: t.TempDir()})
	require.NoError(t, err)
	_, ok := store.(*blob.LocalStore)
	assert.True(t, ok)
}
