package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Priority(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
db_url: postgres://file
files_root: /srv/files
log_mode: prod
`), 0o644))

	t.Setenv("CATALOG_DB_URL", "postgres://env")
	t.Setenv("CATALOG_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(newFlags(t, "--config", path, "--files-root", "/flag/files"))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)             // файл
	assert.Equal(t, "postgres://env", cfg.DBURL)  // ENV поверх файла
	assert.Equal(t, "/flag/files", cfg.FilesRoot) // флаг поверх файла
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_DefaultJSONFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPath), []byte(`{"port":"7070","auto_migrate":true}`), 0o644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(newFlags(t, "--config", "nope.yaml"))
	assert.ErrorContains(t, err, "not found")
}

func TestValidate(t *testing.T) {
	c := Default()
	c.BlobDriver = "s3"
	assert.ErrorContains(t, c.Validate(), "s3_endpoint and s3_bucket")

	c.S3Endpoint, c.S3Bucket = "minio:9000", "logos"
	assert.NoError(t, c.Validate())

	c.BlobDriver = "ftp"
	c.LogMode = "loud"
	err := c.Validate()
	assert.ErrorContains(t, err, "blob_driver")
	assert.ErrorContains(t, err, "log_mode")
}
