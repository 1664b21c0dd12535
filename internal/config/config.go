package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix: префикс переменных окружения: CATALOG_DB_URL, CATALOG_S3_BUCKET и т.д.
const EnvPrefix = "CATALOG"

// DefaultPath: конфиг, который читается, если --config не задан. Его отсутствие не ошибка.
const DefaultPath = "config.json"

type Config struct {
	Port         string `mapstructure:"port"`
	DBURL        string `mapstructure:"db_url"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	ReferenceDir string `mapstructure:"reference_dir"`
	LogMode      string `mapstructure:"log_mode"` // "dev" | "prod"

	// Логотипы сервисов
	BlobDriver string `mapstructure:"blob_driver"` // "local" (default) | "s3"
	FilesRoot  string `mapstructure:"files_root"`  // для local: папка хранения

	S3Endpoint  string `mapstructure:"s3_endpoint"` // MinIO или S3-совместимый
	S3Region    string `mapstructure:"s3_region"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Prefix    string `mapstructure:"s3_prefix"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3UseSSL    bool   `mapstructure:"s3_use_ssl"`

	CORSOrigins []string `mapstructure:"cors_origins"`
}

func Default() Config {
	return Config{
		Port:         "8080",
		DBURL:        "",
		AutoMigrate:  false,
		ReferenceDir: "reference",
		LogMode:      "dev",

		BlobDriver: "local",
		FilesRoot:  "uploads",

		S3UseSSL: true,

		CORSOrigins: []string{"*"},
	}
}

// flagKeys: имя флага -> ключ конфига.
var flagKeys = map[string]string{
	"port":          "port",
	"db":            "db_url",
	"auto-migrate":  "auto_migrate",
	"reference-dir": "reference_dir",
	"log-mode":      "log_mode",
	"blob-driver":   "blob_driver",
	"files-root":    "files_root",
	"s3-endpoint":   "s3_endpoint",
	"s3-region":     "s3_region",
	"s3-bucket":     "s3_bucket",
	"s3-prefix":     "s3_prefix",
	"s3-access-key": "s3_access_key",
	"s3-secret-key": "s3_secret_key",
	"s3-use-ssl":    "s3_use_ssl",
	"cors-origins":  "cors_origins",
}

// RegisterFlags объявляет флаги с дефолтами из Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", DefaultPath, "Path to config file (JSON or YAML)")
	fs.String("port", d.Port, "HTTP port")
	fs.String("db", d.DBURL, "Postgres URL")
	fs.Bool("auto-migrate", d.AutoMigrate, "Apply DDL and reference seed on start")
	fs.String("reference-dir", d.ReferenceDir, "Directory with reference YAML (types, categories)")
	fs.String("log-mode", d.LogMode, "Log mode (dev/prod)")

	fs.String("blob-driver", d.BlobDriver, "Blob driver (local/s3)")
	fs.String("files-root", d.FilesRoot, "Local files root (if blob=local)")
	fs.String("s3-endpoint", d.S3Endpoint, "S3 endpoint (host:port)")
	fs.String("s3-region", d.S3Region, "S3 region")
	fs.String("s3-bucket", d.S3Bucket, "S3 bucket")
	fs.String("s3-prefix", d.S3Prefix, "S3 key prefix")
	fs.String("s3-access-key", d.S3AccessKey, "S3 access key")
	fs.String("s3-secret-key", d.S3SecretKey, "S3 secret key")
	fs.Bool("s3-use-ssl", d.S3UseSSL, "Use TLS for S3")

	fs.StringSlice("cors-origins", d.CORSOrigins, "Allowed CORS origins")
}

// Load: defaults → файл конфига → ENV (CATALOG_*) → флаги.
// fs может быть nil (тогда только defaults, DefaultPath и ENV).
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path, explicit := DefaultPath, false
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			path, explicit = f.Value.String(), f.Changed
		}
		for flagName, key := range flagKeys {
			if f := fs.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", flagName, err)
				}
			}
		}
	}
	if err := readFile(v, path, explicit); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readFile(v *viper.Viper, path string, explicit bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		if explicit {
			return fmt.Errorf("config file %s not found", path)
		}
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("db_url", d.DBURL)
	v.SetDefault("auto_migrate", d.AutoMigrate)
	v.SetDefault("reference_dir", d.ReferenceDir)
	v.SetDefault("log_mode", d.LogMode)
	v.SetDefault("blob_driver", d.BlobDriver)
	v.SetDefault("files_root", d.FilesRoot)
	v.SetDefault("s3_endpoint", d.S3Endpoint)
	v.SetDefault("s3_region", d.S3Region)
	v.SetDefault("s3_bucket", d.S3Bucket)
	v.SetDefault("s3_prefix", d.S3Prefix)
	v.SetDefault("s3_access_key", d.S3AccessKey)
	v.SetDefault("s3_secret_key", d.S3SecretKey)
	v.SetDefault("s3_use_ssl", d.S3UseSSL)
	v.SetDefault("cors_origins", d.CORSOrigins)
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.DBURL = strings.TrimSpace(c.DBURL)
	c.LogMode = strings.ToLower(strings.TrimSpace(c.LogMode))
	c.BlobDriver = strings.ToLower(strings.TrimSpace(c.BlobDriver))
	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch c.LogMode {
	case "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("log_mode must be dev or prod, got %q", c.LogMode))
	}
	switch c.BlobDriver {
	case "local":
		if strings.TrimSpace(c.FilesRoot) == "" {
			errs = append(errs, errors.New("files_root is required for blob_driver=local"))
		}
	case "s3":
		if c.S3Endpoint == "" || c.S3Bucket == "" {
			errs = append(errs, errors.New("s3_endpoint and s3_bucket are required for blob_driver=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("blob_driver must be local or s3, got %q", c.BlobDriver))
	}
	return errors.Join(errs...)
}
