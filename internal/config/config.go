// Package config loads tcrd settings from defaults, an optional config file
// and TCRD_* environment variables using viper.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"tcrdcore/internal/blob"
	"tcrdcore/internal/core"
	"tcrdcore/internal/errors"
)

// EnvPrefix is prepended to every environment override, e.g.
// TCRD_STORAGE_DRIVER or TCRD_FAMILIES_TAXON.
const EnvPrefix = "TCRD"

// Config is the full runtime configuration.
type Config struct {
	Storage  core.StorageConfig `mapstructure:"storage"`
	Blob     blob.Config        `mapstructure:"blob"`
	Families core.FamilyConfig  `mapstructure:"families"`
	Log      LogConfig          `mapstructure:"log"`
	Metrics  MetricsConfig      `mapstructure:"metrics"`
	Trace    TraceConfig        `mapstructure:"trace"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console|json
}

// MetricsConfig selects the operation metrics recorder.
type MetricsConfig struct {
	Driver   string `mapstructure:"driver"`   // none|expvar|prometheus
	Textfile string `mapstructure:"textfile"` // prometheus textfile collector output
}

// TraceConfig enables JSON-lines span output when File is set.
type TraceConfig struct {
	File string `mapstructure:"file"`
}

// SetDefaults registers every key so environment variables bind during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", string(core.StorageSQLite))
	v.SetDefault("storage.sqlite_path", "tcrd.db")
	v.SetDefault("storage.postgres_dsn", "postgres://localhost/tcrd?sslmode=disable")
	v.SetDefault("storage.postgres_apply_ddl", false)
	v.SetDefault("storage.fixture", "")

	v.SetDefault("blob.driver", string(blob.DriverFilesystem))
	v.SetDefault("blob.fs_root", ".")
	v.SetDefault("blob.s3.bucket", "")
	v.SetDefault("blob.s3.region", "")
	v.SetDefault("blob.s3.endpoint", "")
	v.SetDefault("blob.s3.access_key_id", "")
	v.SetDefault("blob.s3.secret_access_key", "")
	v.SetDefault("blob.s3.session_token", "")
	v.SetDefault("blob.s3.path_style", false)

	v.SetDefault("families.key", core.DefaultFamilyKey)
	v.SetDefault("families.taxon", core.ZebrafishTaxon)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.driver", "none")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("trace.file", "")
}

// New returns a viper instance with defaults and environment binding.
// configFile is optional; its extension selects the format.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.MarkIO(err, "read config file %s", configFile)
		}
	}
	return v, nil
}

// Load reads configuration using configFile (optional) and the environment.
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals an already prepared viper instance, typically one
// with command-line flags bound.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}
