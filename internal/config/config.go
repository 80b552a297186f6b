package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data  DataConfig  `yaml:"data" mapstructure:"data"`
	Build BuildConfig `yaml:"build" mapstructure:"build"`
	Query QueryConfig `yaml:"query" mapstructure:"query"`
	Store StoreConfig `yaml:"store" mapstructure:"store"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the data directory holding Boundaries/, Population/
// and Relationships/.
type DataConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// BuildConfig configures the relationship builder.
type BuildConfig struct {
	SourceType string `yaml:"source_type" mapstructure:"source_type"`
	TargetType string `yaml:"target_type" mapstructure:"target_type"`
}

// QueryConfig holds query-layer defaults.
type QueryConfig struct {
	MinOverlapPct float64 `yaml:"min_overlap_pct" mapstructure:"min_overlap_pct"`
}

// StoreConfig configures the boundary database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AUSGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", ".")
	v.SetDefault("build.source_type", "sal")
	v.SetDefault("build.target_type", "sua")
	v.SetDefault("query.min_overlap_pct", 50.0)
	v.SetDefault("store.path", "boundaries.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
