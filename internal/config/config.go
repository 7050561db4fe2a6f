package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/suigate/mint-gateway/common"
	"github.com/suigate/mint-gateway/internal/postgres"
	"github.com/suigate/mint-gateway/modules/blob/mirror"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
	"github.com/suigate/mint-gateway/pkg/middleware/requestlogger"
	"github.com/suigate/mint-gateway/pkg/sponsorclient"
	"github.com/suigate/mint-gateway/pkg/walrusclient"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Network: common.NetworkMainnet,
		HTTPServer: HTTPServer{
			Port: 8080,
		},
		Mint: Mint{
			Database:       "postgres",
			LockTTL:        time.Minute,
			RequestTimeout: 55 * time.Second,
		},
	}
)

type Config struct {
	Logger     logger.Config        `mapstructure:"logger"`
	Network    common.Network       `mapstructure:"network"`
	HTTPServer HTTPServer           `mapstructure:"http_server"`
	Mint       Mint                 `mapstructure:"mint"`
	Sponsor    sponsorclient.Config `mapstructure:"sponsor"`
	Walrus     walrusclient.Config  `mapstructure:"walrus"`
	Blob       Blob                 `mapstructure:"blob"`
}

type HTTPServer struct {
	Port   int                  `mapstructure:"port"`
	Logger requestlogger.Config `mapstructure:"logger"`
}

// Mint configures the mint module. LockTTL bounds the in-progress marker
// lifetime; RequestTimeout is the orchestrator's overall per-request budget
// and must stay above the sponsor deadline with visible margin.
type Mint struct {
	Database       string          `mapstructure:"database"` // "postgres" | "memory"
	Postgres       postgres.Config `mapstructure:"postgres"`
	LockTTL        time.Duration   `mapstructure:"lock_ttl"`
	RequestTimeout time.Duration   `mapstructure:"request_timeout"`
}

// Blob configures the blob module. DefaultRetentionEpochs is substituted when
// a store request carries no explicit retention choice, so the upstream call
// always names exactly one policy.
type Blob struct {
	DefaultRetentionEpochs int           `mapstructure:"default_retention_epochs"`
	Mirror                 mirror.Config `mapstructure:"mirror"`
}

// Parse loads the configuration from the given file (or ./config.yaml when
// empty) with environment variable overrides, once per process.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
		logger.InfoContext(ctx, "loaded config successfully")
	})

	return *config
}

// Load returns the parsed configuration. Parse must have run first (the root
// command does this on initialize).
func Load() Config {
	return Parse("")
}

// BindPFlag binds a cobra flag to a configuration key.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to config key", slogx.String("key", key), slogx.Error(err))
	}
}
