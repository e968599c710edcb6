// Package config loads pooly's process-level configuration from the
// environment, the way common/os.go does for the teacher's own services.
package config

import (
	"github.com/mrrabbitte/pooly/common"
)

// PoolyConfig is pooly's full process configuration, populated once at
// boot by Load.
type PoolyConfig struct {
	HTTPInitAddr              string `env:"HTTP_INIT_ADDR"`
	HTTPAPIAddr               string `env:"HTTP_API_ADDR"`
	InitializeAPIKey          string `env:"INITIALIZE_API_KEY"`
	KVPath                    string `env:"KV_PATH"`
	LogLevel                  string `env:"LOG_LEVEL"`
	JwtClaimRoleKey           string `env:"JWT_CLAIM_ROLE_KEY"`
	ShutdownGracePeriodMillis int64  `env:"SHUTDOWN_GRACE_PERIOD_MILLIS"`
}

const (
	defaultHTTPInitAddr              = ":8080"
	defaultHTTPAPIAddr               = ":8081"
	defaultKVPath                    = "pooly.db"
	defaultLogLevel                  = "info"
	defaultJwtClaimRoleKey           = "pooly_role"
	defaultShutdownGracePeriodMillis = int64(5000)
)

// Load reads PoolyConfig from the environment, loading a .env file first
// when ENV_NAME is "local", and applying defaults for anything left unset.
func Load() (*PoolyConfig, error) {
	common.InitLocalEnvConfig()

	cfg := &PoolyConfig{}

	if err := common.SetConfigFromEnvVars(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *PoolyConfig) {
	if cfg.HTTPInitAddr == "" {
		cfg.HTTPInitAddr = defaultHTTPInitAddr
	}

	if cfg.HTTPAPIAddr == "" {
		cfg.HTTPAPIAddr = defaultHTTPAPIAddr
	}

	if cfg.KVPath == "" {
		cfg.KVPath = defaultKVPath
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.JwtClaimRoleKey == "" {
		cfg.JwtClaimRoleKey = defaultJwtClaimRoleKey
	}

	if cfg.ShutdownGracePeriodMillis == 0 {
		cfg.ShutdownGracePeriodMillis = defaultShutdownGracePeriodMillis
	}
}
