package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetSocketURL() string
	GetRequestTimeout() time.Duration
}

type StorageConfig interface {
	GetDataFolder() string
	GetSealPassphrase() string
}

type mainConfig struct {
	EnvVars
}

var loadOnce sync.Once

// New loads a .env file if one is present and returns the env-backed configuration.
func New() Config {
	loadOnce.Do(func() {
		_ = godotenv.Load()
	})
	return mainConfig{}
}
