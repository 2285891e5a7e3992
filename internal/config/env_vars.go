package config

import (
	"os"
	"time"
)

const (
	appNameVar       = "APP_NAME"
	apiURLVar        = "API_URL"
	socketURLVar     = "SOCKET_URL"
	folderEnvVar     = "FOLDER"
	sealKeyVar       = "SEAL_PASSPHRASE"
	requestTimeout   = "REQUEST_TIMEOUT"
	defaultAPIURL    = "http://localhost:3500"
	defaultSocketURL = "ws://localhost:3501/socket"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ APIConfig = EnvVars{}
var _ StorageConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Foodies")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLVar, defaultAPIURL)
}

func (EnvVars) GetSocketURL() string {
	return GetEnv(socketURLVar, defaultSocketURL)
}

func (EnvVars) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(requestTimeout, "30s"))
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetSealPassphrase() string {
	return GetEnv(sealKeyVar, "foodies-local-seal")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
