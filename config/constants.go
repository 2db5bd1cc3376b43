package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the matching environment variable is unset.
const (
	DefaultBackend          = BackendElasticsearch
	DefaultElasticsearchURL = "http://localhost:9200"
	DefaultMeilisearchHost  = "http://localhost:7700"
	DefaultHTTPAddr         = ":3000"
	DefaultSearchLimit      = 10
	DefaultRateLimitRPS     = 20.0
	DefaultRateLimitBurst   = 40
	DefaultConnectRetries   = 5
	DefaultEngineTimeout    = 10 * time.Second
	DefaultBodyLimit        = "1M"
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultHealthTimeout    = 2 * time.Second
)

// getEnvOrDefault reads key, preferring the contents of the file named by
// key_FILE (Docker secrets).
func getEnvOrDefault(key, defaultValue string) string {
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultVal int) (int, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, &EnvError{Key: key, Value: v, Err: err}
	}
	return i, nil
}

func floatEnv(key string, defaultVal float64) (float64, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &EnvError{Key: key, Value: v, Err: err}
	}
	return f, nil
}

func durationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &EnvError{Key: key, Value: v, Err: err}
	}
	return d, nil
}

func boolEnv(key string, defaultVal bool) (bool, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &EnvError{Key: key, Value: v, Err: err}
	}
	return b, nil
}

// EnvError reports an environment variable that could not be parsed.
type EnvError struct {
	Key   string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for " + e.Key + ": " + e.Err.Error()
}

func (e *EnvError) Unwrap() error {
	return e.Err
}
