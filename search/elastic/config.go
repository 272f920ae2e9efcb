package elastic

import (
	"os"
	"strings"
)

// Config holds Elasticsearch connection settings.
type Config struct {
	Addresses []string
	Username  string
	Password  string

	// MaxRetries is passed to the client; the pipeline itself never
	// retries, transport-level retry stays with the client.
	MaxRetries int
}

// ConfigFromEnv builds a Config from ELASTIC_* environment variables,
// falling back to local defaults.
func ConfigFromEnv() Config {
	return Config{
		Addresses:  strings.Split(getEnv("ELASTIC_ADDRESSES", "http://localhost:9200"), ","),
		Username:   getEnv("ELASTIC_USER", "elastic"),
		Password:   os.Getenv("ELASTIC_PASSWORD"),
		MaxRetries: 5,
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
