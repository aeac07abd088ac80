package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerHost string
	ServerPort string

	// Scanning
	IncludeDefaultNetworks bool
	WarnGenericNames       bool

	// Monitoring
	DebounceSeconds float64

	// Alerting
	AlertURL    string
	AlertType   string
	GotifyToken string

	// Sources
	AWSRegion  string
	KubeConfig string

	// CORS
	CORSAllowOrigin string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerHost:             envOrDefault("NETSCOPE_HOST", "0.0.0.0"),
		ServerPort:             envOrDefault("NETSCOPE_PORT", "8080"),
		IncludeDefaultNetworks: EnvBool("NETSCOPE_INCLUDE_DEFAULT", false),
		WarnGenericNames:       EnvBool("NETSCOPE_WARN_GENERIC", true),
		DebounceSeconds:        EnvFloat("NETSCOPE_DEBOUNCE_SECONDS", 2.0),
		AlertURL:               envOrDefault("NETSCOPE_ALERT_URL", ""),
		AlertType:              envOrDefault("NETSCOPE_ALERT_TYPE", "webhook"),
		GotifyToken:            envOrDefault("NETSCOPE_GOTIFY_TOKEN", ""),
		AWSRegion:              envOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
		KubeConfig:             envOrDefault("KUBECONFIG", ""),
		CORSAllowOrigin:        envOrDefault("NETSCOPE_CORS_ORIGIN", "*"),
	}
}

// StateDir returns the directory holding persisted dashboard state,
// honoring XDG_CONFIG_HOME and falling back to ~/.config
func StateDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "netscope")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt reads an integer environment variable with a fallback
func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// EnvFloat reads a float environment variable with a fallback
func EnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// EnvBool reads a boolean environment variable with a fallback
func EnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
