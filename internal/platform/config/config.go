package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	LogLevel string
	Provider Provider
}

// Provider captures how the gateway reaches the BankID identity provider.
type Provider struct {
	BaseURL      string
	FetchTimeout time.Duration
}

const (
	defaultAddr         = ":8080"
	defaultBaseURL      = "https://oidc.sandbox.bankid.cz"
	defaultFetchTimeout = 10 * time.Second
	defaultLogLevel     = "info"
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	addr := os.Getenv("CLAIMS_GATEWAY_ADDR")
	if addr == "" {
		addr = defaultAddr
	}

	baseURL := strings.TrimRight(os.Getenv("BANKID_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := defaultFetchTimeout
	if raw := os.Getenv("BANKID_FETCH_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("BANKID_FETCH_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Server{}, fmt.Errorf("BANKID_FETCH_TIMEOUT: must be positive, got %s", d)
		}
		timeout = d
	}

	level := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = defaultLogLevel
	}

	return Server{
		Addr:     addr,
		LogLevel: level,
		Provider: Provider{
			BaseURL:      baseURL,
			FetchTimeout: timeout,
		},
	}, nil
}
