// Package config loads process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultExplorerURL      = "https://api.polygonscan.com/api"
	DefaultLLMBaseURL       = "https://api.deepseek.com/v1"
	DefaultLLMModel         = "deepseek-chat"
	DefaultRPCURL           = "https://polygon-rpc.com"
	DefaultPort             = 3000
	DefaultStaticDir        = "public"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultExplorerTimeout  = 30 * time.Second
	DefaultChainCallTimeout = 15 * time.Second
	DefaultLLMTimeout       = 120 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
)

// Config is built once at startup and must not be modified afterwards.
type Config struct {
	ExplorerAPIKey string
	ExplorerURL    string
	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	RPCURL         string
	Port           int
	StaticDir      string
	LogLevel       string
	LogFormat      string

	ExplorerTimeout  time.Duration
	ChainCallTimeout time.Duration
	LLMTimeout       time.Duration
	ShutdownTimeout  time.Duration
}

// Default returns a Config with every default applied and no API keys.
func Default() Config {
	return Config{
		ExplorerURL:      DefaultExplorerURL,
		LLMBaseURL:       DefaultLLMBaseURL,
		LLMModel:         DefaultLLMModel,
		RPCURL:           DefaultRPCURL,
		Port:             DefaultPort,
		StaticDir:        DefaultStaticDir,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
		ExplorerTimeout:  DefaultExplorerTimeout,
		ChainCallTimeout: DefaultChainCallTimeout,
		LLMTimeout:       DefaultLLMTimeout,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

// Load reads envFiles (".env" when none given) and then the environment.
// Missing files are ignored and variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("POLYGONSCAN_API_KEY", &cfg.ExplorerAPIKey)
	str("POLYGONSCAN_API_URL", &cfg.ExplorerURL)
	str("DEEPSEEK_API_KEY", &cfg.LLMAPIKey)
	str("DEEPSEEK_BASE_URL", &cfg.LLMBaseURL)
	str("LLM_MODEL", &cfg.LLMModel)
	str("PROVIDER_URL", &cfg.RPCURL)
	str("STATIC_DIR", &cfg.StaticDir)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	durations := map[string]*time.Duration{
		"EXPLORER_TIMEOUT":   &cfg.ExplorerTimeout,
		"CHAIN_CALL_TIMEOUT": &cfg.ChainCallTimeout,
		"LLM_TIMEOUT":        &cfg.LLMTimeout,
		"SHUTDOWN_TIMEOUT":   &cfg.ShutdownTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = d
		}
	}

	return cfg, nil
}

// Validate checks the settings needed to serve check requests.
func (c Config) Validate() error {
	var errs []error
	if c.ExplorerAPIKey == "" {
		errs = append(errs, errors.New("explorer API key is required (POLYGONSCAN_API_KEY)"))
	}
	if c.LLMAPIKey == "" {
		errs = append(errs, errors.New("LLM API key is required (DEEPSEEK_API_KEY)"))
	}
	if c.RPCURL == "" {
		errs = append(errs, errors.New("RPC URL is required (PROVIDER_URL)"))
	}
	if c.ExplorerURL == "" {
		errs = append(errs, errors.New("explorer URL is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	return errors.Join(errs...)
}

// ListenAddr returns the address for http.Server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
