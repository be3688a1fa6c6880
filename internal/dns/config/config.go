package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Bind is the address:port the UDP (and, if enabled, TCP) listener binds to.
	Bind string `koanf:"bind" validate:"required,ip_port"`

	// EnableTCP starts a length-prefixed TCP listener alongside UDP on Bind.
	EnableTCP bool `koanf:"enable_tcp"`

	// PlanCacheSize bounds the NameTree lookup-plan LRU; 0 disables the cache.
	PlanCacheSize int `koanf:"plan_cache_size" validate:"gte=0"`

	// NegativeCacheCapacity sizes the per-zone bloom filter of confirmed
	// misses; 0 disables the negative cache.
	NegativeCacheCapacity uint64 `koanf:"negative_cache_capacity" validate:"gte=0"`

	// SnapshotPath, if set, is a bbolt file used to persist and reload zone
	// contents across restarts. Empty disables snapshotting.
	SnapshotPath string `koanf:"snapshot_path"`
}

// DEFAULT_APP_CONFIG defines the default application configuration settings for the DNS service.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                   "prod",
	LogLevel:              "info",
	Bind:                  "0.0.0.0:53",
	EnableTCP:             true,
	PlanCacheSize:         4096,
	NegativeCacheCapacity: 10000,
	SnapshotPath:          "",
}

// validIPPort validates whether the provided field value is a valid IP address and port combination.
// It expects the value to be in the format "IP:Port". The function returns true if the IP address
// is valid and the port is a number from 1 to 65535; otherwise, it returns false.
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// envLoader is a function that loads environment variables with the prefix "RRDNS_".
// It transforms the keys to lowercase and removes the prefix, and can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "RRDNS_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "RRDNS_")), value
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf instance
// using the structs provider and the DEFAULT_APP_CONFIG struct.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers a custom validation function "ip_port" with the provided validator.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("ip_port", validIPPort)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
