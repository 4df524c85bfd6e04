// Package config loads the server's typed configuration: ambient
// defaults, GUMPED_-prefixed environment overrides, and finally the
// three spec-mandated CLI flags layered on top (flags > env > defaults).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// AppConfig holds the server's full runtime configuration.
type AppConfig struct {
	// Port is the UDP port the server binds to on 127.0.0.1.
	Port int `koanf:"port" validate:"required,gte=1,lt=65536"`

	// Caching enables the record cache (and its load/flush at
	// startup/shutdown) when true.
	Caching bool `koanf:"caching"`

	// TTL, when >0, overrides every record's TTL on cache insert.
	TTL uint32 `koanf:"ttl"`

	// Env is the runtime environment, "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity.
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// CacheSize bounds the record cache's backing LRU.
	CacheSize int `koanf:"cache_size" validate:"required,gte=1"`

	// BlocklistPath, when non-empty, enables the blocklist subsystem
	// and names the plain rule-list file it loads its rules from.
	BlocklistPath string `koanf:"blocklist_path"`
}

// envLoader loads environment variables prefixed GUMPED_, lower-cased
// with the prefix stripped. A var for test seams, mirroring the
// teacher's config loader.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "GUMPED_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "GUMPED_")), value
		},
	}), nil)
}

// Load builds an AppConfig from defaults, then GUMPED_ environment
// variables, then flags (flags win). flags may be nil to skip the CLI
// layer entirely (e.g. in tests).
func Load(flags *pflag.FlagSet) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(AppConfig{
		Port:      53,
		Caching:   false,
		TTL:       0,
		Env:       "prod",
		LogLevel:  "info",
		CacheSize: 10000,
	}, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	if flags != nil {
		if err := applyFlags(k, flags); err != nil {
			return nil, fmt.Errorf("applying flags: %w", err)
		}
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// applyFlags layers any flags the caller actually set on the command
// line over the koanf tree, so unset flags don't clobber env overrides.
func applyFlags(k *koanf.Koanf, flags *pflag.FlagSet) error {
	var outerErr error
	flags.Visit(func(f *pflag.Flag) {
		if outerErr != nil {
			return
		}
		switch f.Name {
		case "port":
			v, err := flags.GetInt("port")
			outerErr = setOrErr(k, "port", v, err)
		case "caching":
			v, err := flags.GetBool("caching")
			outerErr = setOrErr(k, "caching", v, err)
		case "ttl":
			v, err := flags.GetInt("ttl")
			outerErr = setOrErr(k, "ttl", v, err)
		}
	})
	return outerErr
}

func setOrErr(k *koanf.Koanf, key string, value any, err error) error {
	if err != nil {
		return err
	}
	return k.Set(key, value)
}

// RegisterFlags defines the three spec-mandated CLI flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.IntP("port", "p", 53, "UDP port to bind")
	fs.BoolP("caching", "c", false, "enable the record cache")
	fs.IntP("ttl", "t", 0, "TTL override applied to cached records on insert (0 disables)")
}
