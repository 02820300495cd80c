// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package config loads petvida settings from defaults, a YAML file, a .env
// file, the environment and command flags, in increasing precedence.
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/logging"
	"github.com/petvida/petvida/internal/xdg"
)

// CodeInvalid is the oops code of every configuration error.
const CodeInvalid = "CONFIG_INVALID"

// DefaultEnvFile is read when present and no other .env file is named.
const DefaultEnvFile = ".env"

// Config is the effective petvida configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database" json:"database,omitempty" yaml:"database"`
	Log      LogConfig      `koanf:"log" json:"log,omitempty" yaml:"log"`
	Metrics  MetricsConfig  `koanf:"metrics" json:"metrics,omitempty" yaml:"metrics"`
	Admin    AdminConfig    `koanf:"admin" json:"admin,omitempty" yaml:"admin"`
}

// DatabaseConfig locates the PostgreSQL server.
type DatabaseConfig struct {
	URL            string        `koanf:"url" json:"url,omitempty" yaml:"url" jsonschema:"description=PostgreSQL connection URL"`
	ConnectRetries uint64        `koanf:"connect_retries" json:"connect_retries,omitempty" yaml:"connect_retries" jsonschema:"description=Extra connection attempts while the server is unreachable"`
	ConnectBackoff time.Duration `koanf:"connect_backoff" json:"connect_backoff,omitempty" yaml:"connect_backoff" jsonschema:"type=string,pattern=^([0-9]+(\\.[0-9]+)?(ns|us|ms|s|m|h))+$,description=Base delay between connection attempts"`
}

// LogConfig controls the structured log.
type LogConfig struct {
	Format string `koanf:"format" json:"format,omitempty" yaml:"format" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" json:"level,omitempty" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	// File is a path, "-" for standard error, or empty for the state dir.
	File string `koanf:"file" json:"file,omitempty" yaml:"file" jsonschema:"description=Log file path; - writes to standard error"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	// Addr is empty when the endpoint is disabled.
	Addr string `koanf:"addr" json:"addr,omitempty" yaml:"addr" jsonschema:"description=Listen address of the metrics endpoint; empty disables it"`
}

// AdminConfig names the administrator created on first run.
type AdminConfig struct {
	Handle string `koanf:"handle" json:"handle,omitempty" yaml:"handle"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{ConnectRetries: 5, ConnectBackoff: 500 * time.Millisecond},
		Log:      LogConfig{Format: "json", Level: "info"},
		Admin:    AdminConfig{Handle: auth.DefaultAdminHandle},
	}
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"database.connect_retries": d.Database.ConnectRetries,
		"database.connect_backoff": d.Database.ConnectBackoff.String(),
		"database.url":             d.Database.URL,
		"log.format":               d.Log.Format,
		"log.level":                d.Log.Level,
		"log.file":                 d.Log.File,
		"metrics.addr":             d.Metrics.Addr,
		"admin.handle":             d.Admin.Handle,
	}
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"DATABASE_URL":                     "database.url",
	"PETVIDA_DATABASE_CONNECT_RETRIES": "database.connect_retries",
	"PETVIDA_DATABASE_CONNECT_BACKOFF": "database.connect_backoff",
	"PETVIDA_LOG_FORMAT":               "log.format",
	"PETVIDA_LOG_LEVEL":                "log.level",
	"PETVIDA_LOG_FILE":                 "log.file",
	"PETVIDA_METRICS_ADDR":             "metrics.addr",
	"PETVIDA_ADMIN_HANDLE":             "admin.handle",
}

// FlagKeys maps command flag names to config keys.
var FlagKeys = map[string]string{
	"database-url": "database.url",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"metrics-addr": "metrics.addr",
	"admin-handle": "admin.handle",
}

// BindFlags registers the flags named in FlagKeys on fs.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("database-url", "", "PostgreSQL connection URL (overrides DATABASE_URL)")
	fs.String("log-format", d.Log.Format, "log format: json or text")
	fs.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	fs.String("log-file", "", `log file path, "-" for stderr (default: XDG state dir)`)
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address (disabled when empty)")
	fs.String("admin-handle", d.Admin.Handle, "handle of the administrator created on first run")
}

// Sources names where Load reads from. Zero values select the defaults.
type Sources struct {
	// File is an explicit YAML file. When empty the XDG config file is used
	// if it exists.
	File string
	// EnvFile is an explicit .env file. When empty DefaultEnvFile is used if
	// it exists.
	EnvFile string
	// Flags are applied last. Only flags the user set override other
	// sources.
	Flags *pflag.FlagSet
}

// Load builds the effective configuration. It does not validate it.
func Load(src Sources) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code(CodeInvalid).With("source", "defaults").Wrap(err)
	}

	path, err := configFile(src.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeInvalid).With("source", path).Wrapf(err, "read config file")
		}
	}

	dotenv, err := readEnvFile(src.EnvFile)
	if err != nil {
		return nil, err
	}
	if len(dotenv) > 0 {
		if err := k.Load(confmap.Provider(dotenv, "."), nil); err != nil {
			return nil, oops.Code(CodeInvalid).With("source", "env file").Wrap(err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, oops.Code(CodeInvalid).With("source", "environment").Wrap(err)
	}

	if src.Flags != nil {
		provider := posflag.ProviderWithFlag(src.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := FlagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, f.Value.String()
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code(CodeInvalid).With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "decode config")
	}
	return &cfg, nil
}

func envKey(name string) string {
	return envKeys[name]
}

func configFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", oops.Code(CodeInvalid).With("path", explicit).Wrapf(err, "config file")
		}
		return explicit, nil
	}
	path, err := xdg.ConfigFile()
	if err != nil {
		// No home directory: there is no default file to read.
		return "", nil //nolint:nilerr // the default file is optional
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil //nolint:nilerr // the default file is optional
	}
	return path, nil
}

func readEnvFile(explicit string) (map[string]any, error) {
	path := explicit
	if path == "" {
		path = DefaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if explicit == "" && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, oops.Code(CodeInvalid).With("path", path).Wrapf(err, "read env file")
	}
	out := make(map[string]any, len(vars))
	for name, value := range vars {
		if key := envKey(name); key != "" {
			out[key] = value
		}
	}
	return out, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return invalid("database.url", "database url is required (set DATABASE_URL or --database-url)")
	}
	if c.Database.ConnectBackoff < 0 {
		return invalid("database.connect_backoff", "connect backoff must not be negative")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return invalid("log.format", "log format must be json or text, got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return oops.Code(CodeInvalid).With("field", "log.level").Wrap(err)
	}
	if err := auth.ValidateHandle(c.Admin.Handle); err != nil {
		return oops.Code(CodeInvalid).With("field", "admin.handle").Wrap(err)
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return oops.Code(CodeInvalid).With("field", field).Errorf(format, args...)
}

// Redacted returns a copy safe to print: the database password is masked.
func (c Config) Redacted() Config {
	if u, err := url.Parse(c.Database.URL); err == nil && u.User != nil {
		c.Database.URL = u.Redacted()
	}
	return c
}
