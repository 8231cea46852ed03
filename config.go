/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package keonk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, usually read from keonk.yaml.
type Config struct {
	Server        ServerConfig          `yaml:"server"`
	Links         Links                 `yaml:"links"`
	MaxBodyBytes  int64                 `yaml:"maxBodyBytes"`
	RedactHeaders []string              `yaml:"redactHeaders"`
	Security      SecurityHeadersConfig `yaml:"security"`
	Log           LogConfig             `yaml:"log"`
	Auth          AuthConfig            `yaml:"auth"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// AuthConfig enables the bearer-token guard on mutating routes when
// JWTSecret is non-empty.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
	Audience  string `yaml:"audience"`
}

func DefaultConfig() Config {
	return Config{
		Server:        ServerConfig{Addr: ":3000"},
		Links:         DefaultLinks(),
		MaxBodyBytes:  1 << 20,
		RedactHeaders: DefaultSanitizeConfig().Headers,
		Security:      DefaultSecurityHeadersConfig(),
		Log:           LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fill()
	return cfg, nil
}

// fill restores defaults for fields a config file blanked out.
func (c *Config) fill() {
	def := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Links.Portfolio == "" {
		c.Links.Portfolio = def.Links.Portfolio
	}
	if c.Links.Docs == "" {
		c.Links.Docs = def.Links.Docs
	}
	if c.Links.DocsV5 == "" {
		c.Links.DocsV5 = def.Links.DocsV5
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// NewLogger builds the slog.Logger described by the config.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}
