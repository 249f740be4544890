// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes, resolving variables from env
	Parse(ctx context.Context, data []byte, env Env) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🌱 Env resolves variables referenced from config files. Values from a .env
// file next to the config take precedence over the process environment.
type Env map[string]string

// Lookup returns the value for key
func (e Env) Lookup(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return os.Getenv(key)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand replaces ${VAR} references in s. A bare $ is kept as written.
func (e Env) Expand(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return e.Lookup(envRef.FindStringSubmatch(ref)[1])
	})
}

// All merges the process environment with e
func (e Env) All() map[string]string {
	all := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			all[k] = v
		}
	}
	for k, v := range e {
		all[k] = v
	}
	return all
}

// loadEnv reads the .env file in dir, if there is one
func loadEnv(ctx context.Context, dir string) (Env, error) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Env{}, nil
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("vars", len(vals)).Msg("loaded env file")
	return Env(vals), nil
}

// 🎯 Load loads the configuration from a file. The format is determined by
// the file extension: .json, .yaml/.yml or .hcl.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	env, err := loadEnv(ctx, filepath.Dir(path))
	if err != nil {
		return nil, errors.Errorf("loading env: %w", err)
	}

	cfg, err := p.Parse(ctx, data, env)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.finalize(path); err != nil {
		return nil, errors.Errorf("resolving config location: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	return cfg, nil
}
