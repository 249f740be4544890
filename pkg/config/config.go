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
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/walteh/textpipe/pkg/text"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Transform names
const (
	TransformLink     = "link"      // Record with the line wrapped in a markdown link
	TransformPlain    = "plain"     // Record with the line verbatim
	TransformRaw      = "raw"       // Bare string, unchanged
	TransformLinkText = "link-text" // Bare string, wrapped in a markdown link
)

// 📦 CopyEntry copies one source file (or glob) into a target directory
type CopyEntry struct {
	Source    string `json:"source" yaml:"source"`
	TargetDir string `json:"target_dir" yaml:"target_dir"`
}

// 🔍 Validate checks the entry has both paths
func (e CopyEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Source, validation.Required),
		validation.Field(&e.TargetDir, validation.Required),
	)
}

// 🔧 PipelineConfig configures the text pipeline
type PipelineConfig struct {
	Input        string                 `json:"input" yaml:"input"`
	Output       string                 `json:"output" yaml:"output"`
	Format       string                 `json:"format,omitempty" yaml:"format,omitempty"`
	Transform    string                 `json:"transform,omitempty" yaml:"transform,omitempty"`
	LinkText     string                 `json:"link_text,omitempty" yaml:"link_text,omitempty"`
	Replacements []text.ReplacementRule `json:"replacements,omitempty" yaml:"replacements,omitempty"`
	Validate     bool                   `json:"validate,omitempty" yaml:"validate,omitempty"`
}

func (p *PipelineConfig) applyDefaults() {
	if p.Format == "" {
		p.Format = FormatJSON
	}
	if p.Transform == "" {
		p.Transform = TransformLink
	}
	if p.LinkText == "" {
		p.LinkText = text.DefaultLinkText
	}
}

// 🔍 ValidateFields checks the pipeline settings
func (p *PipelineConfig) ValidateFields() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Input, validation.Required),
		validation.Field(&p.Output, validation.Required),
		validation.Field(&p.Format, validation.In(FormatJSON, FormatText)),
		validation.Field(&p.Transform, validation.In(TransformLink, TransformPlain, TransformRaw, TransformLinkText)),
		validation.Field(&p.Replacements, validation.By(func(interface{}) error {
			return text.ValidateRules(p.Replacements)
		})),
	)
}

// 📚 Config represents the complete configuration
type Config struct {
	BaseDir  string          `json:"base_dir,omitempty" yaml:"base_dir,omitempty"`
	Debug    bool            `json:"debug,omitempty" yaml:"debug,omitempty"`
	DryRun   bool            `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Async    bool            `json:"async,omitempty" yaml:"async,omitempty"`
	Copies   []CopyEntry     `json:"copy,omitempty" yaml:"copy,omitempty"`
	Pipeline *PipelineConfig `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`

	location string
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if err := validation.ValidateStruct(cfg,
		validation.Field(&cfg.BaseDir, validation.Required),
		validation.Field(&cfg.Copies),
	); err != nil {
		return err
	}

	if cfg.Pipeline != nil {
		if err := cfg.Pipeline.ValidateFields(); err != nil {
			return validation.Errors{"pipeline": err}
		}
	}

	return nil
}

// Location returns the path the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// Resolve anchors a relative path at BaseDir
func (cfg *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.BaseDir, path)
}

// finalize applies defaults and anchors BaseDir at the config file's directory
func (cfg *Config) finalize(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	cfg.location = abs

	dir := filepath.Dir(abs)
	switch {
	case cfg.BaseDir == "":
		cfg.BaseDir = dir
	case !filepath.IsAbs(cfg.BaseDir):
		cfg.BaseDir = filepath.Join(dir, cfg.BaseDir)
	default:
		cfg.BaseDir = filepath.Clean(cfg.BaseDir)
	}

	if cfg.Pipeline != nil {
		cfg.Pipeline.applyDefaults()
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	s := fmt.Sprintf("%d copies from %s", len(cfg.Copies), cfg.BaseDir)
	if cfg.Pipeline != nil {
		s += fmt.Sprintf(", pipeline %s -(%s/%s)-> %s", cfg.Pipeline.Input, cfg.Pipeline.Transform, cfg.Pipeline.Format, cfg.Pipeline.Output)
	}
	return s
}
