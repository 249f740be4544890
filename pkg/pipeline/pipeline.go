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

// Package pipeline runs the load → transform → save sequence over a text file.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/textpipe/pkg/config"
	"github.com/walteh/textpipe/pkg/log"
	"github.com/walteh/textpipe/pkg/status"
	"github.com/walteh/textpipe/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrUnknownTransform = errors.Base("unknown transform")
	ErrUnknownFormat    = errors.Base("unknown format")
)

// 🔧 Options configures one pipeline run
type Options struct {
	Input        string
	Output       string
	Format       string // config.FormatJSON or config.FormatText
	Transform    string // one of the config.Transform* names
	LinkText     string
	Replacements []text.ReplacementRule
	Validate     bool
	Clock        text.Clock
}

// OptionsFromConfig builds options from cfg with paths anchored at the base dir
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg.Pipeline == nil {
		return Options{}, errors.New("no pipeline configured")
	}
	p := cfg.Pipeline
	return Options{
		Input:        cfg.Resolve(p.Input),
		Output:       cfg.Resolve(p.Output),
		Format:       p.Format,
		Transform:    p.Transform,
		LinkText:     p.LinkText,
		Replacements: p.Replacements,
		Validate:     p.Validate,
	}, nil
}

// 📊 Result describes a completed run
type Result struct {
	Lines        int
	Replacements int
	Status       status.FileStatus
	// LoadErr is the read error the fail-soft load turned into an empty input
	LoadErr error
}

// 🏭 Pipeline runs the load, transform and save steps in sequence
type Pipeline struct {
	opts      Options
	templater *text.Templater
	replacer  *text.Replacer
}

// New checks opts and creates a pipeline
func New(opts Options) (*Pipeline, error) {
	if opts.Format == "" {
		opts.Format = config.FormatJSON
	}
	if opts.Transform == "" {
		opts.Transform = config.TransformLink
	}
	if opts.Clock == nil {
		opts.Clock = text.SystemClock
	}

	switch opts.Format {
	case config.FormatJSON, config.FormatText:
	default:
		return nil, errors.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	switch opts.Transform {
	case config.TransformLink, config.TransformPlain, config.TransformRaw, config.TransformLinkText:
	default:
		return nil, errors.Errorf("%w: %q", ErrUnknownTransform, opts.Transform)
	}

	if err := text.ValidateRules(opts.Replacements); err != nil {
		return nil, errors.Errorf("validating replacements: %w", err)
	}

	return &Pipeline{
		opts:      opts,
		templater: &text.Templater{Clock: opts.Clock, LinkText: opts.LinkText},
		replacer:  text.NewReplacer(opts.Replacements),
	}, nil
}

// Run creates a pipeline for opts and executes it
func Run(ctx context.Context, opts Options) (*Result, error) {
	p, err := New(opts)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx)
}

// 🏃 Execute loads the input, transforms every line and writes the output.
// A failed load yields an empty input; a failed write is returned.
func (p *Pipeline) Execute(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	lines, loadErr := text.TryLoadLines(ctx, p.opts.Input)
	if loadErr != nil {
		log.FromContext(ctx).Warningf("could not read %s, writing empty output", p.opts.Input)
	}

	lines, replaced := p.replacer.ReplaceLines(lines)

	data, err := p.render(lines)
	if err != nil {
		return nil, errors.Errorf("rendering output: %w", err)
	}

	st, err := text.WriteOutput(p.opts.Output, data)
	if err != nil {
		return nil, err
	}

	if p.opts.Validate && p.opts.Format == config.FormatJSON {
		if err := ValidateOutput(p.opts.Output); err != nil {
			return nil, errors.Errorf("validating output: %w", err)
		}
		logger.Debug().Str("path", p.opts.Output).Msg("output matches schema")
	}

	logger.Info().
		Str("input", p.opts.Input).
		Str("output", p.opts.Output).
		Str("transform", p.opts.Transform).
		Int("lines", len(lines)).
		Int("replacements", replaced).
		Msg("pipeline complete")

	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:   p.opts.Output,
		Source: p.opts.Input,
		Kind:   p.opts.Format,
		Status: st,
		Count:  len(lines),
	})

	return &Result{
		Lines:        len(lines),
		Replacements: replaced,
		Status:       st,
		LoadErr:      loadErr,
	}, nil
}

// render applies the transform and encodes the output format
func (p *Pipeline) render(lines []string) ([]byte, error) {
	switch p.opts.Transform {
	case config.TransformLink, config.TransformPlain:
		fn := p.templater.LinkRecord
		if p.opts.Transform == config.TransformPlain {
			fn = p.templater.PlainRecord
		}
		records := text.ApplyTransform(lines, fn)
		if p.opts.Format == config.FormatText {
			return text.EncodeLines(answers(records)), nil
		}
		return text.EncodeJSON(records)
	default:
		fn := text.Identity
		if p.opts.Transform == config.TransformLinkText {
			fn = p.templater.LinkString
		}
		strs := text.ApplyTransform(lines, fn)
		if p.opts.Format == config.FormatText {
			return text.EncodeLines(strs), nil
		}
		return text.EncodeJSON(strs)
	}
}

func answers(records []text.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Answer
	}
	return out
}
