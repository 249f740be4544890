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

package copier

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/textpipe/pkg/config"
	"github.com/walteh/textpipe/pkg/log"
	"github.com/walteh/textpipe/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📦 Job is one configured copy: a source file or glob and a target directory
type Job struct {
	Source    string
	TargetDir string
}

// 🔧 Options controls how jobs run
type Options struct {
	// Debug prints the resolved paths before copying
	Debug bool
	// DryRun prints the resolved paths and copies nothing
	DryRun bool
	// Async copies files concurrently
	Async bool
}

// 📊 Result is the outcome of one file copy
type Result struct {
	Paths  PathTriple
	Status status.FileStatus
}

// 🏃 Runner executes copy jobs
type Runner struct {
	baseDir   string
	opts      Options
	formatter status.FileFormatter
}

// 🏗️ NewRunner creates a new runner resolving jobs against baseDir
func NewRunner(baseDir string, opts Options) *Runner {
	return &Runner{
		baseDir:   baseDir,
		opts:      opts,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🏗️ NewRunnerFromConfig creates a runner and its jobs from cfg. Options
// enabled in either cfg or overrides are enabled on the runner.
func NewRunnerFromConfig(cfg *config.Config, overrides Options) (*Runner, []Job) {
	jobs := make([]Job, 0, len(cfg.Copies))
	for _, c := range cfg.Copies {
		jobs = append(jobs, Job{Source: c.Source, TargetDir: c.TargetDir})
	}
	return NewRunner(cfg.BaseDir, Options{
		Debug:  cfg.Debug || overrides.Debug,
		DryRun: cfg.DryRun || overrides.DryRun,
		Async:  cfg.Async || overrides.Async,
	}), jobs
}

// 🔍 Plan expands every job into path triples. Two sources copying to the
// same target are rejected.
func (r *Runner) Plan(jobs []Job) ([]PathTriple, error) {
	var triples []PathTriple
	seen := map[string]string{}
	for _, job := range jobs {
		expanded, err := Expand(r.baseDir, job.Source, job.TargetDir)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", job.Source, err)
		}
		for _, p := range expanded {
			if prev, ok := seen[p.TargetPath]; ok {
				return nil, errors.Errorf("%w: %s and %s both copy to %s", ErrInvalidPath, prev, p.SourcePath, p.TargetPath)
			}
			seen[p.TargetPath] = p.SourcePath
			triples = append(triples, p)
		}
	}
	return triples, nil
}

// 🏃 Run plans and executes jobs. Results are returned in plan order.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	logger := zerolog.Ctx(ctx)

	triples, err := r.Plan(jobs)
	if err != nil {
		return nil, err
	}

	if r.opts.Debug || r.opts.DryRun {
		entries := make([]log.PathEntry, len(triples))
		for i, p := range triples {
			entries[i] = log.PathEntry{BaseDir: p.BaseDir, Source: p.SourcePath, Target: p.TargetPath}
		}
		log.FromContext(ctx).LogPaths(ctx, entries)
	}

	results := make([]Result, len(triples))
	for i, p := range triples {
		results[i] = Result{Paths: p, Status: status.StatusSkipped}
	}

	if r.opts.DryRun {
		for _, p := range triples {
			logger.Info().Str("target", p.TargetPath).Msg(r.formatter.FormatFileOperation(p.TargetPath, status.StatusSkipped))
		}
		return results, nil
	}

	var (
		mu   sync.Mutex
		done int
	)
	logger.Info().Int("total", len(triples)).Msg(r.formatter.FormatProgress(0, len(triples)))
	copyOne := func(ctx context.Context, i int) error {
		st, err := CopyFile(ctx, triples[i])
		if err != nil {
			err = errors.Errorf("copying %s: %w", triples[i].SourcePath, err)
			logger.Error().Str("source", triples[i].SourcePath).Msg(r.formatter.FormatError(err))
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		results[i].Status = st
		done++
		logger.Info().
			Int("processed", done).
			Int("total", len(triples)).
			Msg(r.formatter.FormatProgress(done, len(triples)))
		return nil
	}

	if r.opts.Async {
		return results, r.runAsync(ctx, len(triples), copyOne)
	}
	return results, r.runSync(ctx, len(triples), copyOne)
}

// 🔄 runSync copies files one after another, stopping at the first error
func (r *Runner) runSync(ctx context.Context, n int, fn func(context.Context, int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync copies files concurrently and returns the first error
func (r *Runner) runAsync(ctx context.Context, n int, fn func(context.Context, int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
