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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/textpipe/pkg/text"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Environment
// variables are available as env.NAME inside expressions.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte, env Env) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	vars := map[string]cty.Value{}
	for k, v := range env.All() {
		vars[k] = cty.StringVal(v)
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		BaseDir string `hcl:"base_dir,optional"`
		Debug   bool   `hcl:"debug,optional"`
		DryRun  bool   `hcl:"dry_run,optional"`
		Async   bool   `hcl:"async,optional"`
		Copies  []struct {
			Source    string `hcl:"source"`
			TargetDir string `hcl:"target_dir"`
		} `hcl:"copy,block"`
		Pipeline *struct {
			Input        string `hcl:"input"`
			Output       string `hcl:"output"`
			Format       string `hcl:"format,optional"`
			Transform    string `hcl:"transform,optional"`
			LinkText     string `hcl:"link_text,optional"`
			Validate     bool   `hcl:"validate,optional"`
			Replacements []struct {
				Old string `hcl:"old"`
				New string `hcl:"new"`
			} `hcl:"replacement,block"`
		} `hcl:"pipeline,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		BaseDir: hclCfg.BaseDir,
		Debug:   hclCfg.Debug,
		DryRun:  hclCfg.DryRun,
		Async:   hclCfg.Async,
	}

	for _, c := range hclCfg.Copies {
		cfg.Copies = append(cfg.Copies, CopyEntry{
			Source:    c.Source,
			TargetDir: c.TargetDir,
		})
	}

	if hp := hclCfg.Pipeline; hp != nil {
		cfg.Pipeline = &PipelineConfig{
			Input:     hp.Input,
			Output:    hp.Output,
			Format:    hp.Format,
			Transform: hp.Transform,
			LinkText:  hp.LinkText,
			Validate:  hp.Validate,
		}
		for _, r := range hp.Replacements {
			cfg.Pipeline.Replacements = append(cfg.Pipeline.Replacements, text.ReplacementRule{
				Old: r.Old,
				New: r.New,
			})
		}
	}

	return cfg, nil
}
