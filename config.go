package foldpipe

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// PipelineFile is the root of a TOML pipeline definition file:
//
//	[[pipeline]]
//	name = "report"
//	logging = true
//
//	  [[pipeline.step]]
//	  name = "matrix_sort"
//	  [pipeline.step.params]
//	  column_index = 0
type PipelineFile struct {
	Pipelines []PipelineDef `toml:"pipeline"`
}

// PipelineDef declares one named pipeline and its steps.
type PipelineDef struct {
	Name    string    `toml:"name"`
	Logging bool      `toml:"logging"`
	Steps   []StepDef `toml:"step"`
}

// StepDef declares one pipeline step.
type StepDef struct {
	Name   string         `toml:"name"`
	Params map[string]any `toml:"params"`
}

// LoadPipelines reads a TOML pipeline file and builds every pipeline it
// declares through reg. Pipelines with logging enabled have their stages
// wrapped with cfg; cfg may be nil, in which case logging requests are
// ignored.
func LoadPipelines(path string, reg *Registry, cfg *LogConfig) (map[Name]*Sequence[any], error) {
	var file PipelineFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decoding pipeline file %s: %w", path, err)
	}
	return buildPipelines(file, reg, cfg)
}

// ParsePipelines is LoadPipelines for an already-open reader.
func ParsePipelines(r io.Reader, reg *Registry, cfg *LogConfig) (map[Name]*Sequence[any], error) {
	var file PipelineFile
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding pipeline definitions: %w", err)
	}
	return buildPipelines(file, reg, cfg)
}

func buildPipelines(file PipelineFile, reg *Registry, cfg *LogConfig) (map[Name]*Sequence[any], error) {
	out := make(map[Name]*Sequence[any], len(file.Pipelines))
	for _, def := range file.Pipelines {
		if def.Name == "" {
			return nil, fmt.Errorf("pipeline definition missing a name")
		}
		if _, dup := out[def.Name]; dup {
			return nil, fmt.Errorf("duplicate pipeline name %q", def.Name)
		}

		steps := make([]Step, len(def.Steps))
		for i, sd := range def.Steps {
			if sd.Name == "" {
				return nil, fmt.Errorf("pipeline %q: step %d missing a processor name", def.Name, i)
			}
			steps[i] = Step{Name: sd.Name, Params: Params(sd.Params)}
		}

		logs := cfg
		if !def.Logging {
			logs = nil
		}
		seq, err := reg.Pipeline(def.Name, logs, steps...)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", def.Name, err)
		}
		out[def.Name] = seq
	}
	return out, nil
}
