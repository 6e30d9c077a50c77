// Package config reads conversion jobs from YAML files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mode is the direction of a conversion.
type Mode string

// Accepted modes.
const (
	MToGRO   Mode = "mdcrd2gro"
	MToMdcrd Mode = "gro2mdcrd"
	DToGRO   Mode = "dcd2gro"
	GROToD   Mode = "gro2dcd"
)

// Job is a conversion described in a configuration file. It can be
// instanced through Load or by hand; in the latter case, use Check before
// running it.
type Job struct {
	// Mode is the direction of the conversion.
	Mode Mode `yaml:"mode"`

	// Input is the trajectory to convert.
	Input string `yaml:"input"`

	// Template is the GRO file that provides the atoms for mdcrd2gro and
	// dcd2gro.
	Template string `yaml:"template"`

	// Output is the file to write.
	Output string `yaml:"output"`

	// Box tells whether the AMBER trajectory has a box line per frame.
	Box bool `yaml:"box"`

	// Title is the title of the trajectory written by gro2mdcrd or gro2dcd.
	Title string `yaml:"title"`

	// Begin is the first frame, counting from 0, that will be converted.
	Begin int `yaml:"begin"`

	// End is the frame where the conversion stops, which is not converted.
	// 0 means up to the last frame.
	End int `yaml:"end"`

	// Offset is the interval between converted frames. 0 and 1 mean every frame.
	Offset int `yaml:"offset"`

	// Overwrite allows replacing an existing output file.
	Overwrite bool `yaml:"overwrite"`

	// TempDir is where scratch files go. Defaults to the directory of Output.
	TempDir string `yaml:"temp_dir"`
}

// Load opens and decodes the job file path. Unknown keys are an error.
// Relative paths in the file are taken as relative to the directory of
// the file. Load calls Check before returning.
func Load(path string) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var j Job
	dec := yaml.NewDecoder(bufio.NewReader(f))
	dec.KnownFields(true)
	if err := dec.Decode(&j); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&j.Input, &j.Template, &j.Output, &j.TempDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	if err := j.Check(); err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}
	return &j, nil
}

// Check returns an error if a field of the job doesn't meet the requirements.
func (j *Job) Check() error {
	switch j.Mode {
	case MToGRO, DToGRO:
		if j.Template == "" {
			return fmt.Errorf("mode %s needs a template", j.Mode)
		}
	case MToMdcrd, GROToD:
	default:
		return fmt.Errorf("unknown mode %q, use one of %s, %s, %s or %s", j.Mode, MToGRO, MToMdcrd, DToGRO, GROToD)
	}
	if j.Box && j.Mode != MToGRO {
		return fmt.Errorf("box only applies to mode %s", MToGRO)
	}
	if j.Input == "" || j.Output == "" {
		return fmt.Errorf("input and output are required")
	}
	if j.Input == j.Output {
		return fmt.Errorf("input and output are the same file")
	}
	if j.Begin < 0 || j.End < 0 || j.Offset < 0 {
		return fmt.Errorf("begin, end and offset cannot be negative")
	}
	if j.End > 0 && j.End <= j.Begin {
		return fmt.Errorf("end cannot be lower or equal to begin")
	}
	return nil
}
