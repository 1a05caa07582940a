package shader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Stage identifies the pipeline stage a WGSL entry point runs in.
type Stage int

const (
	// StageVertex is the vertex stage of a render pipeline.
	StageVertex Stage = iota

	// StageFragment is the fragment stage of a render pipeline, paired with a vertex stage.
	StageFragment

	// StageCompute indicates a @compute entry point.
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Source is WGSL source text for one pipeline stage.
// A single file may back both the vertex and the fragment Source of a pipeline.
type Source struct {
	// Key identifies the source in logs and is used as the shader module label.
	Key string

	// Stage is the stage the source is compiled for.
	Stage Stage

	// Path is the file the source was read from, empty for inline sources.
	Path string

	// Code is the WGSL source text.
	Code string

	// EntryPoint is the function name for Stage. When empty it is resolved from the source
	// (see Module.EntryPoint) or falls back to the conventional name.
	EntryPoint string
}

// DefaultEntryPoint returns the conventional entry point name for a stage: vs_main, fs_main or cs_main.
//
// Parameters:
//   - stage: the pipeline stage
//
// Returns:
//   - string: the conventional entry point name
func DefaultEntryPoint(stage Stage) string {
	switch stage {
	case StageVertex:
		return "vs_main"
	case StageFragment:
		return "fs_main"
	case StageCompute:
		return "cs_main"
	default:
		return "main"
	}
}

// Inline wraps WGSL text that did not come from a file.
//
// Parameters:
//   - key: the identifier used as the module label
//   - stage: the stage the source is compiled for
//   - code: the WGSL source text
//
// Returns:
//   - Source: the source with no path
func Inline(key string, stage Stage, code string) Source {
	return Source{Key: key, Stage: stage, Code: code}
}

// ReadSource reads a WGSL file from disk. The key defaults to the file name without extension.
//
// Parameters:
//   - path: the file to read
//   - stage: the stage the source is compiled for
//
// Returns:
//   - Source: the loaded source
//   - error: the read error, or ErrEmptySource for a blank file
func ReadSource(path string, stage Stage) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("shader: failed to read source file %q: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return Source{}, fmt.Errorf("%w: %s", ErrEmptySource, path)
	}
	return Source{
		Key:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Stage: stage,
		Path:  path,
		Code:  string(data),
	}, nil
}
