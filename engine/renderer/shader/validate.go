package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// EntryPoint is an entry point function declared by a WGSL source.
type EntryPoint struct {
	Name  string
	Stage Stage

	// Workgroup is the @workgroup_size of a compute entry point, zero otherwise.
	Workgroup [3]uint32
}

// Module is the result of checking a WGSL source without a GPU.
type Module struct {
	// EntryPoints lists the vertex, fragment and compute entry points in declaration order.
	EntryPoints []EntryPoint

	// Issues are the problems reported by IR validation. The native compiler remains the
	// authority on whether a module compiles, so issues are reported rather than failing Validate.
	Issues []error
}

// EntryPoint returns the first entry point declared for a stage.
//
// Parameters:
//   - stage: the stage to look up
//
// Returns:
//   - string: the entry point function name
//   - error: ErrEntryPointNotFound if the source declares none for the stage
func (m *Module) EntryPoint(stage Stage) (string, error) {
	for _, ep := range m.EntryPoints {
		if ep.Stage == stage {
			return ep.Name, nil
		}
	}
	return "", fmt.Errorf("%w: no %s entry point", ErrEntryPointNotFound, stage)
}

// Err joins the validation issues into a single error, nil when there are none.
func (m *Module) Err() error {
	return errors.Join(m.Issues...)
}

// Validate parses, lowers and validates WGSL source with the pure Go naga front end.
// Parse and lowering failures are returned as errors wrapping ErrInvalidSource.
//
// Parameters:
//   - code: the WGSL source text
//
// Returns:
//   - *Module: the entry points and validation issues of the source
//   - error: ErrEmptySource, or an error wrapping ErrInvalidSource
func Validate(code string) (*Module, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptySource
	}
	ast, err := naga.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	lowered, err := naga.LowerWithSource(ast, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	m := &Module{}
	for _, ep := range lowered.EntryPoints {
		stage, ok := fromIRStage(ep.Stage)
		if !ok {
			continue
		}
		m.EntryPoints = append(m.EntryPoints, EntryPoint{
			Name:      ep.Name,
			Stage:     stage,
			Workgroup: ep.Workgroup,
		})
	}

	issues, err := naga.Validate(lowered)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	for _, issue := range issues {
		m.Issues = append(m.Issues, issue)
	}
	return m, nil
}

func fromIRStage(s ir.ShaderStage) (Stage, bool) {
	switch s {
	case ir.StageVertex:
		return StageVertex, true
	case ir.StageFragment:
		return StageFragment, true
	case ir.StageCompute:
		return StageCompute, true
	default:
		return 0, false
	}
}
