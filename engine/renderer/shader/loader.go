package shader

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-display/common"
)

// Request names a WGSL file to load for a stage.
type Request struct {
	// Path is the file to read.
	Path string

	// Stage is the stage the file is compiled for.
	Stage Stage

	// EntryPoint overrides entry point discovery when set.
	EntryPoint string
}

// Loader reads and checks WGSL files before pipeline construction.
type Loader interface {
	// Load reads every requested file concurrently. When validation is enabled each source is
	// checked with Validate and a missing EntryPoint is resolved from the source.
	// Results are returned in request order. Failures are collected per file and joined.
	//
	// Parameters:
	//   - requests: the files to load
	//
	// Returns:
	//   - []Source: the loaded sources, in request order
	//   - error: every failure joined, nil when all files loaded
	Load(requests ...Request) ([]Source, error)
}

type loader struct {
	logger   *slog.Logger
	workers  int
	validate bool

	pool worker.DynamicWorkerPool
}

var _ Loader = &loader{}

// NewLoader creates a Loader. By default it validates sources and uses one worker per CPU.
//
// Parameters:
//   - options: functional options for workers, validation and logging
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:  runtime.NumCPU(),
		validate: true,
	}
	for _, opt := range options {
		opt(l)
	}
	l.logger = common.LoggerOrDefault(l.logger)

	// Workers are reused across Load calls, e.g. on every shader reload.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	return l
}

func (l *loader) Load(requests ...Request) ([]Source, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	sources := make([]Source, len(requests))
	errs := make([]error, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		idx := i
		r := req
		l.pool.SubmitTask(worker.Task{
			ID:      idx,
			Payload: r.Path,
			Do: func() (any, error) {
				defer wg.Done()
				sources[idx], errs[idx] = l.loadOne(r)
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return sources, nil
}

func (l *loader) loadOne(req Request) (Source, error) {
	src, err := ReadSource(req.Path, req.Stage)
	if err != nil {
		return Source{}, err
	}
	src.EntryPoint = req.EntryPoint
	if !l.validate {
		return src, nil
	}

	m, err := Validate(src.Code)
	if err != nil {
		return Source{}, fmt.Errorf("%s: %w", req.Path, err)
	}
	for _, issue := range m.Issues {
		l.logger.Warn("shader validation issue", slog.String("path", req.Path), slog.String("issue", issue.Error()))
	}
	if src.EntryPoint == "" {
		if src.EntryPoint, err = m.EntryPoint(req.Stage); err != nil {
			return Source{}, fmt.Errorf("%s: %w", req.Path, err)
		}
	}
	l.logger.Debug("shader loaded",
		slog.String("key", src.Key),
		slog.String("stage", src.Stage.String()),
		slog.String("entryPoint", src.EntryPoint),
	)
	return src, nil
}
