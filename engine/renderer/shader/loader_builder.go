package shader

import "log/slog"

// LoaderBuilderOption is a functional option applied to a loader during construction via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLoaderWorkers sets the maximum number of files read and validated concurrently.
//
// Parameters:
//   - n: the worker count, values below 1 are treated as 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithLoaderWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithValidation toggles naga validation and entry point discovery. Enabled by default.
//
// Parameters:
//   - enabled: false to only read the files
//
// Returns:
//   - LoaderBuilderOption: a function that applies the validation option to a loader
func WithValidation(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.validate = enabled
	}
}

// WithLoaderLogger sets the logger validation issues are reported to.
//
// Parameters:
//   - logger: the logger to use, nil restores the default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger to a loader
func WithLoaderLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}
