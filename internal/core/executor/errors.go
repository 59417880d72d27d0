package executor

import "errors"

// Failure taxonomy of the execution path. A user function exiting non-zero
// is not part of it: that is a normal ExecutionResult, not an error.
var (
	// ErrUnsupportedLanguage is a client input error: the function's
	// language is outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrPoolUnavailable means no healthy warm pool exists for the
	// requested (technology, language) pair. Retryable against the other
	// technology.
	ErrPoolUnavailable = errors.New("no warm pool available")

	// ErrContainerStart means a stopped pool container could not be
	// restarted by the engine.
	ErrContainerStart = errors.New("container start failed")

	// ErrStaging means the code archive could not be built or copied into
	// the container.
	ErrStaging = errors.New("code staging failed")

	// ErrExecution means the run command itself could not be invoked
	// inside the container.
	ErrExecution = errors.New("command execution failed")
)
