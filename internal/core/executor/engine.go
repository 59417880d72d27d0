package executor

import (
	"context"
	"errors"
	"io"
)

// ErrContainerNotFound is returned by Engine.FindContainer when no container
// carries the requested name. Startup reconciliation keys off it.
var ErrContainerNotFound = errors.New("container not found")

// ContainerState is the last state observed for a pool container.
type ContainerState string

const (
	StateUnknown ContainerState = "unknown"
	StateRunning ContainerState = "running"
	StateStopped ContainerState = "stopped"
)

// CreateOpts describes a warm container to create.
type CreateOpts struct {
	Name        string
	Image       string
	Runtime     string // docker runtime name; empty means the engine default
	Cmd         []string
	Labels      map[string]string
	NanoCPUs    int64
	MemoryBytes int64
}

// ExecOutput is the captured result of one in-container command.
type ExecOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ContainerStats is a point-in-time resource reading for one container.
type ContainerStats struct {
	CPUTotal    uint64 // cumulative CPU usage, nanoseconds
	MemoryUsage uint64 // bytes
}

// Engine abstracts the host container runtime. The pool manager and the
// dispatcher talk to containers exclusively through it, so both can be
// exercised against a fake in tests. The docker adapter is the production
// implementation; both technologies go through the same Engine, differing
// only in CreateOpts.Runtime.
type Engine interface {
	// FindContainer resolves a container name to its engine ID, or
	// ErrContainerNotFound.
	FindContainer(ctx context.Context, name string) (string, error)

	// CreateContainer creates (but does not start) a container and returns
	// its engine ID.
	CreateContainer(ctx context.Context, opts CreateOpts) (string, error)

	StartContainer(ctx context.Context, id string) error

	// ContainerState reports the live lifecycle state of a container.
	ContainerState(ctx context.Context, id string) (ContainerState, error)

	// CopyTo extracts a tar stream into destPath inside the container.
	CopyTo(ctx context.Context, id, destPath string, archive io.Reader) error

	// Exec runs cmd inside the container and waits for it, capturing stdout
	// and stderr separately.
	Exec(ctx context.Context, id string, cmd []string) (ExecOutput, error)

	// Stats returns a one-shot resource reading for the container.
	Stats(ctx context.Context, id string) (ContainerStats, error)
}
