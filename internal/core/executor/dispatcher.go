package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FunctionSpec is the read-only view of a registered function that the
// dispatcher needs. The registry owns the full record.
type FunctionSpec struct {
	ID         string
	Name       string
	Language   string
	Code       string
	TimeoutSec int
}

// ExecutionResult is the outcome of one invocation. A non-zero ExitCode is
// a user function failure, not a system error: it is still returned to the
// caller with both output streams populated.
type ExecutionResult struct {
	Stdout        string
	Stderr        string
	ExitCode      int
	Duration      time.Duration
	ContainerName string
}

// Telemetry receives per-invocation measurements. Implementations must be
// safe for concurrent use from many in-flight executions.
type Telemetry interface {
	RecordRequest(fnID, fnName string, lang Language, tech Technology)
	RecordError(fnID, fnName string, lang Language, tech Technology)
	RecordDuration(fnID, fnName string, lang Language, tech Technology, seconds float64)
	RecordContainerStats(containerName string, cpuTotal, memUsage uint64)
}

// Dispatcher orchestrates one invocation end to end: borrow a warm
// container, stage the code under an invocation-scoped path, run it with a
// bounded command, collect output and telemetry.
type Dispatcher struct {
	pools       *PoolManager
	engine      Engine
	telemetry   Telemetry
	sandboxRoot string
	lg          zerolog.Logger
}

func NewDispatcher(pools *PoolManager, engine Engine, telemetry Telemetry, sandboxRoot string, lg zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		pools:       pools,
		engine:      engine,
		telemetry:   telemetry,
		sandboxRoot: sandboxRoot,
		lg:          lg.With().Str("component", "dispatcher").Logger(),
	}
}

// invocation is the ephemeral per-request context. The destination path is
// namespaced by the invocation ID, not the function ID: two concurrent
// invocations of the same function on the same container must never share
// staged files.
type invocation struct {
	id      string
	hostDir string
	destDir string
}

func (d *Dispatcher) newInvocation() (*invocation, error) {
	hostDir, err := os.MkdirTemp("", "faas-inv-")
	if err != nil {
		return nil, fmt.Errorf("%w: create staging dir: %v", ErrStaging, err)
	}
	id := uuid.NewString()
	return &invocation{
		id:      id,
		hostDir: hostDir,
		destDir: path.Join(d.sandboxRoot, id),
	}, nil
}

// cleanup releases host-side staging resources. Runs on every exit path.
func (inv *invocation) cleanup(lg zerolog.Logger) {
	if err := os.RemoveAll(inv.hostDir); err != nil {
		lg.Error().Err(err).Str("path", inv.hostDir).Msg("failed to remove staging dir")
	}
}

// Execute runs one invocation of fn on a warm container of the requested
// technology.
func (d *Dispatcher) Execute(ctx context.Context, fn FunctionSpec, tech Technology) (*ExecutionResult, error) {
	lang, err := ParseLanguage(fn.Language)
	if err != nil {
		return nil, err
	}

	handle, err := d.pools.Acquire(PoolKey{Tech: tech, Lang: lang})
	if err != nil {
		return nil, err
	}

	d.telemetry.RecordRequest(fn.ID, fn.Name, lang, tech)

	lg := d.lg.With().
		Str("function_id", fn.ID).
		Str("container", handle.Name).
		Str("technology", string(tech)).
		Logger()

	if err := d.ensureRunning(ctx, handle); err != nil {
		return nil, err
	}

	inv, err := d.newInvocation()
	if err != nil {
		return nil, err
	}
	defer inv.cleanup(lg)

	if err := d.stage(ctx, handle, inv, fn.Code, lang); err != nil {
		return nil, err
	}

	entryPath := path.Join(inv.destDir, lang.EntryFile())
	start := time.Now()
	out, err := d.engine.Exec(ctx, handle.ID, lang.Command(entryPath, fn.TimeoutSec))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	elapsed := time.Since(start)

	d.telemetry.RecordDuration(fn.ID, fn.Name, lang, tech, elapsed.Seconds())
	if out.ExitCode != 0 {
		// User code failed; a normal result for the caller, an error for
		// the metrics.
		d.telemetry.RecordError(fn.ID, fn.Name, lang, tech)
		lg.Info().Int("exit_code", out.ExitCode).Msg("function exited non-zero")
	}

	d.collectStats(ctx, handle, lg)

	return &ExecutionResult{
		Stdout:        out.Stdout,
		Stderr:        out.Stderr,
		ExitCode:      out.ExitCode,
		Duration:      elapsed,
		ContainerName: handle.Name,
	}, nil
}

// ensureRunning recovers pool containers that were stopped out-of-band.
func (d *Dispatcher) ensureRunning(ctx context.Context, handle *ContainerHandle) error {
	state, err := d.engine.ContainerState(ctx, handle.ID)
	if err == nil && state == StateRunning {
		return nil
	}
	if err := d.engine.StartContainer(ctx, handle.ID); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrContainerStart, handle.Name, err)
	}
	return nil
}

// stage prepares the invocation-scoped directory inside the container and
// copies the packaged source into it. The rm clears any leftover from an
// earlier invocation that happened to reuse the same ID path.
func (d *Dispatcher) stage(ctx context.Context, handle *ContainerHandle, inv *invocation, code string, lang Language) error {
	mkdir := []string{"sh", "-c", fmt.Sprintf("rm -rf %s && mkdir -p %s", inv.destDir, inv.destDir)}
	if out, err := d.engine.Exec(ctx, handle.ID, mkdir); err != nil {
		return fmt.Errorf("%w: prepare dir: %v", ErrStaging, err)
	} else if out.ExitCode != 0 {
		return fmt.Errorf("%w: prepare dir: exit %d: %s", ErrStaging, out.ExitCode, out.Stderr)
	}

	fragment := path.Join(inv.id, lang.EntryFile())
	archive, err := Package(code, fragment, inv.hostDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStaging, err)
	}

	if err := d.engine.CopyTo(ctx, handle.ID, d.sandboxRoot, bytes.NewReader(archive)); err != nil {
		return fmt.Errorf("%w: copy archive: %v", ErrStaging, err)
	}
	return nil
}

// collectStats records last-observed container gauges. Best effort: a
// failed reading is logged and skipped, never surfaced to the caller.
func (d *Dispatcher) collectStats(ctx context.Context, handle *ContainerHandle, lg zerolog.Logger) {
	stats, err := d.engine.Stats(ctx, handle.ID)
	if err != nil {
		lg.Warn().Err(err).Msg("container stats unavailable")
		return
	}
	d.telemetry.RecordContainerStats(handle.Name, stats.CPUTotal, stats.MemoryUsage)
}
