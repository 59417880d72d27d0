package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	units "github.com/docker/go-units"
	"github.com/rs/zerolog"
)

// ContainerHandle is one long-lived warm container owned by a pool. The
// dispatcher borrows handles for the duration of an invocation but never
// destroys them; containers live for the whole process lifetime.
type ContainerHandle struct {
	ID   string
	Name string
	Key  PoolKey
}

// pool is a fixed, ordered set of handles plus a rotation cursor. The
// cursor read and advance happen under the pool's own lock so concurrent
// acquisitions never observe the same cursor value; one lock per pool keeps
// unrelated (technology, language) traffic from serializing.
type pool struct {
	mu      sync.Mutex
	cursor  int
	handles []*ContainerHandle
}

func (p *pool) next() *ContainerHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := p.handles[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.handles)
	return h
}

// PoolSpec is the desired state of one warm pool.
type PoolSpec struct {
	Tech       Technology
	Lang       Language
	Size       int
	Image      string
	CPULimit   float64 // cores per container
	MemLimitMB int
}

// PoolManager owns every warm pool, keyed by (technology, language).
// Pools are created once at startup; Acquire is safe for concurrent use.
type PoolManager struct {
	engine Engine
	lg     zerolog.Logger

	mu    sync.RWMutex
	pools map[PoolKey]*pool
}

func NewPoolManager(engine Engine, lg zerolog.Logger) *PoolManager {
	return &PoolManager{
		engine: engine,
		lg:     lg.With().Str("component", "pool-manager").Logger(),
		pools:  make(map[PoolKey]*pool),
	}
}

// keepAliveCmd keeps a warm container alive between invocations.
var keepAliveCmd = []string{"sleep", "infinity"}

// Initialize reconciles every configured pool against the engine: existing
// containers are adopted by their deterministic name, missing ones are
// created with the technology's runtime flag. Any fetch or create failure
// degrades the whole key: it is left out of the active set and acquisitions
// against it fail with ErrPoolUnavailable. Startup itself never fails here,
// so an optional technology (gVisor without runsc installed) can be absent
// without disabling the rest of the system.
func (m *PoolManager) Initialize(ctx context.Context, specs []PoolSpec) {
	for _, spec := range specs {
		key := PoolKey{Tech: spec.Tech, Lang: spec.Lang}
		lg := m.lg.With().Str("pool", key.String()).Logger()

		if spec.Size <= 0 {
			lg.Error().Int("size", spec.Size).Msg("invalid pool size, pool degraded")
			continue
		}

		handles, err := m.reconcile(ctx, key, spec)
		if err != nil {
			lg.Error().Err(err).Msg("pool reconciliation failed, pool degraded")
			continue
		}

		m.mu.Lock()
		m.pools[key] = &pool{handles: handles}
		m.mu.Unlock()
		lg.Info().Int("size", len(handles)).Msg("warm pool ready")
	}
}

func (m *PoolManager) reconcile(ctx context.Context, key PoolKey, spec PoolSpec) ([]*ContainerHandle, error) {
	handles := make([]*ContainerHandle, 0, spec.Size)
	for i := 0; i < spec.Size; i++ {
		name := key.ContainerName(i)

		id, err := m.engine.FindContainer(ctx, name)
		switch {
		case err == nil:
			// Adopt the container left over from a previous run.
		case errors.Is(err, ErrContainerNotFound):
			id, err = m.engine.CreateContainer(ctx, CreateOpts{
				Name:        name,
				Image:       spec.Image,
				Runtime:     key.Tech.Runtime(),
				Cmd:         keepAliveCmd,
				Labels:      map[string]string{"faas.pool": key.String()},
				NanoCPUs:    int64(spec.CPULimit * 1e9),
				MemoryBytes: int64(spec.MemLimitMB) * units.MiB,
			})
			if err != nil {
				return nil, fmt.Errorf("create %s: %w", name, err)
			}
		default:
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}

		// Pre-start so the first invocation skips the cold path. The
		// dispatcher re-checks liveness on every acquisition, so a failure
		// here is not fatal to the pool.
		if err := m.engine.StartContainer(ctx, id); err != nil {
			m.lg.Warn().Err(err).Str("container", name).Msg("warm start failed, will retry on first use")
		}

		handles = append(handles, &ContainerHandle{ID: id, Name: name, Key: key})
	}
	return handles, nil
}

// Acquire returns the next handle for the key by round-robin. It never
// blocks: unknown and degraded keys fail immediately with
// ErrPoolUnavailable. The cursor advances on every call regardless of the
// health of the returned container.
func (m *PoolManager) Acquire(key PoolKey) (*ContainerHandle, error) {
	m.mu.RLock()
	p, ok := m.pools[key]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolUnavailable, key)
	}
	return p.next(), nil
}

// Keys lists the active (non-degraded) pool keys.
func (m *PoolManager) Keys() []PoolKey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]PoolKey, 0, len(m.pools))
	for k := range m.pools {
		keys = append(keys, k)
	}
	return keys
}
