package executor

import (
	"context"
	"io"
	"strings"
	"sync"
)

// fakeEngine is an in-memory Engine for pool and dispatcher tests. Every
// mutation is recorded under a lock so tests can run invocations
// concurrently.
type fakeEngine struct {
	mu sync.Mutex

	existing map[string]string // container name -> id, adopted at reconcile
	states   map[string]ContainerState

	findErr   error
	createErr error
	startErr  error
	copyErr   error
	statsErr  error

	// execFn lets a test script command outcomes. When nil every exec
	// succeeds with empty output.
	execFn func(id string, cmd []string) (ExecOutput, error)

	created   []CreateOpts
	started   []string
	execCalls []execCall
	copies    []copyCall
	statsVal  ContainerStats
}

type execCall struct {
	id  string
	cmd []string
}

type copyCall struct {
	id   string
	dest string
	data []byte
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		existing: make(map[string]string),
		states:   make(map[string]ContainerState),
	}
}

func (f *fakeEngine) FindContainer(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return "", f.findErr
	}
	if id, ok := f.existing[name]; ok {
		return id, nil
	}
	return "", ErrContainerNotFound
}

func (f *fakeEngine) CreateContainer(_ context.Context, opts CreateOpts) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, opts)
	id := "id-" + opts.Name
	f.existing[opts.Name] = id
	return id, nil
}

func (f *fakeEngine) StartContainer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, id)
	f.states[id] = StateRunning
	return nil
}

func (f *fakeEngine) ContainerState(_ context.Context, id string) (ContainerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.states[id]; ok {
		return st, nil
	}
	return StateRunning, nil
}

func (f *fakeEngine) CopyTo(_ context.Context, id, destPath string, archive io.Reader) error {
	data, err := io.ReadAll(archive)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return f.copyErr
	}
	f.copies = append(f.copies, copyCall{id: id, dest: destPath, data: data})
	return nil
}

func (f *fakeEngine) Exec(_ context.Context, id string, cmd []string) (ExecOutput, error) {
	f.mu.Lock()
	f.execCalls = append(f.execCalls, execCall{id: id, cmd: cmd})
	fn := f.execFn
	f.mu.Unlock()
	if fn != nil {
		return fn(id, cmd)
	}
	return ExecOutput{}, nil
}

func (f *fakeEngine) Stats(_ context.Context, id string) (ContainerStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return ContainerStats{}, f.statsErr
	}
	return f.statsVal, nil
}

func (f *fakeEngine) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.started)
}

// stagedDirs extracts the invocation directories prepared via the shell
// mkdir step.
func (f *fakeEngine) stagedDirs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var dirs []string
	for _, c := range f.execCalls {
		if len(c.cmd) == 3 && strings.HasPrefix(c.cmd[2], "rm -rf ") {
			fields := strings.Fields(c.cmd[2])
			dirs = append(dirs, fields[2])
		}
	}
	return dirs
}

// isRunCmd reports whether an exec command is the bounded run command (as
// opposed to the staging mkdir).
func isRunCmd(cmd []string) bool {
	return len(cmd) == 3 && strings.HasPrefix(cmd[2], "timeout ")
}
