package executor

import (
	"fmt"
	"strings"
)

// Language is a function runtime language supported by the warm pools.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
)

// Technology selects the container virtualization backend. Both are
// addressed through the Docker Engine API; gVisor containers are created
// with the runsc runtime.
type Technology string

const (
	TechDocker Technology = "docker"
	TechGVisor Technology = "gvisor"
)

// ParseLanguage validates a registry-supplied language string.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(s)) {
	case LangPython:
		return LangPython, nil
	case LangJavaScript:
		return LangJavaScript, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
}

// ParseTechnology maps a caller-supplied technology string onto the closed
// enum. Unknown or empty values fall back to the standard docker runtime;
// the API contract is permissive here.
func ParseTechnology(s string) Technology {
	if Technology(strings.ToLower(s)) == TechGVisor {
		return TechGVisor
	}
	return TechDocker
}

// Runtime returns the docker runtime name passed at container creation.
// The empty string means the engine default (runc).
func (t Technology) Runtime() string {
	if t == TechGVisor {
		return "runsc"
	}
	return ""
}

// EntryFile is the staged file name for a language inside the invocation
// directory.
func (l Language) EntryFile() string {
	if l == LangJavaScript {
		return "main.js"
	}
	return "main.py"
}

// Command builds the in-container run command for a staged entry file.
// The GNU timeout wrapper is the sole timeout enforcement for user code:
// an overrunning function is killed at the shell level so it cannot hang
// the warm container for future invocations.
func (l Language) Command(path string, timeoutSec int) []string {
	interp := "python3"
	if l == LangJavaScript {
		interp = "node"
	}
	return []string{"sh", "-c", fmt.Sprintf("timeout %d %s %s", timeoutSec, interp, path)}
}

// PoolKey identifies one warm container pool.
type PoolKey struct {
	Tech Technology
	Lang Language
}

func (k PoolKey) String() string {
	return string(k.Tech) + "/" + string(k.Lang)
}

// ContainerName derives the deterministic name of the i-th pool member,
// e.g. "python_gvisor_pool_0". Names are stable across restarts so startup
// can reconcile against containers that already exist.
func (k PoolKey) ContainerName(i int) string {
	return fmt.Sprintf("%s_%s_pool_%d", k.Lang, k.Tech, i)
}
