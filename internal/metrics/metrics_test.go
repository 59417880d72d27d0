package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faas-platform/internal/core/executor"
)

func TestRequestAndErrorCounters(t *testing.T) {
	m := New()

	m.RecordRequest("fn-1", "hello", executor.LangPython, executor.TechDocker)
	m.RecordRequest("fn-1", "hello", executor.LangPython, executor.TechDocker)
	m.RecordError("fn-1", "hello", executor.LangPython, executor.TechDocker)

	reqs := m.requestsTotal.WithLabelValues("fn-1", "hello", "python", "docker")
	errs := m.errorsTotal.WithLabelValues("fn-1", "hello", "python", "docker")
	assert.Equal(t, 2.0, testutil.ToFloat64(reqs))
	assert.Equal(t, 1.0, testutil.ToFloat64(errs))

	// A different label set stays at zero.
	other := m.requestsTotal.WithLabelValues("fn-1", "hello", "python", "gvisor")
	assert.Equal(t, 0.0, testutil.ToFloat64(other))
}

func TestDurationHistogramObserves(t *testing.T) {
	m := New()

	m.RecordDuration("fn-1", "hello", executor.LangPython, executor.TechDocker, 0.042)
	m.RecordDuration("fn-1", "hello", executor.LangPython, executor.TechDocker, 1.5)

	count := testutil.CollectAndCount(m.duration, "faas_execution_duration_seconds")
	assert.Equal(t, 1, count, "one populated label set")
}

func TestContainerGaugesOverwrite(t *testing.T) {
	m := New()

	m.RecordContainerStats("python_docker_pool_0", 100, 2048)
	m.RecordContainerStats("python_docker_pool_0", 250, 4096)

	cpu := m.containerCPU.WithLabelValues("python_docker_pool_0")
	mem := m.containerMemory.WithLabelValues("python_docker_pool_0")
	assert.Equal(t, 250.0, testutil.ToFloat64(cpu), "gauge keeps last observation only")
	assert.Equal(t, 4096.0, testutil.ToFloat64(mem))
}

func TestHandlerExposesSeries(t *testing.T) {
	m := New()
	m.RecordRequest("fn-1", "hello", executor.LangPython, executor.TechDocker)
	m.RecordDuration("fn-1", "hello", executor.LangPython, executor.TechDocker, 0.003)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `faas_requests_total{function_id="fn-1",function_name="hello",language="python",technology="docker"} 1`)
	// The smallest bucket covers sub-10ms calls.
	assert.Contains(t, body, `le="0.005"`)
	assert.True(t, strings.Contains(body, "faas_execution_duration_seconds_bucket"))
}
