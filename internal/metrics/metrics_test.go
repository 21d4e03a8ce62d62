package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMetrics is a package-level instance created once to avoid
// duplicate promauto registration panics; all tests share it through
// the singleton.
var (
	testMetrics     *DispatchMetrics
	testMetricsOnce sync.Once
	testReg         *prometheus.Registry
)

func getTestMetrics() (*DispatchMetrics, *prometheus.Registry) {
	testMetricsOnce.Do(func() {
		testMetrics = GetDispatchMetrics()
		testReg = prometheus.NewRegistry()
		testMetrics.MustRegister(testReg)
	})
	return testMetrics, testReg
}

// gatherAndFind gathers metrics from the registry and checks that the
// named metric family exists and has at least one metric.
func gatherAndFind(t *testing.T, reg *prometheus.Registry, name string) {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range mfs {
		if mf.GetName() == name {
			found = true
			assert.NotEmpty(t, mf.GetMetric(),
				"%s should have at least one metric", name)
			break
		}
	}
	assert.True(t, found, "%s should be present in gathered metrics", name)
}

func TestGetDispatchMetrics_Singleton(t *testing.T) {
	m1 := GetDispatchMetrics()
	m2 := GetDispatchMetrics()

	require.NotNil(t, m1)
	assert.Same(t, m1, m2, "should return same instance")
}

func TestDispatchMetrics_MustRegister_Duplicate(t *testing.T) {
	m, reg := getTestMetrics()

	// Second registration of the same collectors should not panic
	// because AlreadyRegisteredError is silently ignored.
	assert.NotPanics(t, func() {
		m.MustRegister(reg)
	})
}

func TestDispatchMetrics_RecordRequest(t *testing.T) {
	m, reg := getTestMetrics()

	before := testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues("/users/:id", "GET", "200"),
	)

	m.RecordRequest("/users/:id", "GET", 200, 50*time.Millisecond)

	gatherAndFind(t, reg, "router_dispatch_requests_total")
	gatherAndFind(t, reg, "router_dispatch_request_duration_seconds")

	after := testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues("/users/:id", "GET", "200"),
	)
	assert.Equal(t, before+1, after)
}

func TestDispatchMetrics_RecordHandlerFailure(t *testing.T) {
	m, reg := getTestMetrics()

	before := testutil.ToFloat64(
		m.HandlerFailuresTotal.WithLabelValues("/fail", "POST"),
	)

	m.RecordHandlerFailure("/fail", "POST")

	gatherAndFind(t, reg, "router_dispatch_handler_failures_total")

	after := testutil.ToFloat64(
		m.HandlerFailuresTotal.WithLabelValues("/fail", "POST"),
	)
	assert.Equal(t, before+1, after)
}

func TestDispatchMetrics_RecordNotFound(t *testing.T) {
	m, reg := getTestMetrics()

	before := testutil.ToFloat64(m.NotFoundTotal.WithLabelValues("GET"))

	m.RecordNotFound("GET")

	gatherAndFind(t, reg, "router_dispatch_not_found_total")

	after := testutil.ToFloat64(m.NotFoundTotal.WithLabelValues("GET"))
	assert.Equal(t, before+1, after)
}

func TestIsAlreadyRegistered(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "AlreadyRegisteredError",
			err:      prometheus.AlreadyRegisteredError{},
			expected: true,
		},
		{
			name:     "other error",
			err:      assert.AnError,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isAlreadyRegistered(tt.err))
		})
	}
}

func TestDispatchMetrics_ConcurrentAccess(t *testing.T) {
	m, _ := getTestMetrics()

	const goroutines = 10
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				m.RecordRequest("/concurrent", "GET", 200, time.Millisecond)
				m.RecordHandlerFailure("/concurrent", "GET")
				m.RecordNotFound("GET")
			}
		}()
	}

	wg.Wait()
}
