package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	assert.True(t, called, "custom logger was not called")

	called = false
	SetLogger(nil)
	Logf("test message")
	assert.False(t, called, "no-op logger should not have triggered callback")
}

func TestCapture(t *testing.T) {
	original := Logf
	lines, restore := Capture()
	Logf("intersection %s: %d rows", "3084", 12)
	Logf("done")
	restore()

	assert.Equal(t, []string{"intersection 3084: 12 rows", "done"}, *lines)
	assert.NotNil(t, Logf)
	Logf = original
}

func TestMetricsRegistered(t *testing.T) {
	DashboardRequests.WithLabelValues("t1", "json").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(DashboardRequests.WithLabelValues("t1", "json")))

	LoadedRows.WithLabelValues("t1").Set(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(LoadedRows.WithLabelValues("t1")))
}
