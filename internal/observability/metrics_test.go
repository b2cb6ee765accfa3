package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIndependentRegistries(t *testing.T) {
	// Two instances must not collide; each run owns its registry.
	a := NewMetrics()
	b := NewMetrics()

	a.ChartsRendered.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.ChartsRendered))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ChartsRendered))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordsParsed.WithLabelValues("DC Report").Add(4)
	m.RecordsParsed.WithLabelValues("DCX").Add(2)
	m.RecordsClassified.WithLabelValues("Weather").Add(3)
	m.MalformedStarts.Inc()
	m.RunSuccess.Set(1)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.RecordsParsed.WithLabelValues("DC Report")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsParsed.WithLabelValues("DCX")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsClassified.WithLabelValues("Weather")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MalformedStarts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunSuccess))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordsParsed.WithLabelValues("DC Report").Add(7)
	m.RunDuration.Set(0.25)
	m.RunSuccess.Set(1)

	path := filepath.Join(t.TempDir(), "dcreport.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `dcreport_records_parsed_total{report_type="DC Report"} 7`)
	assert.Contains(t, out, "dcreport_run_duration_seconds 0.25")
	assert.Contains(t, out, "dcreport_run_success 1")
	assert.Contains(t, out, "# TYPE dcreport_records_parsed_total counter")

	// No leftover temp file after the atomic rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteTextfileBadDir(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dcreport.prom"))
	require.Error(t, err)
}
