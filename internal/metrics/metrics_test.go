package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFetch(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveFetch("kyu10", 200, 100*time.Millisecond)
	m.ObserveFetch("kyu10", 404, time.Millisecond)
	m.ObserveFetch("kyu09", 0, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.pagesTotal.WithLabelValues("kyu10", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.pagesTotal.WithLabelValues("kyu10", "404")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.pagesTotal.WithLabelValues("kyu09", "error")), 0)
}

func TestObserveRecordsAndFailures(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRecords("kyu10", 80)
	m.ObserveRecords("kyu10", 2)
	m.ObserveParseFailure()
	m.ObserveGroup()

	assert.InDelta(t, 82, testutil.ToFloat64(m.recordsTotal.WithLabelValues("kyu10")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.parseFailuresTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.groupsTotal), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("kyu10", 200, time.Second)
		m.ObserveRecords("kyu10", 1)
		m.ObserveParseFailure()
		m.ObserveGroup()
		m.ObserveRateLimitDelay(time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRecords("kyu08", 3)

	path := filepath.Join(t.TempDir(), "kanji.prom")
	require.NoError(t, m.WriteTextfile(path))

	// #nosec G304 -- test reads from the controlled temp directory.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kanji_records_total{level="kyu08"} 3`)
}
