package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m.ObserveRun("stale-payments", finished, 250*time.Millisecond, nil)
	m.ObserveRun("stale-payments", finished.Add(time.Hour), time.Second, errors.New("db down"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	ok, err := fetchCounterValue(mfs, "cron_job_runs_total", map[string]string{"job": "stale-payments", "outcome": "success"})
	require.NoError(t, err)
	require.Equal(t, float64(1), ok)

	failed, err := fetchCounterValue(mfs, "cron_job_runs_total", map[string]string{"job": "stale-payments", "outcome": "failure"})
	require.NoError(t, err)
	require.Equal(t, float64(1), failed)

	sum, err := fetchHistogramSum(mfs, "cron_job_duration_seconds", map[string]string{"job": "stale-payments"})
	require.NoError(t, err)
	require.InDelta(t, 1.25, sum, 0.0001)

	last, err := fetchGaugeValue(mfs, "cron_job_last_success_timestamp_seconds", map[string]string{"job": "stale-payments"})
	require.NoError(t, err)
	require.Equal(t, float64(finished.Unix()), last)
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.ObserveRun("job", time.Now(), time.Second, nil)
	NewCronJobMetrics(nil).ObserveRun("", time.Now(), time.Second, errors.New("x"))
}
