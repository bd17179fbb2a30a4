package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe("local", "saveScore", nil)
	m.Observe("local", "saveScore", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("local", "saveScore")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationErrors.WithLabelValues("local", "saveScore")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObserve_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("remote", "getUsers", nil) })
}
