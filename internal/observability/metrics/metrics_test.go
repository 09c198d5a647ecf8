package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHelpers(t *testing.T) {
	reg := prometheus.NewRegistry()
	InitWith(reg)
	// second init is a no-op
	InitWith(reg)

	ObserveExtract("TABULAR", ResultSuccess, 3, 10*time.Millisecond)
	ObserveExtract("", "", 0, time.Millisecond)
	IncCategory("OTTOMAN")
	ObserveCalculate(2)
	ObserveExport("xlsx", ResultError, time.Millisecond)
	IncBatchFile("")

	assert.Equal(t, 1.0, testutil.ToFloat64(extractTotal.WithLabelValues("TABULAR", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(extractTotal.WithLabelValues("unknown", ResultSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(itemsExtracted.WithLabelValues("TABULAR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(categoryTotal.WithLabelValues("OTTOMAN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(calculateTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(exportTotal.WithLabelValues("xlsx", ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(batchFilesTotal.WithLabelValues("unknown")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
