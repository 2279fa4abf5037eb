// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	assert.True(t, NoOp())
	noop := defaultNoopMetrics()
	assert.Nil(t, noop.GetOrCreateHandler())

	// none of these should panic
	noop.GetOrCreateCountMeter("c").Add(1)
	noop.GetOrCreateCountVecMeter("cv", nil).AddWithLabel(1, nil)
	noop.GetOrCreateGaugeMeter("g").Set(1)
	noop.GetOrCreateHistogramVecMeter("h", nil, nil).ObserveWithLabels(1, nil)
}

func TestPromMetrics(t *testing.T) {
	lazy := LazyLoadCounterVec("calls_count", []string{"entrypoint"})

	InitializePrometheusMetrics()
	require.NotNil(t, HTTPHandler())
	assert.False(t, NoOp())

	Counter("count1").Add(2)
	Counter("count1").Add(3)
	lazy().AddWithLabel(1, map[string]string{"entrypoint": "deposit"})
	lazy().AddWithLabel(1, map[string]string{"entrypoint": "deposit"})
	Gauge("gauge1").Set(7)
	HistogramVec("hist1", []string{"entrypoint"}, BucketCallDuration).
		ObserveWithLabels(3, map[string]string{"entrypoint": "harvest"})

	pm := metrics.(*prometheusMetrics)

	count, _ := pm.meters.Load("count1")
	assert.Equal(t, float64(5), testutil.ToFloat64(count.(*promCountMeter).counter))

	vec, _ := pm.meters.Load("calls_count")
	assert.Equal(t, float64(2), testutil.ToFloat64(vec.(*promCountVecMeter).counter.WithLabelValues("deposit")))

	gauge, _ := pm.meters.Load("gauge1")
	assert.Equal(t, float64(7), testutil.ToFloat64(gauge.(*promGaugeMeter).gauge))

	hist, _ := pm.meters.Load("hist1")
	assert.Equal(t, 1, testutil.CollectAndCount(hist.(*promHistogramVecMeter).histogram))
}
