// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/metrics"
)

var (
	metricCalls        = metrics.LazyLoadCounterVec("farm_calls_count", []string{"entrypoint", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("farm_call_duration_ms", []string{"entrypoint"}, metrics.BucketCallDuration)
	metricPayoutsCount = metrics.LazyLoadCounterVec("farm_payouts_count", []string{"kind"})
)

func metricPayouts(ops []farm.Operation) {
	if metrics.NoOp() {
		return
	}
	for _, op := range ops {
		metricPayoutsCount().AddWithLabel(1, map[string]string{"kind": op.Kind.String()})
	}
}
