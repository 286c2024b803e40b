package serde

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Operation Counters
// --------------------------------------------------------------------------

// countOp increments the per-tag operation counter for the given direction.
// No-op unless the context was created with WithMetrics.
func (c *contextImpl) countOp(tag TypeTag, dir Direction) {
	if !c.metrics {
		return
	}
	metrics.GetOrCreateCounter(
		fmt.Sprintf(`serdex_%s_total{tag=%q}`, dir, tag)).Inc()
}

// countError increments the per-tag error counter for the given direction.
// No-op unless the context was created with WithMetrics.
func (c *contextImpl) countError(tag TypeTag, dir Direction) {
	if !c.metrics {
		return
	}
	metrics.GetOrCreateCounter(
		fmt.Sprintf(`serdex_codec_errors_total{tag=%q,direction=%q}`, tag, dir)).Inc()
}
