package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordWrite(t *testing.T) {
	before := testutil.ToFloat64(WritesTotal.WithLabelValues("customer", "create"))

	RecordWrite("customer", "create")
	RecordWrite("customer", "create")

	assert.Equal(t, before+2, testutil.ToFloat64(WritesTotal.WithLabelValues("customer", "create")))
}

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() { MustRegister(reg) })
	// registering the same collectors twice on one registry panics
	assert.Panics(t, func() { MustRegister(reg) })
}
