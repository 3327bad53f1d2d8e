package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistryIsSingleton(t *testing.T) {
	a := Registry("tradepro_test")
	b := Registry("ignored")
	assert.Same(t, a, b)
}

func TestNewUnregisteredCountsIndependently(t *testing.T) {
	m := NewUnregistered("x")
	m.GatewayRequests.WithLabelValues("list_products", "ok").Inc()
	m.GatewayRequests.WithLabelValues("list_products", "ok").Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(m.GatewayRequests.WithLabelValues("list_products", "ok")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(NewUnregistered("x").GatewayRequests.WithLabelValues("list_products", "ok")), 0)
}
