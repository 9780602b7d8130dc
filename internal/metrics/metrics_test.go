package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPromCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPromCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordSignUp(true)
	c.RecordProfileUpsertFailure()
	c.RecordTokenSync("create", true)
	c.RecordTokenSync("update", false)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.logins.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.logins.WithLabelValues("failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.signUps.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.upsertFail))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.tokenSyncs.WithLabelValues("create", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.tokenSyncs.WithLabelValues("update", "failure")))
}

func TestNoopSatisfiesCollector(t *testing.T) {
	var c Collector = Noop{}
	c.RecordLogin(true)
	c.RecordSignUp(false)
	c.RecordProfileUpsertFailure()
	c.RecordTokenSync("create", true)
	assert.NotNil(t, c)
}
