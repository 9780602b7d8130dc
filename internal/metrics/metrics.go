package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the interface the auth and token layers record against.
// A nil-safe no-op implementation is available for tests.
type Collector interface {
	RecordLogin(success bool)
	RecordSignUp(success bool)
	RecordProfileUpsertFailure()
	RecordTokenSync(intent string, success bool)
}

type PromCollector struct {
	logins     *prometheus.CounterVec
	signUps    *prometheus.CounterVec
	upsertFail prometheus.Counter
	tokenSyncs *prometheus.CounterVec
}

// NewPromCollector registers the portal's metrics on the given registry.
func NewPromCollector(reg prometheus.Registerer) *PromCollector {
	c := &PromCollector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		signUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_signups_total",
			Help: "Registration attempts by result.",
		}, []string{"result"}),
		upsertFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_profile_upsert_failures_total",
			Help: "Best-effort profile upserts that failed after sign-up.",
		}),
		tokenSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_token_syncs_total",
			Help: "Token store synchronizations by intent and result.",
		}, []string{"intent", "result"}),
	}

	reg.MustRegister(c.logins, c.signUps, c.upsertFail, c.tokenSyncs)
	return c
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (c *PromCollector) RecordLogin(success bool) {
	c.logins.WithLabelValues(result(success)).Inc()
}

func (c *PromCollector) RecordSignUp(success bool) {
	c.signUps.WithLabelValues(result(success)).Inc()
}

func (c *PromCollector) RecordProfileUpsertFailure() {
	c.upsertFail.Inc()
}

func (c *PromCollector) RecordTokenSync(intent string, success bool) {
	c.tokenSyncs.WithLabelValues(intent, result(success)).Inc()
}

// Handler exposes the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop records nothing. Handy default for tests and optional wiring.
type Noop struct{}

func (Noop) RecordLogin(bool) {}

func (Noop) RecordSignUp(bool) {}

func (Noop) RecordProfileUpsertFailure() {}

func (Noop) RecordTokenSync(string, bool) {}
