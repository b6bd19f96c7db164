package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecorders(t *testing.T) {
	m := New()
	m.Transition("accomplishment_report", "pending", "approved")
	m.Transition("accomplishment_report", "pending", "approved")
	m.Reconciled("pending")
	m.Notified("new_activity", 8)
	m.Notified("new_activity", 0)
	m.MailFailed()
	m.OverrideWritten()

	assert.Equal(t, 2.0, value(t, m.transitions.WithLabelValues("accomplishment_report", "pending", "approved")))
	assert.Equal(t, 1.0, value(t, m.reconciliations.WithLabelValues("pending")))
	assert.Equal(t, 8.0, value(t, m.notifications.WithLabelValues("new_activity")))
	assert.Equal(t, 1.0, value(t, m.mailFailures))
	assert.Equal(t, 1.0, value(t, m.overrides))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("k", "a", "b")
		m.Reconciled("approved")
		m.Notified("x", 1)
		m.MailFailed()
		m.OverrideWritten()
	})
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New()
	m.Reconciled("approved")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "portal_reconciliations_total"))
}
