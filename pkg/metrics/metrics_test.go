package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	m := NewWithRegisterer("orderflow", prometheus.NewRegistry())

	m.RecordTransition("idle", "vehicle_address_service_selection")
	m.RecordTransition("idle", "vehicle_address_service_selection")
	m.RecordRejection("vehicle_address_service_selection", "date_time_selection")

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.WorkflowTransitions.WithLabelValues("orderflow", "idle", "vehicle_address_service_selection")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.WorkflowRejections.WithLabelValues("orderflow", "vehicle_address_service_selection", "date_time_selection")))
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTransition("selection", "datetime")
		m.RecordRejection("selection", "datetime")
		m.RecordPhotoConfirmation("success")
		m.SetActiveSessions("booking", 1)
	})
}
