// Package observability exposes prometheus metrics for the engine's
// decision paths.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's counters. Handlers accept a nil *Metrics and
// skip recording, so tests don't need a registry.
type Metrics struct {
	ClearanceDecisionsTotal *prometheus.CounterVec
	AutoApprovalsTotal      prometheus.Counter
	AuditRecordsTotal       prometheus.Counter
	RemarksComputedTotal    *prometheus.CounterVec
	ExemptionImportRows     *prometheus.CounterVec
}

// New registers and returns the engine metrics.
func New() *Metrics {
	return &Metrics{
		ClearanceDecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "progression_clearance_decisions_total",
			Help: "Total number of clearance decisions, by department and resulting status",
		}, []string{"department", "status"}),
		AutoApprovalsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "progression_clearance_auto_approvals_total",
			Help: "Total number of clearances auto-approved by exemption rules",
		}),
		AuditRecordsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "progression_clearance_audit_records_total",
			Help: "Total number of clearance audit rows written",
		}),
		RemarksComputedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "progression_remarks_computed_total",
			Help: "Total number of academic remarks computations, by standing",
		}, []string{"standing"}),
		ExemptionImportRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "progression_exemption_import_rows_total",
			Help: "Total number of bulk-imported exemption rows, by outcome",
		}, []string{"outcome"}),
	}
}

// RecordDecision counts one clearance decision.
func (m *Metrics) RecordDecision(department, status string) {
	if m == nil {
		return
	}
	m.ClearanceDecisionsTotal.WithLabelValues(department, status).Inc()
}

// RecordAutoApproval counts one auto-approved clearance.
func (m *Metrics) RecordAutoApproval() {
	if m == nil {
		return
	}
	m.AutoApprovalsTotal.Inc()
}

// RecordAudit counts one audit row.
func (m *Metrics) RecordAudit() {
	if m == nil {
		return
	}
	m.AuditRecordsTotal.Inc()
}

// RecordRemarks counts one remarks computation.
func (m *Metrics) RecordRemarks(standing string) {
	if m == nil {
		return
	}
	m.RemarksComputedTotal.WithLabelValues(standing).Inc()
}

// RecordImportRow counts one bulk-import row outcome.
func (m *Metrics) RecordImportRow(outcome string) {
	if m == nil {
		return
	}
	m.ExemptionImportRows.WithLabelValues(outcome).Inc()
}
