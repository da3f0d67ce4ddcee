// Package metrics exposes prometheus instrumentation for the audit
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VendorRequests counts completed vendor API calls by endpoint and
	// outcome (success, transport_error, vendor_error, cache_hit).
	VendorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auditsmith_vendor_requests_total",
		Help: "Vendor API calls by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// VendorRetries counts retry attempts against the vendor API.
	VendorRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auditsmith_vendor_retries_total",
		Help: "Vendor API retry attempts by endpoint.",
	}, []string{"endpoint"})

	// ReportsGenerated counts successfully aggregated reports.
	ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auditsmith_reports_generated_total",
		Help: "Successfully generated audit reports.",
	})

	// ReportFailures counts report generations that failed, by the
	// category whose fetch failed.
	ReportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auditsmith_report_failures_total",
		Help: "Failed report generations by failing category.",
	}, []string{"category"})
)
