package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_applications_submitted_total",
			Help: "Applications accepted, by source (direct or invite)",
		},
		[]string{"source"},
	)

	ApplicationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_applications_rejected_total",
			Help: "Create requests refused, by reason",
		},
		[]string{"reason"},
	)

	ApplicationStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_application_status_changes_total",
			Help: "Status flag updates made by admins",
		},
		[]string{"status"},
	)

	DocumentsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_documents_uploaded_total",
			Help: "Documents stored, by multipart field",
		},
		[]string{"field"},
	)

	DocumentUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portal_document_upload_bytes",
			Help:    "Size of stored documents in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 6),
		},
	)

	ProposalsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_proposals_expired_total",
			Help: "Invites closed by the expiry job",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_websocket_clients",
			Help: "Connected admin websocket clients",
		},
	)
)
