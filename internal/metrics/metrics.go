package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadfunnel_dialogs_opened_total",
			Help: "Dialogs opened per variant, already_submitted marks thank-you short-circuits",
		},
		[]string{"variant", "already_submitted"},
	)

	DialogOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadfunnel_dialog_outcomes_total",
			Help: "Finished questionnaires per variant and terminal",
		},
		[]string{"variant", "terminal", "reason"},
	)

	LeadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadfunnel_lead_submissions_total",
			Help: "Lead submissions per variant and result",
		},
		[]string{"variant", "result"},
	)

	LeadSubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadfunnel_lead_submit_duration_seconds",
			Help:    "Duration of the leads endpoint call including the redirect probe",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"variant"},
	)

	RedirectProbes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadfunnel_redirect_probes_total",
			Help: "Redirect probe outcomes",
		},
		[]string{"outcome"},
	)

	PhoneChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadfunnel_phone_checks_total",
			Help: "WhatsApp phone verification results",
		},
		[]string{"status"},
	)

	ActiveSubmissions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leadfunnel_submissions_in_flight",
			Help: "Lead submissions currently in flight",
		},
	)
)
