package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records per-round dispatch outcomes.
type DispatchMetrics struct {
	roundDuration *prometheus.HistogramVec
	sendSuccess   *prometheus.CounterVec
	sendFailure   *prometheus.CounterVec
	rounds        *prometheus.CounterVec
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	roundDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sos_dispatch_round_duration_seconds",
		Help:    "Duration of SOS dispatch rounds in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	sendSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sos_channel_send_success",
		Help: "Successful channel deliveries.",
	}, []string{"channel"})
	sendFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sos_channel_send_failure",
		Help: "Failed channel deliveries.",
	}, []string{"channel"})
	rounds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sos_dispatch_rounds",
		Help: "Completed dispatch rounds by rollup status.",
	}, []string{"status"})
	reg.MustRegister(roundDuration, sendSuccess, sendFailure, rounds)
	return &DispatchMetrics{
		roundDuration: roundDuration,
		sendSuccess:   sendSuccess,
		sendFailure:   sendFailure,
		rounds:        rounds,
	}
}

// ObserveRound records the duration for a dispatch round kind (trigger or retry).
func (d *DispatchMetrics) ObserveRound(kind string, duration time.Duration) {
	if d == nil || d.roundDuration == nil {
		return
	}
	d.roundDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncSendSuccess increments the success counter for the named channel.
func (d *DispatchMetrics) IncSendSuccess(channel string) {
	if d == nil || d.sendSuccess == nil {
		return
	}
	d.sendSuccess.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncSendFailure increments the failure counter for the named channel.
func (d *DispatchMetrics) IncSendFailure(channel string) {
	if d == nil || d.sendFailure == nil {
		return
	}
	d.sendFailure.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncRound increments the round counter for the rollup status.
func (d *DispatchMetrics) IncRound(status string) {
	if d == nil || d.rounds == nil {
		return
	}
	d.rounds.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
