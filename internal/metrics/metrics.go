package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	questionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlquery_questions_total",
			Help: "Total number of answered questions by pipeline outcome.",
		},
		[]string{"outcome"},
	)
	questionDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nlquery_question_duration_ms",
			Help:    "End-to-end question pipeline latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
		},
	)
	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlquery_ws_frames_total",
			Help: "Total number of inbound WebSocket frames by action.",
		},
		[]string{"action"},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nlquery_ws_active_sessions",
			Help: "Current number of open WebSocket sessions.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		questionsTotal,
		questionDurationMs,
		framesTotal,
		activeSessions,
	)
}

// ObserveQuestion records one pipeline run
func ObserveQuestion(outcome string, elapsed time.Duration) {
	questionsTotal.WithLabelValues(outcome).Inc()
	questionDurationMs.Observe(float64(elapsed.Milliseconds()))
}

// IncFrame counts one inbound frame
func IncFrame(action string) {
	framesTotal.WithLabelValues(action).Inc()
}

// SessionOpened and SessionClosed track live WebSocket sessions
func SessionOpened() { activeSessions.Inc() }

func SessionClosed() { activeSessions.Dec() }

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
