package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// stores (postgres + mongo, logical op level)
	StoreOpDuration *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec

	// gemini upstream
	GenAIDuration *prometheus.HistogramVec
	GenAIResults  *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "purechef",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "purechef",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				// Sane initial defaults
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "purechef",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "purechef",
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Store operation latency (logical op, not raw query)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"store", "op", "status"},
		),
		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "purechef",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Store errors by backend and logical op.",
			},
			[]string{"store", "op"},
		),
		GenAIDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "purechef",
				Subsystem: "genai",
				Name:      "call_duration_seconds",
				Help:      "Gemini call duration by kind and result",
				// Model calls routinely take tens of seconds.
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"kind", "result"}, // kind=detect|recipes|image, result=ok|format_error|unavailable
		),
		GenAIResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "purechef",
				Subsystem: "genai",
				Name:      "results_total",
				Help:      "Gemini call outcomes by kind and result.",
			},
			[]string{"kind", "result"},
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.StoreOpDuration, p.StoreErrors, p.GenAIDuration, p.GenAIResults)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveGenAI records one upstream model call.
func (p *Prom) ObserveGenAI(kind, result string, elapsed time.Duration) {
	p.GenAIDuration.WithLabelValues(kind, result).Observe(elapsed.Seconds())
	p.GenAIResults.WithLabelValues(kind, result).Inc()
}

// ObserveStoreOp records one logical store operation. Domain outcomes like
// not-found are the caller's business and arrive here with a nil error; only
// genuine failures count as errors. Safe on a nil receiver so repos can be
// wired without metrics.
func (p *Prom) ObserveStoreOp(store, op string, err error, elapsed time.Duration) {
	if p == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
		p.StoreErrors.WithLabelValues(store, op).Inc()
	}

	p.StoreOpDuration.WithLabelValues(store, op, status).Observe(elapsed.Seconds())
}
