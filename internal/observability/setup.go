package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

var (
	// Global logger instance
	Logger *zap.Logger

	// Metrics
	verdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardbot_verdicts_total",
			Help: "Total number of message verdicts by kind",
		},
		[]string{"verdict"},
	)

	evaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guardbot_evaluation_duration_seconds",
			Help:    "Time spent deciding one message",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"verdict"},
	)

	remediationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardbot_remediation_errors_total",
			Help: "Failed remediation actions by action name",
		},
		[]string{"action"},
	)
)

func Init(ctx context.Context) error {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	prometheus.MustRegister(verdictsTotal)
	prometheus.MustRegister(evaluationDuration)
	prometheus.MustRegister(remediationErrors)

	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	go func() {
		<-ctx.Done()
		_ = tp.Shutdown(context.Background())
		_ = Logger.Sync()
	}()

	return nil
}

func ObserveVerdict(kind string, elapsed time.Duration) {
	verdictsTotal.WithLabelValues(kind).Inc()
	evaluationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func CountRemediationError(action string) {
	remediationErrors.WithLabelValues(action).Inc()
}

// MetricsServer exposes the prometheus endpoint; it is a lifecycle component.
type MetricsServer struct {
	srv *http.Server
}

func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &MetricsServer{srv: &http.Server{Addr: addr, Handler: mux}}
}

func (m *MetricsServer) Start(_ context.Context) error {
	go func() {
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()
	return nil
}

func (m *MetricsServer) Stop(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
