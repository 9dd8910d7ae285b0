package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultAddress = ":2112"

// Config contains the address the metrics endpoint listens on.
type Config struct {
	Address string `yaml:"address"`
}

// Recorder collects transfer metrics in its own registry.
type Recorder struct {
	registry  *prometheus.Registry
	transfers *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewRecorder creates Recorder with registered transfer metrics.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xtransfer_transfers_total",
			Help: "The total number of transfers by result",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "xtransfer_transfer_duration_seconds",
			Help:    "Duration of the transfer from pre-flight to post",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveTransfer records the transfer result and its duration.
func (r *Recorder) ObserveTransfer(result string, elapsed time.Duration) {
	r.transfers.WithLabelValues(result).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Handler returns the http handler exposing collected metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Run starts server with prometheus telemetry endpoint.
// This functions blocks. To stop cancel ctx.
func Run(ctx context.Context, cfg Config, r *Recorder) error {
	addr := cfg.Address
	if addr == "" {
		addr = defaultAddress
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
