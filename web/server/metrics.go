package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/caiflower/staticweb/pkg/logger"
	"github.com/caiflower/staticweb/pkg/safego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes a prometheus gatherer on /metrics over plain net/http.
type MetricsServer struct {
	addr     string
	srv      *http.Server
	listener net.Listener
	logger   logger.ILog
}

// NewMetricsServer uses prometheus.DefaultGatherer when gatherer is nil.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer, log logger.ILog) *MetricsServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if log == nil {
		log = logger.DefaultLogger()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &MetricsServer{
		addr:   addr,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		logger: log,
	}
}

func (m *MetricsServer) Name() string {
	return "metrics"
}

func (m *MetricsServer) Start() error {
	l, err := net.Listen("tcp", m.addr)
	if err != nil {
		return err
	}
	m.listener = l
	m.logger.Info("[metrics] listening on %s", l.Addr().String())

	safego.Go(func() {
		if err := m.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("[metrics] serve err: %s", err.Error())
		}
	})
	return nil
}

func (m *MetricsServer) Addr() net.Addr {
	if m.listener == nil {
		return nil
	}
	return m.listener.Addr()
}

func (m *MetricsServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		m.logger.Warn("[metrics] shutdown err: %s", err.Error())
	}
}
