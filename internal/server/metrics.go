// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package server

import (
	"context"
	"path"
	"time"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const metricsNamespace = "uc_adapter"

// Collector is a prometheus.Collector that collects metrics about the
// gRPC requests served by the adapter.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inflight        prometheus.Gauge
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "The number of requests handled, by method and status code.",
			}, []string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "The time taken to handle a request.",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			}, []string{"method"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "requests_inflight",
				Help:      "The number of requests being handled.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requests.Describe(ch)
	c.requestDuration.Describe(ch)
	c.inflight.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requests.Collect(ch)
	c.requestDuration.Collect(ch)
	c.inflight.Collect(ch)
}

// UnaryInterceptor logs every request and records it in collector. A nil
// collector only logs.
func UnaryInterceptor(collector *Collector, clk clock.Clock) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		method := path.Base(info.FullMethod)
		start := clk.Now()
		if collector != nil {
			collector.inflight.Inc()
			defer collector.inflight.Dec()
		}

		logger.Debugf("%s started", method)
		resp, err := handler(ctx, req)
		elapsed := clk.Now().Sub(start)

		code := status.Code(err)
		if err != nil {
			logger.Infof("%s failed after %v: %s: %v", method, elapsed.Round(time.Millisecond), code, err)
		} else {
			logger.Debugf("%s completed in %v", method, elapsed.Round(time.Millisecond))
		}
		if collector != nil {
			collector.requests.WithLabelValues(method, code.String()).Inc()
			collector.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
		}
		return resp, err
	}
}
