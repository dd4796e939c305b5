/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fileserver

import (
	"strconv"
	"time"

	"github.com/caiflower/staticweb/global/env"
	"github.com/prometheus/client_golang/prometheus"
)

type HttpMetric struct {
	web                  string
	httpRequestTotal     *prometheus.CounterVec
	httpRequestTimeTotal *prometheus.CounterVec
	costHistogram        prometheus.Histogram
}

// NewHttpMetric registers the collectors on registerer, prometheus.DefaultRegisterer when nil.
func NewHttpMetric(web string, registerer prometheus.Registerer) (*HttpMetric, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := prometheus.Labels{"ip": env.GetLocalHostIP()}

	buckets := []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000}
	metric := &HttpMetric{
		web:                  web,
		httpRequestTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_total", Help: "http_request_total counter", ConstLabels: constLabels}, []string{"web", "code", "decision"}),
		httpRequestTimeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_time_total", Help: "http_request_time_total counter in milliseconds", ConstLabels: constLabels}, []string{"web", "code", "decision"}),
		costHistogram:        prometheus.NewHistogram(prometheus.HistogramOpts{Name: "http_request_histogram", Help: "http_request_histogram in milliseconds", Buckets: buckets, ConstLabels: constLabels}),
	}

	for _, c := range []prometheus.Collector{metric.httpRequestTotal, metric.httpRequestTimeTotal, metric.costHistogram} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return metric, nil
}

func (m *HttpMetric) saveMetric(code int, decision string, cost time.Duration) {
	ms := float64(cost) / float64(time.Millisecond)
	codeStr := strconv.Itoa(code)
	m.httpRequestTotal.WithLabelValues(m.web, codeStr, decision).Inc()
	m.httpRequestTimeTotal.WithLabelValues(m.web, codeStr, decision).Add(ms)
	m.costHistogram.Observe(ms)
}
