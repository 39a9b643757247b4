// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// StreamCollector is an opt-in prometheus.Collector reporting per-stream
// packet, byte, and parser-error counters for any PacketStream registered
// with it via the WithMetrics option. A PacketStream built without
// WithMetrics reports nothing; StreamCollector itself does nothing until
// registered with a prometheus.Registerer.
type StreamCollector struct {
	mu      sync.Mutex
	streams map[*PacketStream]string

	packetsSent  *prometheus.Desc
	packetsRecv  *prometheus.Desc
	bytesSent    *prometheus.Desc
	bytesRecv    *prometheus.Desc
	parserErrors *prometheus.Desc
}

// NewStreamCollector creates a StreamCollector. label names the "stream"
// const label applied to every metric it emits, e.g. "xenstored" or
// "guest_domid_7".
func NewStreamCollector(label string) *StreamCollector {
	constLabels := prometheus.Labels{"stream": label}
	return &StreamCollector{
		streams: make(map[*PacketStream]string),
		packetsSent: prometheus.NewDesc(
			"xenstore_packets_sent_total", "Total packets sent on a stream.", nil, constLabels),
		packetsRecv: prometheus.NewDesc(
			"xenstore_packets_received_total", "Total packets received on a stream.", nil, constLabels),
		bytesSent: prometheus.NewDesc(
			"xenstore_bytes_sent_total", "Total bytes sent on a stream.", nil, constLabels),
		bytesRecv: prometheus.NewDesc(
			"xenstore_bytes_received_total", "Total bytes received on a stream.", nil, constLabels),
		parserErrors: prometheus.NewDesc(
			"xenstore_parser_errors_total", "Total parse failures (unknown operation or malformed packet).", nil, constLabels),
	}
}

func (c *StreamCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.packetsSent
	descs <- c.packetsRecv
	descs <- c.bytesSent
	descs <- c.bytesRecv
	descs <- c.parserErrors
}

func (c *StreamCollector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for ps := range c.streams {
		metrics <- prometheus.MustNewConstMetric(c.packetsSent, prometheus.CounterValue, float64(ps.stats.packetsSent.Load()))
		metrics <- prometheus.MustNewConstMetric(c.packetsRecv, prometheus.CounterValue, float64(ps.stats.packetsRecv.Load()))
		metrics <- prometheus.MustNewConstMetric(c.bytesSent, prometheus.CounterValue, float64(ps.stats.bytesSent.Load()))
		metrics <- prometheus.MustNewConstMetric(c.bytesRecv, prometheus.CounterValue, float64(ps.stats.bytesRecv.Load()))
		metrics <- prometheus.MustNewConstMetric(c.parserErrors, prometheus.CounterValue, float64(ps.stats.parserErrors.Load()))
	}
}

// add registers ps with the collector. Called from NewPacketStream when
// built with WithMetrics.
func (c *StreamCollector) add(ps *PacketStream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streams[ps] = ""
}

// Remove unregisters a stream, e.g. once its Channel has been closed.
func (c *StreamCollector) Remove(ps *PacketStream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.streams, ps)
}
