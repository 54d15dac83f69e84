// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesTotal counts processed container files by result.
	FilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmfconv_files_total",
			Help: "Total number of container files processed",
		},
		[]string{"result"}, // converted | failed
	)

	// ChunksTotal counts media chunks demuxed from containers.
	ChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nmfconv_chunks_total",
			Help: "Total number of media chunks demuxed",
		},
	)

	// DemuxedBytesTotal counts raw audio bytes accumulated per stream.
	DemuxedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmfconv_demuxed_bytes_total",
			Help: "Total raw audio bytes accumulated",
		},
		[]string{"stream"}, // caller | receiver
	)

	// ParseErrorsTotal counts fatal parse errors by kind.
	ParseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmfconv_parse_errors_total",
			Help: "Total number of fatal container parse errors",
		},
		[]string{"kind"}, // truncated_header | malformed_packet | unterminated | io
	)

	// EncodeErrorsTotal counts ffmpeg encode and mix failures.
	EncodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmfconv_encode_errors_total",
			Help: "Total number of encoder invocations that failed",
		},
		[]string{"stage"}, // encode | mix
	)

	// ConvertSeconds measures wall time per converted file.
	ConvertSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nmfconv_convert_seconds",
			Help:    "Wall time spent converting one container file",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~164s
		},
	)
)
