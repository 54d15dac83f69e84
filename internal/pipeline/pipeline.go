// Package pipeline implements the per-file conversion session: read the
// container, demux it into per-stream buffers, then encode and mix them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voicetap/nmfconv/internal/core"
	"github.com/voicetap/nmfconv/internal/encoder"
	"github.com/voicetap/nmfconv/internal/metrics"
	"github.com/voicetap/nmfconv/internal/nmf"
)

// Session converts single container files. It is stateless across files and
// safe for concurrent use by multiple batch workers.
type Session struct {
	enc encoder.Encoder
	mix encoder.Mixer
}

// New creates a conversion session using the given encoder and mixer.
func New(enc encoder.Encoder, mix encoder.Mixer) *Session {
	return &Session{enc: enc, mix: mix}
}

// Convert demuxes the container at inPath and writes <base>_combined.mp3
// into outDir. Any error is fatal for this file only; partial stream buffers
// and temp files are discarded, never emitted.
func (s *Session) Convert(ctx context.Context, inPath, outDir string) error {
	start := time.Now()

	// The whole container is read eagerly; memory cost is O(file size).
	// Call recordings are small enough that this beats a streaming reader.
	data, err := os.ReadFile(inPath)
	if err != nil {
		metrics.ParseErrorsTotal.WithLabelValues("io").Inc()
		return fmt.Errorf("%w: %s: %v", core.ErrMissingFile, inPath, err)
	}

	// Phase boundary: demux fully completes before any encoding starts.
	seq := nmf.NewSequencer(data)
	buffers, err := nmf.Accumulate(seq)
	if err != nil {
		metrics.ParseErrorsTotal.WithLabelValues(parseErrorKind(err)).Inc()
		return fmt.Errorf("demux %s: %w", inPath, err)
	}

	metrics.ChunksTotal.Add(float64(seq.Emitted()))
	metrics.DemuxedBytesTotal.WithLabelValues("caller").
		Add(float64(len(buffers[core.StreamCaller].Bytes)))
	metrics.DemuxedBytesTotal.WithLabelValues("receiver").
		Add(float64(len(buffers[core.StreamReceiver].Bytes)))

	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	outPath := filepath.Join(outDir, base+"_combined.mp3")

	tmp := map[int8]string{
		core.StreamCaller:   filepath.Join(outDir, base+".caller.tmp.mp3"),
		core.StreamReceiver: filepath.Join(outDir, base+".receiver.tmp.mp3"),
	}
	defer func() {
		for _, p := range tmp {
			os.Remove(p)
		}
	}()

	for _, id := range []int8{core.StreamCaller, core.StreamReceiver} {
		buf := buffers[id]

		code := buf.Compression
		if code == core.CompressionUnknown {
			code = core.CompressionDefault
		}
		format, err := core.FormatName(code)
		if err != nil {
			return fmt.Errorf("%s stream %d: %w", inPath, id, err)
		}

		slog.Debug("encoding stream",
			"file", inPath, "stream", id, "format", format, "bytes", len(buf.Bytes))

		if err := s.enc.Encode(ctx, format, buf.Bytes, tmp[id]); err != nil {
			metrics.EncodeErrorsTotal.WithLabelValues("encode").Inc()
			return fmt.Errorf("%s stream %d: %w", inPath, id, err)
		}
	}

	if err := s.mix.Mix(ctx, tmp[core.StreamCaller], tmp[core.StreamReceiver], outPath); err != nil {
		metrics.EncodeErrorsTotal.WithLabelValues("mix").Inc()
		return fmt.Errorf("%s: %w", inPath, err)
	}

	metrics.ConvertSeconds.Observe(time.Since(start).Seconds())
	slog.Info("converted", "file", inPath, "output", outPath,
		"chunks", seq.Emitted(), "elapsed", time.Since(start))
	return nil
}

// parseErrorKind maps parse errors to the metric label values.
func parseErrorKind(err error) string {
	switch {
	case errors.Is(err, core.ErrTruncatedHeader):
		return "truncated_header"
	case errors.Is(err, core.ErrMalformedPacket):
		return "malformed_packet"
	case errors.Is(err, core.ErrUnterminatedStream):
		return "unterminated"
	}
	return "io"
}
