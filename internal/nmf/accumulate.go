package nmf

import (
	"errors"
	"io"

	"github.com/voicetap/nmfconv/internal/core"
)

// Accumulate drains the sequencer and folds its chunks into per-stream
// buffers. Only the caller and receiver streams are retained; chunks for any
// other stream id are dropped without error. Buffer content order equals
// chunk arrival order. Each stream's compression code is the last non-unknown
// code observed for it.
//
// Any parse error aborts the pass; partial buffers are not returned.
func Accumulate(seq *Sequencer) (map[int8]*core.StreamBuffer, error) {
	buffers := map[int8]*core.StreamBuffer{
		core.StreamCaller:   {Compression: core.CompressionUnknown},
		core.StreamReceiver: {Compression: core.CompressionUnknown},
	}

	for {
		chunk, err := seq.Next()
		if errors.Is(err, io.EOF) {
			return buffers, nil
		}
		if err != nil {
			return nil, err
		}

		buf, ok := buffers[chunk.StreamID]
		if !ok {
			continue
		}
		buf.Bytes = append(buf.Bytes, chunk.Bytes...)
		if chunk.Compression != core.CompressionUnknown {
			buf.Compression = chunk.Compression
		}
	}
}
