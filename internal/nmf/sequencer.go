package nmf

import (
	"io"

	"github.com/voicetap/nmfconv/internal/core"
)

// Packet classification values.
const (
	packetTypeAudio    = 4 // media when subtype is 0 or 3
	packetTypeAudioExt = 5 // media when subtype is 300
	packetTypeTerminal = 7 // end of container, trailing bytes ignored

	subtypeAudioPlain    = 0
	subtypeAudioWrapped  = 3
	subtypeAudioExtMedia = 300
)

// Sequencer is a forward-only, single-pass producer of media chunks over one
// container's bytes. It owns its cursor and is not resettable; reparsing a
// container requires a new Sequencer over offset 0.
type Sequencer struct {
	data    []byte
	pos     int
	done    bool
	emitted int
}

// NewSequencer creates a sequencer over the full byte content of one
// container file.
func NewSequencer(data []byte) *Sequencer {
	return &Sequencer{data: data}
}

// Next returns the next media chunk in arrival order. It returns io.EOF once
// the terminal packet has been reached. Any other error is fatal for the
// container:
//
//   - core.ErrTruncatedHeader: fewer than 28 bytes where a header is expected
//   - core.ErrMalformedPacket: packet_size < parameters_size
//   - core.ErrUnterminatedStream: a packet body runs past the end of the
//     container before a terminal packet was seen
func (s *Sequencer) Next() (core.Chunk, error) {
	for !s.done {
		h, err := decodeHeader(s.data[s.pos:])
		if err != nil {
			return core.Chunk{}, err
		}
		if h.PacketSize < h.ParametersSize {
			return core.Chunk{}, core.ErrMalformedPacket
		}

		// The terminal packet stops iteration immediately; its body and any
		// bytes after it are intentionally never validated.
		if h.PacketType == packetTypeTerminal {
			s.done = true
			break
		}

		body := s.pos + headerLen
		next := body + int(h.PacketSize)
		if next > len(s.data) {
			return core.Chunk{}, core.ErrUnterminatedStream
		}
		s.pos = next

		if !isMedia(h) {
			continue
		}

		paramsEnd := body + int(h.ParametersSize)
		s.emitted++
		return core.Chunk{
			Compression: scanParameters(s.data[body:paramsEnd], h.ParametersSize),
			StreamID:    h.StreamID,
			Bytes:       s.data[paramsEnd:next],
		}, nil
	}
	return core.Chunk{}, io.EOF
}

// Emitted reports how many media chunks have been produced so far.
func (s *Sequencer) Emitted() int {
	return s.emitted
}

// isMedia reports whether the packet's type/subtype combination marks it as
// carrying an audio payload.
func isMedia(h core.PacketHeader) bool {
	switch h.PacketType {
	case packetTypeAudio:
		return h.PacketSubtype == subtypeAudioPlain || h.PacketSubtype == subtypeAudioWrapped
	case packetTypeAudioExt:
		return h.PacketSubtype == subtypeAudioExtMedia
	}
	return false
}
