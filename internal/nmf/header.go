// Package nmf implements parsing and demultiplexing of the packetized
// call-recording container format.
//
// A container is a flat sequence of packets. Every packet starts with a
// fixed 28-byte header; media packets carry a parameter block of fixed-size
// records followed by the raw audio payload. A packet of type 7 terminates
// the sequence, trailing bytes after it are ignored.
package nmf

import (
	"encoding/binary"
	"math"

	"github.com/voicetap/nmfconv/internal/core"
)

const (
	headerLen = 28

	// Field offsets within the 28-byte packet header.
	offPacketType     = 0
	offPacketSubtype  = 1
	offStreamID       = 3
	offStartTime      = 4
	offEndTime        = 12
	offPacketSize     = 20
	offParametersSize = 24
)

// decodeHeader decodes the fixed 28-byte packet header at the start of data.
// All multi-byte fields are little-endian. No cross-field validation happens
// here; packet_size >= parameters_size is enforced by the sequencer.
func decodeHeader(data []byte) (core.PacketHeader, error) {
	if len(data) < headerLen {
		return core.PacketHeader{}, core.ErrTruncatedHeader
	}

	h := core.PacketHeader{
		PacketType:     int8(data[offPacketType]),
		PacketSubtype:  int16(binary.LittleEndian.Uint16(data[offPacketSubtype : offPacketSubtype+2])),
		StreamID:       int8(data[offStreamID]),
		StartTime:      math.Float64frombits(binary.LittleEndian.Uint64(data[offStartTime : offStartTime+8])),
		EndTime:        math.Float64frombits(binary.LittleEndian.Uint64(data[offEndTime : offEndTime+8])),
		PacketSize:     binary.LittleEndian.Uint32(data[offPacketSize : offPacketSize+4]),
		ParametersSize: binary.LittleEndian.Uint32(data[offParametersSize : offParametersSize+4]),
	}
	return h, nil
}
