// Package core defines core data structures with zero external dependencies.
package core

// CompressionCode identifies the codec of an audio chunk, as carried in a
// compression marker record inside a packet's parameter block.
type CompressionCode int8

const (
	// CompressionUnknown marks a chunk whose parameter block carried no
	// compression marker record. All real codes in the format are >= 0.
	CompressionUnknown CompressionCode = -1

	// CompressionDefault is substituted at encode time for streams that
	// never saw a marker record (code 0 = g729).
	CompressionDefault CompressionCode = 0
)

// Stream ids retained by the demuxer. Chunks for any other id are dropped.
const (
	StreamCaller   int8 = 0
	StreamReceiver int8 = 1
)

// PacketHeader is the fixed 28-byte header prefixed to every packet in a
// container. All multi-byte fields are little-endian.
type PacketHeader struct {
	PacketType     int8
	PacketSubtype  int16
	StreamID       int8
	StartTime      float64 // IEEE-754 double, seconds
	EndTime        float64
	PacketSize     uint32 // Bytes following the header (parameters + payload)
	ParametersSize uint32 // Leading bytes of the body holding parameter records
}

// Chunk is one media payload extracted from one packet. Transient; produced
// and consumed within a single parsing pass.
type Chunk struct {
	Compression CompressionCode // CompressionUnknown when no marker record
	StreamID    int8
	Bytes       []byte
}

// StreamBuffer accumulates one logical stream's raw audio across a pass,
// in chunk arrival order, along with the last compression code seen.
type StreamBuffer struct {
	Bytes       []byte
	Compression CompressionCode
}
