package nmf

import (
	"encoding/binary"

	"github.com/voicetap/nmfconv/internal/core"
)

const (
	paramRecordLen  = 22
	paramPayloadLen = 16

	// Field offsets within a 22-byte parameter record.
	offParamTypeID   = 0
	offParamDataSize = 2
	offParamPayload  = 6

	// typeIDCompression marks the record carrying the compression code.
	typeIDCompression = 10
)

// scanParameters walks a parameter block's fixed 22-byte records from offset
// 0 looking for the compression marker record. Scanning stops once size
// bytes have been covered or fewer than a full record remains; a trailing
// partial record is ignored, never an error. The first marker record wins,
// later records are not considered.
//
// Returns CompressionUnknown when no marker record is present.
func scanParameters(params []byte, size uint32) core.CompressionCode {
	limit := int(size)
	if limit > len(params) {
		limit = len(params)
	}

	for off := 0; off+paramRecordLen <= limit; off += paramRecordLen {
		typeID := int16(binary.LittleEndian.Uint16(params[off+offParamTypeID : off+offParamTypeID+2]))
		if typeID != typeIDCompression {
			continue
		}
		dataSize := int32(binary.LittleEndian.Uint32(params[off+offParamDataSize : off+offParamDataSize+4]))
		payload := params[off+offParamPayload : off+paramRecordLen]
		return extractCompressionCode(payload, dataSize)
	}
	return core.CompressionUnknown
}

// extractCompressionCode reads the compression code out of a marker record's
// payload: the first byte of the dataSize-byte value, as a signed 8-bit
// integer. A marker record with a non-positive data size carries no value.
//
// Earlier converters carried a second read at offset 8 behind a comparison
// that can never be true; the dead branch is dropped here, which leaves the
// produced codes identical.
func extractCompressionCode(payload []byte, dataSize int32) core.CompressionCode {
	if dataSize <= 0 || len(payload) == 0 {
		return core.CompressionUnknown
	}
	return core.CompressionCode(int8(payload[0]))
}
