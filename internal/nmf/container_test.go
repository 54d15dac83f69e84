package nmf

import (
	"encoding/binary"
	"math"
)

// Test container builders shared by the package tests.

// buildHeader encodes a 28-byte packet header.
func buildHeader(packetType int8, subtype int16, streamID int8, packetSize, paramsSize uint32) []byte {
	h := make([]byte, headerLen)
	h[offPacketType] = byte(packetType)
	binary.LittleEndian.PutUint16(h[offPacketSubtype:], uint16(subtype))
	h[offStreamID] = byte(streamID)
	binary.LittleEndian.PutUint64(h[offStartTime:], math.Float64bits(1.5))
	binary.LittleEndian.PutUint64(h[offEndTime:], math.Float64bits(2.5))
	binary.LittleEndian.PutUint32(h[offPacketSize:], packetSize)
	binary.LittleEndian.PutUint32(h[offParametersSize:], paramsSize)
	return h
}

// buildPacket encodes one full packet: header + parameter block + payload.
func buildPacket(packetType int8, subtype int16, streamID int8, params, payload []byte) []byte {
	h := buildHeader(packetType, subtype, streamID, uint32(len(params)+len(payload)), uint32(len(params)))
	out := append([]byte{}, h...)
	out = append(out, params...)
	return append(out, payload...)
}

// buildParamRecord encodes one 22-byte parameter record.
func buildParamRecord(typeID int16, dataSize int32, payload []byte) []byte {
	rec := make([]byte, paramRecordLen)
	binary.LittleEndian.PutUint16(rec[offParamTypeID:], uint16(typeID))
	binary.LittleEndian.PutUint32(rec[offParamDataSize:], uint32(dataSize))
	copy(rec[offParamPayload:], payload)
	return rec
}

// terminalPacket is a bare terminal header with an empty body.
func terminalPacket() []byte {
	return buildHeader(packetTypeTerminal, 0, 0, 0, 0)
}

// repeat builds a payload of n identical bytes.
func repeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
