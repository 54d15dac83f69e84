// Package core defines the closed codec table.
package core

import "fmt"

// FormatName maps a compression code to the ffmpeg demuxer name used to
// interpret the stream's raw bytes. The table is closed; codes outside it
// yield ErrUnknownCompression.
func FormatName(code CompressionCode) (string, error) {
	switch code {
	case 0, 8:
		return "g729", nil
	case 1, 2:
		return "g726", nil
	case 3:
		return "alaw", nil
	case 7:
		return "mulaw", nil
	case 9, 10:
		return "g723_1", nil
	case 19:
		return "g722", nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownCompression, code)
}
