// Package core defines sentinel errors.
package core

import "errors"

var (
	// Container parsing errors — each is fatal for the current file.
	ErrTruncatedHeader    = errors.New("nmf: truncated packet header")
	ErrMalformedPacket    = errors.New("nmf: packet size smaller than parameter block")
	ErrUnterminatedStream = errors.New("nmf: container ended before terminal packet")

	// ErrUnknownCompression is returned by codec table lookup for codes
	// outside the closed table. Not fatal to parsing, only to encoding
	// selection for the affected stream.
	ErrUnknownCompression = errors.New("nmf: unknown compression code")

	// ErrMissingFile wraps unreadable container paths.
	ErrMissingFile = errors.New("nmf: container file unreadable")
)
