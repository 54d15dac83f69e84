// Package encoder invokes an external encoder to compress and mix demuxed
// audio streams. The parsing core never depends on this capability being
// installed or working; it only hands over (codec, bytes) pairs.
package encoder

import "context"

// Encoder turns one stream's raw audio bytes into an encoded file on disk.
// format is the codec name from the container's compression code table.
type Encoder interface {
	Encode(ctx context.Context, format string, raw []byte, outPath string) error
}

// Mixer combines two encoded stream files into one output file.
type Mixer interface {
	Mix(ctx context.Context, callerPath, receiverPath, outPath string) error
}
