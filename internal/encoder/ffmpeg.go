package encoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/voicetap/nmfconv/internal/config"
)

// amixFilter mixes the two stream inputs into a single track, keeping the
// longest input's duration.
const amixFilter = "amix=inputs=2:duration=longest:dropout_transition=2"

// FFmpeg runs the ffmpeg binary as a subprocess, feeding raw audio on stdin.
// It implements both Encoder and Mixer.
type FFmpeg struct {
	cfg config.FFmpegConfig
}

// NewFFmpeg creates an ffmpeg-backed encoder/mixer.
func NewFFmpeg(cfg config.FFmpegConfig) *FFmpeg {
	return &FFmpeg{cfg: cfg}
}

// Encode writes raw stream bytes through ffmpeg into outPath, interpreting
// the input with the demuxer named by format.
func (f *FFmpeg) Encode(ctx context.Context, format string, raw []byte, outPath string) error {
	opts, err := f.cfg.Options(format)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, f.cfg.Binary, encodeArgs(format, opts, outPath)...)
	cmd.Stdin = bytes.NewReader(raw)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode %s: %w: %s", format, err, lastLine(stderr.Bytes()))
	}
	return nil
}

// Mix combines the caller and receiver files into one output file.
func (f *FFmpeg) Mix(ctx context.Context, callerPath, receiverPath, outPath string) error {
	args := []string{
		"-hide_banner", "-y",
		"-i", callerPath,
		"-i", receiverPath,
		"-filter_complex", amixFilter,
		outPath,
	}

	cmd := exec.CommandContext(ctx, f.cfg.Binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg mix: %w: %s", err, lastLine(stderr.Bytes()))
	}
	return nil
}

// encodeArgs builds the ffmpeg argument list for one stream encode. Input
// options must precede -i.
func encodeArgs(format string, opts config.FormatOptions, outPath string) []string {
	args := []string{"-hide_banner", "-y", "-f", format}
	if opts.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRate))
	}
	if opts.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(opts.Channels))
	}
	args = append(args, opts.Extra...)
	args = append(args, "-i", "pipe:0", outPath)
	return args
}

// lastLine extracts the final non-empty stderr line, which is where ffmpeg
// puts its actual error message.
func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
