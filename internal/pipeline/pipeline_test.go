package pipeline

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/voicetap/nmfconv/internal/core"
)

// buildContainer assembles a minimal container: one media packet per entry,
// then the terminal packet.
type mediaPacket struct {
	streamID    int8
	compression int8 // < 0 = no marker record
	payload     []byte
}

func buildContainer(packets ...mediaPacket) []byte {
	var out []byte
	for _, p := range packets {
		var params []byte
		if p.compression >= 0 {
			params = make([]byte, 22)
			binary.LittleEndian.PutUint16(params[0:], 10) // marker type_id
			binary.LittleEndian.PutUint32(params[2:], 1)  // data_size
			params[6] = byte(p.compression)
		}
		out = append(out, header(4, 0, p.streamID, uint32(len(params)+len(p.payload)), uint32(len(params)))...)
		out = append(out, params...)
		out = append(out, p.payload...)
	}
	return append(out, header(7, 0, 0, 0, 0)...)
}

func header(packetType int8, subtype int16, streamID int8, packetSize, paramsSize uint32) []byte {
	h := make([]byte, 28)
	h[0] = byte(packetType)
	binary.LittleEndian.PutUint16(h[1:], uint16(subtype))
	h[3] = byte(streamID)
	binary.LittleEndian.PutUint32(h[20:], packetSize)
	binary.LittleEndian.PutUint32(h[24:], paramsSize)
	return h
}

type encodeCall struct {
	format string
	raw    []byte
	path   string
}

// fakeFFmpeg records encode/mix calls and creates the output files so the
// session's temp-file handling is exercised.
type fakeFFmpeg struct {
	mu        sync.Mutex
	encodes   []encodeCall
	mixes     [][3]string
	failStage string // "encode" | "mix" | ""
}

func (f *fakeFFmpeg) Encode(_ context.Context, format string, raw []byte, outPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStage == "encode" {
		return errors.New("boom")
	}
	f.encodes = append(f.encodes, encodeCall{format: format, raw: append([]byte{}, raw...), path: outPath})
	return os.WriteFile(outPath, []byte("mp3"), 0o644)
}

func (f *fakeFFmpeg) Mix(_ context.Context, callerPath, receiverPath, outPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStage == "mix" {
		return errors.New("boom")
	}
	f.mixes = append(f.mixes, [3]string{callerPath, receiverPath, outPath})
	return os.WriteFile(outPath, []byte("mixed"), 0o644)
}

func writeContainer(t *testing.T, data []byte) (inPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	inPath = filepath.Join(dir, "call_0001.nmf")
	if err := os.WriteFile(inPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	outDir = filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return inPath, outDir
}

func TestConvertEncodesBothStreamsAndMixes(t *testing.T) {
	container := buildContainer(
		mediaPacket{streamID: 0, compression: 3, payload: []byte{1, 2, 3}},
		mediaPacket{streamID: 1, compression: 7, payload: []byte{4, 5}},
	)
	inPath, outDir := writeContainer(t, container)

	ff := &fakeFFmpeg{}
	if err := New(ff, ff).Convert(context.Background(), inPath, outDir); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(ff.encodes) != 2 {
		t.Fatalf("Expected 2 encode calls, got %d", len(ff.encodes))
	}
	if ff.encodes[0].format != "alaw" || string(ff.encodes[0].raw) != "\x01\x02\x03" {
		t.Errorf("Unexpected caller encode: %+v", ff.encodes[0])
	}
	if ff.encodes[1].format != "mulaw" || string(ff.encodes[1].raw) != "\x04\x05" {
		t.Errorf("Unexpected receiver encode: %+v", ff.encodes[1])
	}

	if len(ff.mixes) != 1 {
		t.Fatalf("Expected 1 mix call, got %d", len(ff.mixes))
	}
	wantOut := filepath.Join(outDir, "call_0001_combined.mp3")
	if ff.mixes[0][2] != wantOut {
		t.Errorf("Expected mix output %s, got %s", wantOut, ff.mixes[0][2])
	}
	if _, err := os.Stat(wantOut); err != nil {
		t.Errorf("Expected mixed output file to exist: %v", err)
	}

	// Temp per-stream files must be gone after the session.
	for _, p := range []string{ff.mixes[0][0], ff.mixes[0][1]} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("Expected temp file %s to be removed", p)
		}
	}
}

func TestConvertDefaultsToG729(t *testing.T) {
	container := buildContainer(
		mediaPacket{streamID: 0, compression: -1, payload: []byte{9}},
	)
	inPath, outDir := writeContainer(t, container)

	ff := &fakeFFmpeg{}
	if err := New(ff, ff).Convert(context.Background(), inPath, outDir); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	for _, call := range ff.encodes {
		if call.format != "g729" {
			t.Errorf("Expected default format g729, got %s", call.format)
		}
	}
}

func TestConvertUnknownCompressionCode(t *testing.T) {
	container := buildContainer(
		mediaPacket{streamID: 0, compression: 42, payload: []byte{9}},
	)
	inPath, outDir := writeContainer(t, container)

	ff := &fakeFFmpeg{}
	err := New(ff, ff).Convert(context.Background(), inPath, outDir)
	if !errors.Is(err, core.ErrUnknownCompression) {
		t.Fatalf("Expected ErrUnknownCompression, got %v", err)
	}
	if len(ff.mixes) != 0 {
		t.Errorf("Expected no mix after unknown compression code")
	}
}

func TestConvertParseErrorSkipsEncoding(t *testing.T) {
	// Truncated mid-file: no terminal packet, half a header.
	container := header(4, 0, 0, 4, 0)
	container = append(container, []byte{1, 2, 3, 4, 0xFF}...)
	inPath, outDir := writeContainer(t, container)

	ff := &fakeFFmpeg{}
	err := New(ff, ff).Convert(context.Background(), inPath, outDir)
	if !errors.Is(err, core.ErrTruncatedHeader) {
		t.Fatalf("Expected ErrTruncatedHeader, got %v", err)
	}
	if len(ff.encodes) != 0 {
		t.Errorf("Expected no encode calls after a parse error, got %d", len(ff.encodes))
	}
}

func TestConvertMissingFile(t *testing.T) {
	ff := &fakeFFmpeg{}
	err := New(ff, ff).Convert(context.Background(), "/no/such/file.nmf", t.TempDir())
	if !errors.Is(err, core.ErrMissingFile) {
		t.Fatalf("Expected ErrMissingFile, got %v", err)
	}
}

func TestConvertEncodeFailureCleansUp(t *testing.T) {
	container := buildContainer(
		mediaPacket{streamID: 0, compression: 3, payload: []byte{1}},
	)
	inPath, outDir := writeContainer(t, container)

	ff := &fakeFFmpeg{failStage: "encode"}
	if err := New(ff, ff).Convert(context.Background(), inPath, outDir); err == nil {
		t.Fatal("Expected encode failure to propagate")
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no leftover files in output dir, got %v", entries)
	}
}
