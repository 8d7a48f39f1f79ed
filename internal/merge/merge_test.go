package merge

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aovpack/internal/exr"
	"aovpack/internal/logging"
	"aovpack/internal/scanner"
	"aovpack/internal/testsupport"
)

func testRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		OutputDir:     t.TempDir(),
		ShotName:      "E001_C020",
		KeepOriginals: true,
		Precision:     exr.PrecisionHalf,
	}
}

func TestWriteFrameFastPathCopiesBytes(t *testing.T) {
	dir := t.TempDir()
	content := []byte("original exr bytes, any compression")
	src := testsupport.WriteSourceFile(t, dir, "render.0003_HdrColor.exr", content)

	writer := NewWriter(testsupport.NewStubCodec(), logging.NewNop())
	group := scanner.FrameGroup{
		Frame:   3,
		Sources: []scanner.SourceFile{{Group: "HdrColor", Path: src}},
	}
	req := testRequest(t)

	outcome := writer.WriteFrame(context.Background(), group, req)
	if outcome.Status != StatusOK {
		t.Fatalf("status = %s (%s), want ok", outcome.Status, outcome.Detail)
	}
	wantPath := filepath.Join(req.OutputDir, "E001_C020.0003.exr")
	if outcome.OutputPath != wantPath {
		t.Fatalf("output path = %s, want %s", outcome.OutputPath, wantPath)
	}
	got, err := os.ReadFile(outcome.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatal("fast path output differs from source bytes")
	}
}

func TestWriteFrameSkipsEmptyGroup(t *testing.T) {
	writer := NewWriter(testsupport.NewStubCodec(), logging.NewNop())
	outcome := writer.WriteFrame(context.Background(), scanner.FrameGroup{Frame: 7}, testRequest(t))
	if outcome.Status != StatusSkipped {
		t.Fatalf("status = %s, want skipped", outcome.Status)
	}
	if outcome.Detail != "no usable groups" {
		t.Fatalf("detail = %q", outcome.Detail)
	}
}

func TestWriteFrameMergesLayers(t *testing.T) {
	codec := testsupport.NewStubCodec()
	codec.AddImage("/src/beauty.exr", testsupport.StubImage{
		Width:  2,
		Height: 2,
		Samples: map[string][]byte{
			"R": testsupport.UniformSamples(2, 2, 2, 0x01),
			"G": testsupport.UniformSamples(2, 2, 2, 0x02),
			"B": testsupport.UniformSamples(2, 2, 2, 0x03),
			"A": testsupport.UniformSamples(2, 2, 2, 0x04),
		},
	})
	codec.AddImage("/src/depth.exr", testsupport.StubImage{
		Width:  2,
		Height: 2,
		Samples: map[string][]byte{
			"Z": testsupport.UniformSamples(2, 2, 2, 0x05),
		},
	})

	writer := NewWriter(codec, logging.NewNop())
	group := scanner.FrameGroup{
		Frame: 12,
		Sources: []scanner.SourceFile{
			{Group: "HdrColor", Path: "/src/beauty.exr"},
			{Group: "Depth", Path: "/src/depth.exr"},
		},
	}
	req := testRequest(t)

	outcome := writer.WriteFrame(context.Background(), group, req)
	if outcome.Status != StatusOK {
		t.Fatalf("status = %s (%s), want ok", outcome.Status, outcome.Detail)
	}

	written, ok := codec.Written(outcome.OutputPath)
	if !ok {
		t.Fatal("no write recorded")
	}
	if written.Width != 2 || written.Height != 2 {
		t.Fatalf("written %dx%d, want 2x2", written.Width, written.Height)
	}

	var names []string
	for _, channel := range written.Channels {
		names = append(names, channel.Name)
	}
	want := []string{"R", "G", "B", "A", "Depth.Y"}
	if len(names) != len(want) {
		t.Fatalf("channels = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("channels = %v, want %v", names, want)
		}
	}
}

func TestWriteFrameChannelConservation(t *testing.T) {
	codec := testsupport.NewStubCodec()
	codec.AddImage("/src/beauty.exr", testsupport.StubImage{
		Width:  1,
		Height: 1,
		Samples: map[string][]byte{
			"R": {0, 1},
			"G": {0, 2},
			"B": {0, 3},
		},
	})
	codec.AddImage("/src/crypto.exr", testsupport.StubImage{
		Width:  1,
		Height: 1,
		Samples: map[string][]byte{
			"id00": {0, 4},
			"id01": {0, 5},
			"rank": {0, 6},
		},
	})

	writer := NewWriter(codec, logging.NewNop())
	group := scanner.FrameGroup{
		Frame: 1,
		Sources: []scanner.SourceFile{
			{Group: "LdrColor", Path: "/src/beauty.exr"},
			{Group: "Crypto", Path: "/src/crypto.exr"},
		},
	}

	outcome := writer.WriteFrame(context.Background(), group, testRequest(t))
	if outcome.Status != StatusOK {
		t.Fatalf("status = %s (%s)", outcome.Status, outcome.Detail)
	}
	written, _ := codec.Written(outcome.OutputPath)
	if len(written.Channels) != 6 {
		t.Fatalf("wrote %d channels, want 6", len(written.Channels))
	}
	seen := make(map[string]bool)
	for _, channel := range written.Channels {
		if seen[channel.Name] {
			t.Fatalf("duplicate output channel %s", channel.Name)
		}
		seen[channel.Name] = true
	}
}

func TestWriteFrameResolutionMismatchFailsFrame(t *testing.T) {
	codec := testsupport.NewStubCodec()
	codec.AddImage("/src/beauty.exr", testsupport.StubImage{
		Width:   4,
		Height:  4,
		Samples: map[string][]byte{"R": testsupport.UniformSamples(4, 4, 2, 0x01)},
	})
	codec.AddImage("/src/half.exr", testsupport.StubImage{
		Width:   2,
		Height:  2,
		Samples: map[string][]byte{"R": testsupport.UniformSamples(2, 2, 2, 0x02)},
	})

	writer := NewWriter(codec, logging.NewNop())
	group := scanner.FrameGroup{
		Frame: 9,
		Sources: []scanner.SourceFile{
			{Group: "HdrColor", Path: "/src/beauty.exr"},
			{Group: "Half", Path: "/src/half.exr"},
		},
	}
	req := testRequest(t)

	outcome := writer.WriteFrame(context.Background(), group, req)
	if outcome.Status != StatusError {
		t.Fatalf("status = %s, want error", outcome.Status)
	}
	if !strings.Contains(outcome.Detail, "resolution mismatch") {
		t.Fatalf("detail = %q, want resolution mismatch", outcome.Detail)
	}
	if _, err := os.Stat(filepath.Join(req.OutputDir, "E001_C020.0009.exr")); !os.IsNotExist(err) {
		t.Fatal("output file should not exist after a failed frame")
	}
}

func TestWriteFrameDeletesSourcesWhenNotKeeping(t *testing.T) {
	dir := t.TempDir()
	src := testsupport.WriteSourceFile(t, dir, "render.0001_HdrColor.exr", []byte("payload"))

	writer := NewWriter(testsupport.NewStubCodec(), logging.NewNop())
	group := scanner.FrameGroup{
		Frame:   1,
		Sources: []scanner.SourceFile{{Group: "HdrColor", Path: src}},
	}
	req := testRequest(t)
	req.KeepOriginals = false

	outcome := writer.WriteFrame(context.Background(), group, req)
	if outcome.Status != StatusOK {
		t.Fatalf("status = %s (%s)", outcome.Status, outcome.Detail)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should have been deleted")
	}
}

func TestWriteFrameKeepsSourcesOnFailure(t *testing.T) {
	dir := t.TempDir()
	beauty := testsupport.WriteSourceFile(t, dir, "render.0001_HdrColor.exr", []byte("a"))
	depth := testsupport.WriteSourceFile(t, dir, "render.0001_Depth.exr", []byte("b"))

	codec := testsupport.NewStubCodec()
	codec.AddImage(beauty, testsupport.StubImage{
		Width:   1,
		Height:  1,
		Samples: map[string][]byte{"R": {0, 1}},
	})
	codec.FailRead(depth, os.ErrPermission)
	codec.AddImage(depth, testsupport.StubImage{
		Width:   1,
		Height:  1,
		Samples: map[string][]byte{"Z": {0, 2}},
	})

	writer := NewWriter(codec, logging.NewNop())
	group := scanner.FrameGroup{
		Frame: 1,
		Sources: []scanner.SourceFile{
			{Group: "HdrColor", Path: beauty},
			{Group: "Depth", Path: depth},
		},
	}
	req := testRequest(t)
	req.KeepOriginals = false

	outcome := writer.WriteFrame(context.Background(), group, req)
	if outcome.Status != StatusError {
		t.Fatalf("status = %s, want error", outcome.Status)
	}
	for _, path := range []string{beauty, depth} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("source %s should survive a failed frame: %v", path, err)
		}
	}
}

func TestSplitSourcesFirstDefaultWins(t *testing.T) {
	defaultSource, layers := splitSources([]scanner.SourceFile{
		{Group: "hdr color", Path: "/a.exr"},
		{Group: "LdrColor", Path: "/b.exr"},
		{Group: "Depth", Path: "/c.exr"},
		{Group: "Depth", Path: "/d.exr"},
	})
	if defaultSource == nil || defaultSource.Path != "/a.exr" {
		t.Fatalf("default = %+v, want /a.exr", defaultSource)
	}
	if len(layers) != 2 {
		t.Fatalf("layers = %+v, want 2", layers)
	}
	if layers[0].Group != "LdrColor" {
		t.Fatalf("second default-color name should become a named layer, got %s", layers[0].Group)
	}
	if layers[1].Group != "Depth" || layers[1].Path != "/d.exr" {
		t.Fatalf("duplicate group should keep position with the later path, got %+v", layers[1])
	}
}
