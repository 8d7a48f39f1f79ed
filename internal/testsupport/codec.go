// Package testsupport provides an in-memory codec stub and fixture helpers
// shared by package tests.
package testsupport

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"aovpack/internal/exr"
)

// StubImage is an in-memory source image served by StubCodec.
type StubImage struct {
	Width   int
	Height  int
	Samples map[string][]byte
}

// StubCodec serves canned images keyed by path and records what gets
// written. Safe for concurrent use.
type StubCodec struct {
	mu       sync.Mutex
	images   map[string]StubImage
	probeErr map[string]error
	readErr  map[string]error
	writeErr error

	// PanicMessage, when set, makes every call panic. Used to exercise
	// worker panic containment.
	PanicMessage string

	// SelfCheckErr, when set, makes the codec self-check fail.
	SelfCheckErr error

	written map[string]WrittenImage
}

// WrittenImage captures one WriteChannels call.
type WrittenImage struct {
	Width     int
	Height    int
	Precision exr.Precision
	Channels  []exr.NamedSamples
}

// NewStubCodec builds an empty stub codec.
func NewStubCodec() *StubCodec {
	return &StubCodec{
		images:   make(map[string]StubImage),
		probeErr: make(map[string]error),
		readErr:  make(map[string]error),
		written:  make(map[string]WrittenImage),
	}
}

// AddImage registers an in-memory image for path.
func (c *StubCodec) AddImage(path string, image StubImage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[path] = image
}

// FailProbe makes Probe return err for path.
func (c *StubCodec) FailProbe(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probeErr[path] = err
}

// FailRead makes ReadChannels return err for path.
func (c *StubCodec) FailRead(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr[path] = err
}

// FailWrite makes every WriteChannels call return err.
func (c *StubCodec) FailWrite(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// Written returns the recorded write for path, if any.
func (c *StubCodec) Written(path string) (WrittenImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recorded, ok := c.written[path]
	return recorded, ok
}

// SelfCheck satisfies the preflight self-test surface.
func (c *StubCodec) SelfCheck() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.SelfCheckErr
}

func (c *StubCodec) Probe(path string) (exr.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PanicMessage != "" {
		panic(c.PanicMessage)
	}
	if err := c.probeErr[path]; err != nil {
		return exr.Info{}, err
	}
	image, ok := c.images[path]
	if !ok {
		return exr.Info{}, fmt.Errorf("no stub image for %s", path)
	}
	names := make([]string, 0, len(image.Samples))
	for name := range image.Samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return exr.Info{Width: image.Width, Height: image.Height, Channels: names}, nil
}

func (c *StubCodec) ReadChannels(path string, precision exr.Precision) (*exr.ChannelData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PanicMessage != "" {
		panic(c.PanicMessage)
	}
	if err := c.readErr[path]; err != nil {
		return nil, err
	}
	image, ok := c.images[path]
	if !ok {
		return nil, fmt.Errorf("no stub image for %s", path)
	}
	samples := make(map[string][]byte, len(image.Samples))
	for name, data := range image.Samples {
		copied := make([]byte, len(data))
		copy(copied, data)
		samples[name] = copied
	}
	return &exr.ChannelData{Width: image.Width, Height: image.Height, Samples: samples}, nil
}

func (c *StubCodec) WriteChannels(path string, width, height int, precision exr.Precision, channels []exr.NamedSamples) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PanicMessage != "" {
		panic(c.PanicMessage)
	}
	if c.writeErr != nil {
		return c.writeErr
	}

	// Materialize a deterministic placeholder file so callers can treat
	// the output path as real.
	payload := fmt.Sprintf("stub exr %dx%d %s\n", width, height, precision)
	for _, channel := range channels {
		payload += fmt.Sprintf("%s:%d\n", channel.Name, len(channel.Samples))
	}
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		return err
	}

	recorded := WrittenImage{Width: width, Height: height, Precision: precision}
	recorded.Channels = append(recorded.Channels, channels...)
	c.written[path] = recorded
	return nil
}
