package exr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// SelfCheck round-trips a tiny image through the codec. It runs once
// before any frame is dispatched so a broken codec surfaces as a single
// up-front failure instead of one error per frame.
func (c *Codec) SelfCheck() error {
	dir, err := os.MkdirTemp("", "aovpack-codec-*")
	if err != nil {
		return fmt.Errorf("codec self-check: %w", err)
	}
	defer os.RemoveAll(dir)

	const width, height = 2, 2
	precision := PrecisionHalf
	pattern := make([]byte, width*height*precision.SampleBytes())
	for i := range pattern {
		pattern[i] = byte(i * 7)
	}

	path := filepath.Join(dir, "probe.exr")
	channels := []NamedSamples{
		{Name: "G", Samples: pattern},
		{Name: "R", Samples: pattern},
	}
	if err := c.WriteChannels(path, width, height, precision, channels); err != nil {
		return fmt.Errorf("codec self-check: %w", err)
	}

	info, err := c.Probe(path)
	if err != nil {
		return fmt.Errorf("codec self-check: %w", err)
	}
	if info.Width != width || info.Height != height || len(info.Channels) != len(channels) {
		return fmt.Errorf("codec self-check: wrote %dx%d with %d channels, read back %dx%d with %d",
			width, height, len(channels), info.Width, info.Height, len(info.Channels))
	}

	data, err := c.ReadChannels(path, precision)
	if err != nil {
		return fmt.Errorf("codec self-check: %w", err)
	}
	for _, channel := range channels {
		if !bytes.Equal(data.Samples[channel.Name], channel.Samples) {
			return fmt.Errorf("codec self-check: channel %s changed during round trip", channel.Name)
		}
	}
	return nil
}
