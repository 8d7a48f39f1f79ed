package exr

import (
	"fmt"
	"os"
	"sort"

	openexr "github.com/mrjoshuak/go-openexr/exr"
)

// Info describes the header of a single-part scanline file.
type Info struct {
	Width    int
	Height   int
	Channels []string
}

// ChannelData holds every decoded channel of one file, keyed by channel
// name. Sample buffers are width*height samples at the precision the data
// was requested at.
type ChannelData struct {
	Width   int
	Height  int
	Samples map[string][]byte
}

// NamedSamples pairs an output channel name with its sample buffer.
type NamedSamples struct {
	Name    string
	Samples []byte
}

// Codec reads and writes single-part scanline OpenEXR files.
type Codec struct{}

// NewCodec returns the production codec backed by go-openexr.
func NewCodec() *Codec {
	return &Codec{}
}

// Probe reads only the header of the file: dimensions and channel names.
// Channel names are returned sorted.
func (c *Codec) Probe(path string) (Info, error) {
	file, closeFile, err := openFile(path)
	if err != nil {
		return Info{}, err
	}
	defer closeFile()

	header := file.Header(0)
	if header == nil {
		return Info{}, fmt.Errorf("probe %s: missing header", path)
	}
	channels := header.Channels()
	if channels == nil {
		return Info{}, fmt.Errorf("probe %s: no channels", path)
	}

	names := make([]string, 0, channels.Len())
	for i := 0; i < channels.Len(); i++ {
		names = append(names, channels.At(i).Name)
	}
	sort.Strings(names)

	window := header.DataWindow()
	return Info{
		Width:    int(window.Width()),
		Height:   int(window.Height()),
		Channels: names,
	}, nil
}

// ReadChannels decodes every channel of the file at the requested
// precision. The library converts when the stored precision differs.
func (c *Codec) ReadChannels(path string, precision Precision) (*ChannelData, error) {
	file, closeFile, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	header := file.Header(0)
	if header == nil {
		return nil, fmt.Errorf("read %s: missing header", path)
	}
	stored := header.Channels()
	if stored == nil {
		return nil, fmt.Errorf("read %s: no channels", path)
	}

	window := header.DataWindow()
	wanted := openexr.NewChannelList()
	for i := 0; i < stored.Len(); i++ {
		channel := stored.At(i)
		channel.Type = precision.pixelType()
		wanted.Add(channel)
	}

	frameBuffer, samples := openexr.AllocateChannels(wanted, window)
	reader, err := openexr.NewScanlineReaderPart(file, 0)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	reader.SetFrameBuffer(frameBuffer)
	if err := reader.ReadPixels(int(window.Min.Y), int(window.Max.Y)); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &ChannelData{
		Width:   int(window.Width()),
		Height:  int(window.Height()),
		Samples: samples,
	}, nil
}

// WriteChannels serializes the combined channel set as one single-part
// scanline file. Each buffer must hold width*height samples at the given
// precision. A partially written file is removed on failure.
func (c *Codec) WriteChannels(path string, width, height int, precision Precision, channels []NamedSamples) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("write %s: invalid dimensions %dx%d", path, width, height)
	}
	expected := width * height * precision.SampleBytes()

	window := openexr.Box2i{
		Min: openexr.V2i{X: 0, Y: 0},
		Max: openexr.V2i{X: int32(width - 1), Y: int32(height - 1)},
	}
	list := openexr.NewChannelList()
	for _, channel := range channels {
		if len(channel.Samples) != expected {
			return fmt.Errorf("write %s: channel %s holds %d bytes, want %d",
				path, channel.Name, len(channel.Samples), expected)
		}
		list.Add(openexr.Channel{
			Name:      channel.Name,
			Type:      precision.pixelType(),
			XSampling: 1,
			YSampling: 1,
		})
	}

	header := openexr.NewHeader()
	header.SetDataWindow(window)
	header.SetDisplayWindow(window)
	header.SetChannels(list)

	frameBuffer, buffers := openexr.AllocateChannels(list, window)
	for _, channel := range channels {
		destination, ok := buffers[channel.Name]
		if !ok {
			return fmt.Errorf("write %s: no buffer allocated for channel %s", path, channel.Name)
		}
		copy(destination, channel.Samples)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	writer, err := openexr.NewScanlineWriter(out, header)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	writer.SetFrameBuffer(frameBuffer)
	if err := writer.WritePixels(0, height-1); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func openFile(path string) (*openexr.File, func(), error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	stat, err := handle.Stat()
	if err != nil {
		_ = handle.Close()
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	file, err := openexr.OpenReader(handle, stat.Size())
	if err != nil {
		_ = handle.Close()
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return file, func() { _ = handle.Close() }, nil
}
