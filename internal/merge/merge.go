package merge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"aovpack/internal/classify"
	"aovpack/internal/exr"
	"aovpack/internal/fileutil"
	"aovpack/internal/logging"
	"aovpack/internal/scanner"
	"aovpack/internal/services"
)

// Codec is the container codec surface the writer depends on. The
// production implementation is exr.Codec; tests substitute a stub.
type Codec interface {
	Probe(path string) (exr.Info, error)
	ReadChannels(path string, precision exr.Precision) (*exr.ChannelData, error)
	WriteChannels(path string, width, height int, precision exr.Precision, channels []exr.NamedSamples) error
}

// Status classifies a frame outcome.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Outcome is the result of processing one frame. Frames are never retried.
type Outcome struct {
	Frame      int
	Status     Status
	OutputPath string
	Detail     string
}

// Request carries the per-run parameters a frame write needs.
type Request struct {
	OutputDir     string
	ShotName      string
	KeepOriginals bool
	Precision     exr.Precision
}

// Writer merges one frame group at a time. It is safe for concurrent use
// by multiple workers; all state is per-call.
type Writer struct {
	codec  Codec
	logger *slog.Logger
}

// NewWriter builds a frame writer on the given codec.
func NewWriter(codec Codec, logger *slog.Logger) *Writer {
	return &Writer{
		codec:  codec,
		logger: logging.NewComponentLogger(logger, "merge"),
	}
}

// WriteFrame validates, classifies, and serializes one frame group.
// Failures are contained in the returned Outcome and never abort the
// batch. Source files are deleted only after a successful write, and only
// when the request says not to keep them.
func (w *Writer) WriteFrame(ctx context.Context, group scanner.FrameGroup, req Request) Outcome {
	logger := logging.WithContext(logging.WithFrame(ctx, group.Frame), w.logger)

	defaultSource, layers := splitSources(group.Sources)
	if defaultSource == nil && len(layers) == 0 {
		return Outcome{Frame: group.Frame, Status: StatusSkipped, Detail: "no usable groups"}
	}

	outputPath := filepath.Join(req.OutputDir, fmt.Sprintf("%s.%s.exr", req.ShotName, group.Padded()))

	if defaultSource != nil && len(layers) == 0 {
		// Fast path: nothing to merge, preserve the original encoding.
		if err := fileutil.CopyFileVerified(defaultSource.Path, outputPath); err != nil {
			wrapped := services.Wrap(services.ErrIO, "merge", "copy", defaultSource.Path, err)
			return Outcome{Frame: group.Frame, Status: StatusError, Detail: wrapped.Error()}
		}
	} else {
		if err := w.writeMultiLayer(outputPath, defaultSource, layers, req.Precision); err != nil {
			return Outcome{Frame: group.Frame, Status: StatusError, Detail: err.Error()}
		}
	}

	if !req.KeepOriginals {
		deleteSources(logger, group.Sources)
	}
	return Outcome{Frame: group.Frame, Status: StatusOK, OutputPath: outputPath}
}

func (w *Writer) writeMultiLayer(outputPath string, defaultSource *scanner.SourceFile, layers []scanner.SourceFile, precision exr.Precision) error {
	contributors := make([]contributor, 0, len(layers)+1)
	if defaultSource != nil {
		contributors = append(contributors, contributor{source: *defaultSource})
	}
	for _, layer := range layers {
		contributors = append(contributors, contributor{source: layer, layer: layer.Group})
	}

	// Probe every header first: a resolution mismatch must fail the frame
	// before any pixel data is decoded.
	infos := make([]exr.Info, len(contributors))
	for i, c := range contributors {
		info, err := w.codec.Probe(c.source.Path)
		if err != nil {
			return services.Wrap(services.ErrIO, "merge", "probe", c.source.Path, err)
		}
		infos[i] = info
	}
	width, height, err := validateResolution(contributors, infos)
	if err != nil {
		return err
	}

	var channels []exr.NamedSamples
	for i, c := range contributors {
		registrations := classify.Channels(c.layer, infos[i].Channels)
		data, err := w.codec.ReadChannels(c.source.Path, precision)
		if err != nil {
			return services.Wrap(services.ErrIO, "merge", "read", c.source.Path, err)
		}
		for _, registration := range registrations {
			samples, ok := data.Samples[registration.Source]
			if !ok {
				return services.Wrap(services.ErrIO, "merge", "read",
					fmt.Sprintf("channel %s missing from %s", registration.Source, c.source.Path), nil)
			}
			channels = append(channels, exr.NamedSamples{Name: registration.Output, Samples: samples})
		}
	}

	if err := w.codec.WriteChannels(outputPath, width, height, precision, channels); err != nil {
		return services.Wrap(services.ErrIO, "merge", "write", outputPath, err)
	}
	return nil
}

type contributor struct {
	source scanner.SourceFile
	layer  string // "" for the top-level namespace
}

// splitSources picks the default-color source and the named layers. The
// first source whose group name matches a reserved default-color name
// (case/space-insensitive) becomes the top-level layer; everything else is
// keyed by its literal group name, later duplicates replacing earlier ones
// in place.
func splitSources(sources []scanner.SourceFile) (*scanner.SourceFile, []scanner.SourceFile) {
	var defaultSource *scanner.SourceFile
	layers := make([]scanner.SourceFile, 0, len(sources))
	position := make(map[string]int)

	for _, source := range sources {
		if defaultSource == nil && isDefaultColor(source.Group) {
			chosen := source
			defaultSource = &chosen
			continue
		}
		if at, seen := position[source.Group]; seen {
			layers[at].Path = source.Path
			continue
		}
		position[source.Group] = len(layers)
		layers = append(layers, source)
	}
	return defaultSource, layers
}

func isDefaultColor(group string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(group, " ", ""))
	return normalized == "hdrcolor" || normalized == "ldrcolor"
}

func deleteSources(logger *slog.Logger, sources []scanner.SourceFile) {
	// Best effort: the output already exists, so a failed delete is worth
	// a warning but not a frame error.
	for _, source := range sources {
		if err := os.Remove(source.Path); err != nil {
			logger.Warn("failed to delete source file",
				logging.String("path", source.Path),
				logging.Error(err))
		}
	}
}
