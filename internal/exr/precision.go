package exr

import (
	"fmt"
	"strings"

	openexr "github.com/mrjoshuak/go-openexr/exr"
)

// Precision selects the storage type applied to every written channel.
type Precision int

const (
	// PrecisionHalf stores channels as 16-bit floats. This is the default.
	PrecisionHalf Precision = iota
	// PrecisionFloat stores channels as 32-bit floats.
	PrecisionFloat
)

// ParsePrecision accepts the configuration spellings "half" and "float"
// (any case). A leading "h" is enough to select half, matching the
// HALF/FLOAT switch of the render pipeline this engine ingests from.
func ParsePrecision(value string) (Precision, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "h"):
		return PrecisionHalf, nil
	case strings.HasPrefix(trimmed, "f"):
		return PrecisionFloat, nil
	default:
		return PrecisionHalf, fmt.Errorf("pixel precision: unsupported value %q (want half or float)", value)
	}
}

func (p Precision) String() string {
	if p == PrecisionFloat {
		return "FLOAT"
	}
	return "HALF"
}

// SampleBytes reports the per-sample storage size.
func (p Precision) SampleBytes() int {
	if p == PrecisionFloat {
		return 4
	}
	return 2
}

func (p Precision) pixelType() openexr.PixelType {
	if p == PrecisionFloat {
		return openexr.PixelTypeFloat
	}
	return openexr.PixelTypeHalf
}
