package merge

import (
	"fmt"

	"aovpack/internal/exr"
	"aovpack/internal/services"
)

// ResolutionMismatchError reports a source whose dimensions differ from
// the frame's reference dimensions.
type ResolutionMismatchError struct {
	Path           string
	ExpectedWidth  int
	ExpectedHeight int
	FoundWidth     int
	FoundHeight    int
}

func (e *ResolutionMismatchError) Error() string {
	return fmt.Sprintf("resolution mismatch: %s is %dx%d, expected %dx%d",
		e.Path, e.FoundWidth, e.FoundHeight, e.ExpectedWidth, e.ExpectedHeight)
}

// validateResolution confirms every contributing source shares the first
// source's dimensions and returns them. contributors and infos are
// parallel slices.
func validateResolution(contributors []contributor, infos []exr.Info) (int, int, error) {
	if len(infos) == 0 {
		return 0, 0, services.Wrap(services.ErrValidation, "merge", "validate", "no contributing sources", nil)
	}
	width, height := infos[0].Width, infos[0].Height
	for i := 1; i < len(infos); i++ {
		if infos[i].Width != width || infos[i].Height != height {
			mismatch := &ResolutionMismatchError{
				Path:           contributors[i].source.Path,
				ExpectedWidth:  width,
				ExpectedHeight: height,
				FoundWidth:     infos[i].Width,
				FoundHeight:    infos[i].Height,
			}
			return 0, 0, fmt.Errorf("%w: %w", services.ErrValidation, mismatch)
		}
	}
	return width, height, nil
}
