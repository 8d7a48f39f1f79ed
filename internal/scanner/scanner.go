package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filename patterns emitted by the capture pipeline:
//
//	Capture.0001_HdrColor.exr   (per-frame group file)
//	Capture_HdrColor.exr        (frameless single capture)
//
// Anything else in the directory is ignored.
var (
	framedPattern    = regexp.MustCompile(`^(?i)(.+?)\.(\d+)_([A-Za-z0-9_]+)\.exr$`)
	framelessPattern = regexp.MustCompile(`^(?i)(.+?)_([A-Za-z0-9_]+)\.exr$`)
)

// SourceFile is one per-group capture discovered in the source directory.
// Group keeps the exact casing found in the filename; it becomes the layer
// name in the merged container.
type SourceFile struct {
	Group string
	Path  string
}

// FrameGroup is the unit of work for one output file. Frame is the
// canonical integer key: differently padded ids ("1", "0001") belong to
// the same group.
type FrameGroup struct {
	Frame   int
	Sources []SourceFile
}

// Padded returns the frame id zero-padded to four digits, the width used
// for output filenames.
func (g FrameGroup) Padded() string {
	return fmt.Sprintf("%04d", g.Frame)
}

// Scan groups the directory's capture files by frame, sorted by frame
// number. Within a frame, sources keep directory-listing order so repeated
// scans of the same directory are deterministic.
//
// When no framed file matches but frameless captures exist, those are
// gathered into a synthetic frame 0, one source per group name.
func Scan(dir string) ([]FrameGroup, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	byFrame := make(map[int][]SourceFile)
	frameless := make([]SourceFile, 0)
	framelessIndex := make(map[string]int)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		if match := framedPattern.FindStringSubmatch(name); match != nil {
			frame, convErr := strconv.Atoi(match[2])
			if convErr != nil {
				continue
			}
			byFrame[frame] = append(byFrame[frame], SourceFile{Group: match[3], Path: path})
			continue
		}
		if match := framelessPattern.FindStringSubmatch(name); match != nil {
			group := match[2]
			if at, seen := framelessIndex[group]; seen {
				frameless[at].Path = path
				continue
			}
			framelessIndex[group] = len(frameless)
			frameless = append(frameless, SourceFile{Group: group, Path: path})
		}
	}

	if len(byFrame) == 0 && len(frameless) > 0 {
		byFrame[0] = frameless
	}

	groups := make([]FrameGroup, 0, len(byFrame))
	for frame, sources := range byFrame {
		groups = append(groups, FrameGroup{Frame: frame, Sources: sources})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Frame < groups[j].Frame })
	return groups, nil
}

// ListFrames returns the sorted frame numbers found in dir. A missing
// directory yields an empty result, not an error; the query operations
// exist for pre-flight inspection.
func ListFrames(dir string) ([]int, error) {
	groups, err := scanQuietly(dir)
	if err != nil {
		return nil, err
	}
	frames := make([]int, 0, len(groups))
	for _, group := range groups {
		frames = append(frames, group.Frame)
	}
	return frames, nil
}

// ListGroups returns the distinct group names found in dir, sorted with
// numeric-aware collation so Depth2 precedes Depth10.
func ListGroups(dir string) ([]string, error) {
	groups, err := scanQuietly(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, group := range groups {
		for _, source := range group.Sources {
			if _, ok := seen[source.Group]; ok {
				continue
			}
			seen[source.Group] = struct{}{}
			names = append(names, source.Group)
		}
	}
	collate.New(language.Und, collate.Numeric).SortStrings(names)
	return names, nil
}

func scanQuietly(dir string) ([]FrameGroup, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	return Scan(dir)
}

// Summary is a pre-dispatch digest of a scan result.
type Summary struct {
	FrameCount int
	Groups     []string
}

// Summarize digests the scanned groups for logging and the CLI.
func Summarize(groups []FrameGroup) Summary {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, group := range groups {
		for _, source := range group.Sources {
			if _, ok := seen[source.Group]; ok {
				continue
			}
			seen[source.Group] = struct{}{}
			names = append(names, source.Group)
		}
	}
	collate.New(language.Und, collate.Numeric).SortStrings(names)
	return Summary{FrameCount: len(groups), Groups: names}
}

// Preview renders the digest in the short form shown before a merge run,
// capping the group listing at five names.
func (s Summary) Preview() string {
	if s.FrameCount == 0 {
		return "No AOV EXR files found"
	}
	shown := s.Groups
	more := ""
	if len(shown) > 5 {
		more = fmt.Sprintf("... (+%d more)", len(shown)-5)
		shown = shown[:5]
	}
	return fmt.Sprintf("Found %d frame(s), %d group(s): %s%s",
		s.FrameCount, len(s.Groups), strings.Join(shown, ", "), more)
}
