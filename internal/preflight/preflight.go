// Package preflight verifies a merge run's prerequisites before any frame
// is dispatched: directory access and a working container codec.
package preflight

// Kind identifies a check category independent of its display name.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindCodec     Kind = "codec"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Kind   Kind
	Name   string
	Passed bool
	Detail string
}

// SelfChecker is the codec self-test surface; exr.Codec implements it.
type SelfChecker interface {
	SelfCheck() error
}

// Request names the paths a run will touch.
type Request struct {
	SourceDir string
	OutputDir string
	LogDir    string
}

// RunAll executes every applicable check. The output directory is created
// later in the run, so its nearest existing ancestor is what gets checked.
func RunAll(req Request, codec SelfChecker) []Result {
	results := []Result{
		CheckSourceDirectory("Source directory", req.SourceDir),
	}
	if req.OutputDir != "" {
		results = append(results, CheckWritableAncestor("Output directory", req.OutputDir))
	}
	if req.LogDir != "" {
		results = append(results, CheckWritableAncestor("Log directory", req.LogDir))
	}
	results = append(results, CheckCodec(codec))
	return results
}

// Passed reports whether every check succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
