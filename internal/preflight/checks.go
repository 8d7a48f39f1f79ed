package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CheckSourceDirectory verifies that the directory exists and is readable.
func CheckSourceDirectory(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Kind: KindDirectory, Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckWritableAncestor walks up from path to its nearest existing
// ancestor and verifies that it is a writable directory. The path itself
// may not exist yet; the run creates it.
func CheckWritableAncestor(name, path string) Result {
	probe := path
	for {
		info, err := os.Stat(probe)
		if err == nil {
			if !info.IsDir() {
				return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, probe)}
			}
			if err := unix.Access(probe, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
				return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions on %s: %v)", path, probe, err)}
			}
			return Result{Kind: KindDirectory, Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable via %s)", path, probe)}
		}
		if !os.IsNotExist(err) {
			return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: stat %s: %v)", path, probe, err)}
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return Result{Kind: KindDirectory, Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
		}
		probe = parent
	}
}

// CheckCodec round-trips a tiny image through the container codec.
func CheckCodec(codec SelfChecker) Result {
	const name = "Container codec"
	if codec == nil {
		return Result{Kind: KindCodec, Name: name, Detail: "no codec configured"}
	}
	if err := codec.SelfCheck(); err != nil {
		return Result{Kind: KindCodec, Name: name, Detail: fmt.Sprintf("self-check failed: %v", err)}
	}
	return Result{Kind: KindCodec, Name: name, Passed: true, Detail: "round-trip ok"}
}
