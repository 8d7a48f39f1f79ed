package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteSourceFile creates a placeholder source file and returns its path.
func WriteSourceFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// UniformSamples returns a sample buffer of size width*height*bytesPerSample
// filled with value. Handy for building stub images with recognizable bytes.
func UniformSamples(width, height, bytesPerSample int, value byte) []byte {
	samples := make([]byte, width*height*bytesPerSample)
	for i := range samples {
		samples[i] = value
	}
	return samples
}
