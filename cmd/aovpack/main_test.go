package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aovpack/internal/services"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.Wrap(services.ErrConfiguration, "runner", "validate", "bad source folder", nil), 2},
		{services.Wrap(services.ErrCodec, "runner", "preflight", "self-check failed", nil), 2},
		{services.Wrap(services.ErrLocked, "runner", "acquire lock", "", nil), 2},
		{services.Wrap(services.ErrIO, "merge", "write", "", errors.New("disk full")), 1},
		{errors.New("3 frame(s) failed"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestFramesCommand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Capture.0001_HdrColor.exr", "Capture.0002_HdrColor.exr"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := executeCommand(t, "frames", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0001") || !strings.Contains(out, "0002") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestFramesCommandEmptyDirectory(t *testing.T) {
	out, err := executeCommand(t, "frames", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No AOV EXR files found") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestGroupsCommandJSON(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Capture.0001_Depth.exr", "Capture.0001_HdrColor.exr"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := executeCommand(t, "groups", dir, "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "\"Depth\"") || !strings.Contains(out, "\"HdrColor\"") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("output:\n%s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}

	out, err = executeCommand(t, "config", "show", "-f", target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "shot_name = 'E001_C020'") && !strings.Contains(out, `shot_name = "E001_C020"`) {
		t.Fatalf("output:\n%s", out)
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[merge]\nprecision = \"double\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(t, "config", "validate", "-f", path); err == nil {
		t.Fatal("expected validation error")
	}
}
