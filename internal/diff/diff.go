// Package diff compares command output against golden files in tests.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Diff returns a human-readable description of the differences between
// want and got. If the "diff" command is available, it returns the output
// of unified diff. The result is empty if and only if want == got.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("diff command unavailable\nwant: %q\ngot:  %q", want, got)
	}

	dir, err := os.MkdirTemp("", "specbench-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "want"), []byte(want), 0666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(filepath.Join(dir, "got"), []byte(got), 0666); err != nil {
		return err.Error()
	}

	cmd := exec.Command("diff", "-Nu", "want", "got")
	cmd.Dir = dir
	data, err := cmd.CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		return string(data)
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("want:\n%sgot:\n%s", want, got)
}

// Golden compares got with the contents of the file at path and returns
// the differences. A missing golden file is treated as empty. On mismatch
// got is written next to it with a ".got" suffix for reference.
func Golden(path string, got []byte) (string, error) {
	want, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	d := Diff(string(want), string(got))
	if d == "" {
		return "", nil
	}
	if err := os.WriteFile(path+".got", got, 0666); err != nil {
		return d, err
	}
	return d, nil
}
