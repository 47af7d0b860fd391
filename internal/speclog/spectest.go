package speclog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadSpectestLog opens the spectest harness log at filePath and parses it.
func ReadSpectestLog(filePath string) ([]Measurement, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open spectest log")
	}
	defer f.Close()

	return ParseSpectestLog(f, filePath)
}

// ParseSpectestLog parses the output of the spectest harness:
//
//	Testing 505.mcf_r
//	[native] Running "../run_peak_refrate_native.0000/mcf_r_peak.native inp.in"
//	Time:  5120 ms
//	Memory:  620 KB
//
// Each Running line starts a Measurement that the following Time and
// Memory lines fill in. Unrecognized lines are ignored.
func ParseSpectestLog(r io.Reader, fileName string) ([]Measurement, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", fileName)
	}

	var (
		ms    []Measurement
		bench string
	)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Testing "):
			bench = strings.TrimSpace(strings.TrimPrefix(line, "Testing "))

		case strings.HasPrefix(line, "[") && strings.Contains(line, "] Running "):
			if bench == "" {
				return nil, &SyntaxError{fileName, i + 1, "Running line before any Testing line"}
			}
			config, command, _ := strings.Cut(line[1:], "] Running ")
			ms = append(ms, Measurement{
				Benchmark: bench,
				Config:    config,
				Command:   strings.Trim(command, `"`),
			})

		case strings.HasPrefix(line, "Time:"), strings.HasPrefix(line, "Memory:"):
			if len(ms) == 0 {
				return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("%q before any Running line", line)}
			}
			f := strings.Fields(line)
			if len(f) < 2 {
				return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("missing value in %q", line)}
			}
			n, err := strconv.Atoi(f[1])
			if err != nil {
				return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("invalid value %q", f[1])}
			}
			m := &ms[len(ms)-1]
			if f[0] == "Time:" {
				m.TimeMs = n
			} else {
				m.MemoryKB = n
			}
		}
	}
	return ms, nil
}
