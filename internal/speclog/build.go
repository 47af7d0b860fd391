package speclog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadBuildLog opens the SPEC build log at filePath and parses it.
func ReadBuildLog(filePath string) ([]BuildStat, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open build log")
	}
	defer f.Close()

	return ParseBuildLog(f, filePath)
}

// ParseBuildLog sums the "Fetch Instrument:" and "Check Instrument:"
// counts reported while building each program. A "Building
// 500.perlbench_r ..." line starts the block of program perlbench_r.
// Building a program again resets its counts; programs are returned in
// order of first appearance.
func ParseBuildLog(r io.Reader, fileName string) ([]BuildStat, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", fileName)
	}

	var stats []BuildStat
	index := make(map[string]int)
	cur := -1
	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Building"):
			f := strings.Fields(line)
			if len(f) < 2 {
				return nil, &SyntaxError{fileName, i + 1, "Building line without a benchmark"}
			}
			_, prog, ok := strings.Cut(f[1], ".")
			if !ok {
				return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("malformed benchmark name %q", f[1])}
			}
			// Drop any trailing ".suffix" like the build label.
			prog, _, _ = strings.Cut(prog, ".")
			if j, ok := index[prog]; ok {
				stats[j] = BuildStat{Program: prog}
				cur = j
			} else {
				index[prog] = len(stats)
				cur = len(stats)
				stats = append(stats, BuildStat{Program: prog})
			}

		case strings.HasPrefix(line, "Fetch Instrument:"), strings.HasPrefix(line, "Check Instrument:"):
			if cur < 0 {
				return nil, &SyntaxError{fileName, i + 1, "instrument count outside of a Building block"}
			}
			f := strings.Fields(line)
			if len(f) < 3 {
				return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("missing count in %q", line)}
			}
			n, err := strconv.Atoi(f[2])
			if err != nil {
				return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("invalid count %q", f[2])}
			}
			if f[0] == "Fetch" {
				stats[cur].Fetch += n
			} else {
				stats[cur].Check += n
			}
		}
	}
	return stats, nil
}
