package speclog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadRunLog opens the run log at filePath and parses it.
func ReadRunLog(filePath string) ([]CallCount, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open run log")
	}
	defer f.Close()

	return ParseRunLog(f, filePath)
}

// ParseRunLog parses one "name:count" pair per line. Blank lines are
// skipped.
func ParseRunLog(r io.Reader, fileName string) ([]CallCount, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", fileName)
	}

	var counts []CallCount
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("expected \"name:count\", got %q", line)}
		}
		name := strings.TrimSpace(parts[0])
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("invalid call count %q for %s", strings.TrimSpace(parts[1]), name)}
		}
		counts = append(counts, CallCount{Name: name, Count: count})
	}
	return counts, nil
}
