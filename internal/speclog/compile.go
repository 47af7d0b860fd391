package speclog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadCompileLog opens the compile log at filePath and parses it.
func ReadCompileLog(filePath string) ([]FunctionRecord, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open compile log")
	}
	defer f.Close()

	return ParseCompileLog(f, filePath)
}

// ParseCompileLog parses a sequence of blocks of the form
//
//	[name]
//	builtin: N
//	cluster: N
//	runtime: N
//
// Only the position of a counter line gives it meaning; its label is
// ignored. Records are returned in log order.
func ParseCompileLog(r io.Reader, fileName string) ([]FunctionRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", fileName)
	}

	var records []FunctionRecord
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		name, ok := parseHeader(line)
		if !ok {
			return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("expected [function] header, got %q", line)}
		}

		rec := FunctionRecord{Name: name}
		counters := []struct {
			label string
			dst   *int
		}{
			{"builtin", &rec.Builtin},
			{"cluster", &rec.Cluster},
			{"runtime", &rec.Runtime},
		}
		for _, c := range counters {
			i++
			if i >= len(lines) {
				return nil, &SyntaxError{fileName, i, fmt.Sprintf("unexpected end of file in block [%s]: missing %s counter", name, c.label)}
			}
			v, err := parseCounter(lines[i])
			if err != nil {
				return nil, &SyntaxError{fileName, i + 1, fmt.Sprintf("%s counter of [%s]: %v", c.label, name, err)}
			}
			*c.dst = v
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseHeader(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") || len(line) < 2 {
		return "", false
	}
	return line[1 : len(line)-1], true
}

// parseCounter parses "label: N".
func parseCounter(line string) (int, error) {
	line = strings.TrimSpace(line)
	if _, ok := parseHeader(line); ok {
		return 0, fmt.Errorf("got header %q", line)
	}
	_, value, ok := strings.Cut(line, ":")
	if !ok {
		return 0, fmt.Errorf("expected \"label: N\", got %q", line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", strings.TrimSpace(value))
	}
	return n, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
