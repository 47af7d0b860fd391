package speclog

import "fmt"

// FunctionRecord is one [name] block of a compile log.
type FunctionRecord struct {
	Name    string
	Builtin int // builtin checks inserted
	Cluster int // checks merged into a cluster
	Runtime int // checks deferred to the runtime
}

// CallCount is one name:count line of a run log.
type CallCount struct {
	Name  string
	Count int
}

// BuildStat holds the instrumentation counts of one program in a build log.
type BuildStat struct {
	Program string
	Fetch   int
	Check   int
}

// Measurement is one command run reported by the spectest harness.
type Measurement struct {
	Benchmark string
	Config    string
	Command   string
	TimeMs    int
	MemoryKB  int
}

// A SyntaxError reports a malformed line in one of the log formats.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}
