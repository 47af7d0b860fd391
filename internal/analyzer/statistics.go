package analyzer

import (
	"fmt"
	"strings"

	"specbench-tools/internal/speclog"
)

// CompileStatistics summarizes a parsed compile log.
type CompileStatistics struct {
	Functions       int
	UniqueFunctions int
	DuplicateNames  []string // names with more than one block, in log order
	TotalBuiltin    int
	TotalCluster    int
	TotalRuntime    int
	TotalWeight     float64
	NoiseFunctions  int // records at or below the noise threshold
}

// ComputeStatistics calculates totals over all records of a compile log.
func ComputeStatistics(records []speclog.FunctionRecord, noiseThreshold int) CompileStatistics {
	stats := CompileStatistics{Functions: len(records)}

	seen := make(map[string]int)
	for _, r := range records {
		seen[r.Name]++
		if seen[r.Name] == 2 {
			stats.DuplicateNames = append(stats.DuplicateNames, r.Name)
		}

		stats.TotalBuiltin += r.Builtin
		stats.TotalCluster += r.Cluster
		stats.TotalRuntime += r.Runtime
		stats.TotalWeight += Weight(r)

		if r.Runtime+r.Cluster <= noiseThreshold {
			stats.NoiseFunctions++
		}
	}
	stats.UniqueFunctions = len(seen)

	return stats
}

// FormatStatistics returns a human-readable summary of stats.
func FormatStatistics(stats CompileStatistics) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Functions: %d (%d unique)\n", stats.Functions, stats.UniqueFunctions))
	sb.WriteString(fmt.Sprintf("Builtin checks: %d\n", stats.TotalBuiltin))
	sb.WriteString(fmt.Sprintf("Cluster checks: %d\n", stats.TotalCluster))
	sb.WriteString(fmt.Sprintf("Runtime checks: %d\n", stats.TotalRuntime))
	sb.WriteString(fmt.Sprintf("Total weight: %.1f\n", stats.TotalWeight))
	sb.WriteString(fmt.Sprintf("Below noise threshold: %d\n", stats.NoiseFunctions))

	if len(stats.DuplicateNames) > 0 {
		sb.WriteString(fmt.Sprintf("Duplicate names: %s\n", strings.Join(stats.DuplicateNames, ", ")))
	}

	return sb.String()
}
