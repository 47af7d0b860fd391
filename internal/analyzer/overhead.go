package analyzer

import (
	"fmt"
	"io"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"

	"specbench-tools/internal/speclog"
	"specbench-tools/internal/texttab"
)

// Overhead is the cost of an instrumented configuration of one benchmark
// relative to its baseline.
type Overhead struct {
	Benchmark   string
	TimeRatio   float64
	MemoryRatio float64
}

// OverheadSummary is the per-benchmark overheads and their geometric means,
// in percent.
type OverheadSummary struct {
	Benchmarks    []Overhead
	GeoMeanTime   float64
	GeoMeanMemory float64
}

type totals struct{ time, memory int }

// ComputeOverheads sums the measurements of each benchmark per config and
// compares config against baseline. Benchmarks are reported in the order
// they were tested.
//
// Overheads below the resolution of the harness (1s of time, 1MB of
// memory) are clamped so the geometric mean stays defined.
func ComputeOverheads(ms []speclog.Measurement, baseline, config string) (*OverheadSummary, error) {
	var order []string
	sums := make(map[string]map[string]*totals)
	for _, m := range ms {
		byConfig, ok := sums[m.Benchmark]
		if !ok {
			byConfig = make(map[string]*totals)
			sums[m.Benchmark] = byConfig
			order = append(order, m.Benchmark)
		}
		t, ok := byConfig[m.Config]
		if !ok {
			t = new(totals)
			byConfig[m.Config] = t
		}
		t.time += m.TimeMs
		t.memory += m.MemoryKB
	}
	if len(order) == 0 {
		return nil, ErrNoData
	}

	summary := &OverheadSummary{}
	var timeOver, memOver []float64
	for _, bench := range order {
		base, ok := sums[bench][baseline]
		if !ok {
			return nil, errors.Errorf("%s: no %s measurements", bench, baseline)
		}
		inst, ok := sums[bench][config]
		if !ok {
			return nil, errors.Errorf("%s: no %s measurements", bench, config)
		}
		if base.time <= 0 || base.memory <= 0 {
			return nil, errors.Errorf("%s: %s time and memory must be positive", bench, baseline)
		}

		o := Overhead{
			Benchmark:   bench,
			TimeRatio:   float64(inst.time) / float64(base.time),
			MemoryRatio: float64(inst.memory) / float64(base.memory),
		}
		summary.Benchmarks = append(summary.Benchmarks, o)
		timeOver = append(timeOver, math.Max(o.TimeRatio-1, 1000/float64(base.time)))
		memOver = append(memOver, math.Max(o.MemoryRatio-1, 1024/float64(base.memory)))
	}

	summary.GeoMeanTime = stats.GeoMean(timeOver) * 100
	summary.GeoMeanMemory = stats.GeoMean(memOver) * 100
	return summary, nil
}

// WriteOverheads writes s as a Benchmark/Time/Memory table with a final
// geometric mean row.
func WriteOverheads(w io.Writer, s *OverheadSummary) error {
	var t texttab.Table
	t.Row().Cell("Benchmark").Cell("Time", texttab.Right).Cell("Memory", texttab.Right)
	for _, o := range s.Benchmarks {
		t.Row().Cell(o.Benchmark).
			Cell(fmt.Sprintf("%.2fx", o.TimeRatio), texttab.Right).
			Cell(fmt.Sprintf("%.2fx", o.MemoryRatio), texttab.Right)
	}
	t.Row().Cell("Geometric Mean").
		Cell(fmt.Sprintf("%.2f%%", s.GeoMeanTime), texttab.Right).
		Cell(fmt.Sprintf("%.2f%%", s.GeoMeanMemory), texttab.Right)
	return t.Format(w)
}
