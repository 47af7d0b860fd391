package analyzer

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"specbench-tools/internal/speclog"
)

const (
	// DefaultNoiseThreshold drops records whose runtime+cluster count
	// is at or below it from the single-log report.
	DefaultNoiseThreshold = 2

	// DefaultCutoff stops the joined report once the cumulative
	// percentage exceeds it.
	DefaultCutoff = 99.0
)

// ErrNoData is returned when there is nothing to report: the joined weights
// sum to zero or less, so no percentage can be computed, or a log holds no
// measurements.
var ErrNoData = errors.New("no data")

// Hotspot is a compile-log record at its position in the weight ranking.
type Hotspot struct {
	speclog.FunctionRecord
	Rank   int // index in the full sorted list, before noise filtering
	Weight float64
}

// JoinedRecord is a FunctionRecord with the call count observed at run time.
type JoinedRecord struct {
	speclog.FunctionRecord
	Count int
}

// JoinedHotspot is a JoinedRecord at its position in the joined ranking.
type JoinedHotspot struct {
	JoinedRecord
	Rank       int
	Weight     float64 // Count * Weight(record)
	Percentage float64 // share of the total joined weight
	Cumulative float64 // running percentage up to and including this row
}

// Weight scores a record by its instrumentation cost. Runtime checks are
// the most expensive, builtin checks the cheapest.
func Weight(r speclog.FunctionRecord) float64 {
	return float64(r.Runtime) + float64(r.Cluster)*1.1 + float64(r.Builtin)*0.1
}

// JoinedWeight is the weight of a record scaled by its call count.
func JoinedWeight(r JoinedRecord) float64 {
	return float64(r.Count) * Weight(r.FunctionRecord)
}

// RankByWeight returns a copy of records sorted by weight (descending).
// Records of equal weight keep their log order.
func RankByWeight(records []speclog.FunctionRecord) []speclog.FunctionRecord {
	ranked := make([]speclog.FunctionRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Weight(ranked[i]) > Weight(ranked[j])
	})
	return ranked
}

// FindHotspots ranks records by weight and drops the ones whose
// runtime+cluster count is at or below noiseThreshold. Surviving hotspots
// keep their rank in the unfiltered order.
func FindHotspots(records []speclog.FunctionRecord, noiseThreshold int) []Hotspot {
	ranked := RankByWeight(records)

	hotspots := make([]Hotspot, 0, len(ranked))
	for i, r := range ranked {
		if r.Runtime+r.Cluster <= noiseThreshold {
			continue
		}
		hotspots = append(hotspots, Hotspot{
			FunctionRecord: r,
			Rank:           i,
			Weight:         Weight(r),
		})
	}
	return hotspots
}

// JoinCallCounts pairs every call count with the first record of the same
// name. Call counts without a matching record are dropped.
func JoinCallCounts(records []speclog.FunctionRecord, counts []speclog.CallCount) []JoinedRecord {
	first := make(map[string]int, len(records))
	for i, r := range records {
		if _, ok := first[r.Name]; !ok {
			first[r.Name] = i
		}
	}

	joined := make([]JoinedRecord, 0, len(counts))
	for _, c := range counts {
		i, ok := first[c.Name]
		if !ok {
			continue
		}
		joined = append(joined, JoinedRecord{
			FunctionRecord: records[i],
			Count:          c.Count,
		})
	}
	return joined
}

// FindJoinedHotspots ranks the records named in counts by their joined
// weight and annotates each with its share of the total. Rows stop after
// the one whose cumulative percentage exceeds cutoff.
//
// The join runs over the full weight ranking, so with duplicate names the
// heaviest record wins.
func FindJoinedHotspots(records []speclog.FunctionRecord, counts []speclog.CallCount, cutoff float64) ([]JoinedHotspot, error) {
	joined := JoinCallCounts(RankByWeight(records), counts)
	sort.SliceStable(joined, func(i, j int) bool {
		return JoinedWeight(joined[i]) > JoinedWeight(joined[j])
	})

	total := 0.0
	for _, j := range joined {
		total += JoinedWeight(j)
	}
	if total <= 0 {
		return nil, ErrNoData
	}

	hotspots := make([]JoinedHotspot, 0, len(joined))
	cumulative := 0.0
	for i, j := range joined {
		w := JoinedWeight(j)
		pct := w / total * 100
		cumulative += pct
		hotspots = append(hotspots, JoinedHotspot{
			JoinedRecord: j,
			Rank:         i,
			Weight:       w,
			Percentage:   pct,
			Cumulative:   cumulative,
		})
		if cumulative > cutoff {
			break
		}
	}
	return hotspots, nil
}

// FormatHotspot renders "rank name: runtime cluster builtin".
func FormatHotspot(h Hotspot) string {
	return fmt.Sprintf("%d %s: %d %d %d", h.Rank, h.Name, h.Runtime, h.Cluster, h.Builtin)
}

// FormatJoinedHotspot renders "rank pct% name: runtime cluster builtin count".
func FormatJoinedHotspot(h JoinedHotspot) string {
	return fmt.Sprintf("%d %s%% %s: %d %d %d %d",
		h.Rank, formatPercent(h.Percentage), h.Name, h.Runtime, h.Cluster, h.Builtin, h.Count)
}

// WriteHotspots writes one FormatHotspot line per hotspot.
func WriteHotspots(w io.Writer, hotspots []Hotspot) error {
	var sb strings.Builder
	for _, h := range hotspots {
		sb.WriteString(FormatHotspot(h))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteJoinedHotspots writes one FormatJoinedHotspot line per hotspot.
func WriteJoinedHotspots(w io.Writer, hotspots []JoinedHotspot) error {
	var sb strings.Builder
	for _, h := range hotspots {
		sb.WriteString(FormatJoinedHotspot(h))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// formatPercent rounds p to two decimals and prints it in its shortest
// form, keeping at least one fractional digit ("100.0", "33.33", "12.5").
func formatPercent(p float64) string {
	s := strconv.FormatFloat(math.Round(p*100)/100, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
