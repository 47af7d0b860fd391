package analyzer

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"specbench-tools/internal/speclog"
)

var (
	foo = speclog.FunctionRecord{Name: "foo", Builtin: 10, Cluster: 5, Runtime: 0}
	bar = speclog.FunctionRecord{Name: "bar", Builtin: 1, Cluster: 1, Runtime: 1}
)

func TestWeight(t *testing.T) {
	for _, tc := range []struct {
		r    speclog.FunctionRecord
		want float64
	}{
		{foo, 6.5},
		{bar, 2.2},
		{speclog.FunctionRecord{Runtime: 1}, 1},
		{speclog.FunctionRecord{Cluster: 10}, 11},
		{speclog.FunctionRecord{Builtin: 10}, 1},
		{speclog.FunctionRecord{}, 0},
	} {
		if got := Weight(tc.r); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Weight(%+v) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestFindHotspotsFooBar(t *testing.T) {
	hotspots := FindHotspots([]speclog.FunctionRecord{foo, bar}, DefaultNoiseThreshold)

	var buf bytes.Buffer
	if err := WriteHotspots(&buf, hotspots); err != nil {
		t.Fatal(err)
	}
	// bar has runtime+cluster == 2 and is noise.
	if got, want := buf.String(), "0 foo: 0 5 10\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindHotspotsKeepsRank(t *testing.T) {
	records := []speclog.FunctionRecord{
		{Name: "light", Runtime: 3},
		{Name: "noisy", Builtin: 100, Runtime: 1},
		{Name: "heavy", Runtime: 20},
	}
	hotspots := FindHotspots(records, DefaultNoiseThreshold)
	var got []string
	for _, h := range hotspots {
		got = append(got, FormatHotspot(h))
	}
	// noisy outweighs light but is filtered; light keeps rank 2.
	want := []string{"0 heavy: 20 0 0", "2 light: 3 0 0"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRankByWeightStable(t *testing.T) {
	records := []speclog.FunctionRecord{
		{Name: "a", Runtime: 5},
		{Name: "b", Runtime: 7},
		{Name: "c", Runtime: 5},
		{Name: "d", Runtime: 5},
	}
	ranked := RankByWeight(records)
	var names []string
	for _, r := range ranked {
		names = append(names, r.Name)
	}
	if got := strings.Join(names, ""); got != "bacd" {
		t.Errorf("got order %s, want bacd", got)
	}
	if records[0].Name != "a" || records[1].Name != "b" {
		t.Error("RankByWeight modified its input")
	}
}

func TestJoinCallCounts(t *testing.T) {
	records := []speclog.FunctionRecord{
		{Name: "f", Runtime: 9},
		{Name: "g", Runtime: 1},
		{Name: "f", Runtime: 2},
	}
	counts := []speclog.CallCount{{Name: "f", Count: 3}, {Name: "missing", Count: 8}, {Name: "g", Count: 4}, {Name: "f", Count: 1}}
	joined := JoinCallCounts(records, counts)

	want := []JoinedRecord{
		{records[0], 3},
		{records[1], 4},
		{records[0], 1},
	}
	if fmt.Sprint(joined) != fmt.Sprint(want) {
		t.Errorf("got %+v\nwant %+v", joined, want)
	}
}

func TestFindJoinedHotspotsFooBar(t *testing.T) {
	// Joined mode does not filter noise: bar would be included had it been
	// counted, but only call counts drive inclusion.
	hotspots, err := FindJoinedHotspots([]speclog.FunctionRecord{foo, bar}, []speclog.CallCount{{Name: "foo", Count: 3}}, DefaultCutoff)
	if err != nil {
		t.Fatal(err)
	}
	if len(hotspots) != 1 {
		t.Fatalf("want 1 hotspot, got %+v", hotspots)
	}
	h := hotspots[0]
	if math.Abs(h.Weight-19.5) > 1e-9 {
		t.Errorf("joined weight = %v, want 19.5", h.Weight)
	}
	if got, want := FormatJoinedHotspot(h), "0 100.0% foo: 0 5 10 3"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	hotspots, err = FindJoinedHotspots([]speclog.FunctionRecord{foo, bar}, []speclog.CallCount{{Name: "bar", Count: 2}}, DefaultCutoff)
	if err != nil {
		t.Fatal(err)
	}
	if len(hotspots) != 1 || hotspots[0].Name != "bar" {
		t.Errorf("noise-level bar should be joined, got %+v", hotspots)
	}
}

func TestFindJoinedHotspotsDuplicates(t *testing.T) {
	// The join searches the weight ranking, so the heavier "f" wins.
	records := []speclog.FunctionRecord{
		{Name: "f", Runtime: 2},
		{Name: "f", Runtime: 9},
	}
	hotspots, err := FindJoinedHotspots(records, []speclog.CallCount{{Name: "f", Count: 1}}, DefaultCutoff)
	if err != nil {
		t.Fatal(err)
	}
	if hotspots[0].Runtime != 9 {
		t.Errorf("joined the lighter duplicate: %+v", hotspots[0])
	}
}

func TestFindJoinedHotspotsNoData(t *testing.T) {
	records := []speclog.FunctionRecord{foo, {Name: "zero"}}
	for _, counts := range [][]speclog.CallCount{
		nil,
		{{Name: "missing", Count: 4}},
		{{Name: "zero", Count: 100}},
		{{Name: "foo", Count: 0}},
	} {
		if _, err := FindJoinedHotspots(records, counts, DefaultCutoff); !errors.Is(err, ErrNoData) {
			t.Errorf("counts %v: want ErrNoData, got %v", counts, err)
		}
	}
}

func TestCutoff(t *testing.T) {
	records := []speclog.FunctionRecord{
		{Name: "a", Runtime: 90},
		{Name: "b", Runtime: 8},
		{Name: "c", Runtime: 1},
		{Name: "d", Runtime: 1},
	}
	counts := []speclog.CallCount{{Name: "a", Count: 1}, {Name: "b", Count: 1}, {Name: "c", Count: 1}, {Name: "d", Count: 1}}

	// Shares are 90, 8, 1 and 1 percent.
	for _, tc := range []struct {
		cutoff float64
		rows   int
	}{
		{99, 4}, // 99 is reached after c but not exceeded
		{98.5, 3},
		{50, 1},
		{0, 1},
		{100, 4},
	} {
		hotspots, err := FindJoinedHotspots(records, counts, tc.cutoff)
		if err != nil {
			t.Fatal(err)
		}
		if len(hotspots) != tc.rows {
			t.Errorf("cutoff %v: got %d rows, want %d", tc.cutoff, len(hotspots), tc.rows)
		}
	}
}

// TestProperties checks the ordering, filter and cutoff invariants on
// random logs.
func TestProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		var records []speclog.FunctionRecord
		var counts []speclog.CallCount
		n := 1 + rng.Intn(30)
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("f%d", rng.Intn(n))
			records = append(records, speclog.FunctionRecord{
				Name:    name,
				Builtin: rng.Intn(50),
				Cluster: rng.Intn(5),
				Runtime: rng.Intn(5),
			})
			if rng.Intn(2) == 0 {
				counts = append(counts, speclog.CallCount{Name: name, Count: rng.Intn(1000)})
			}
		}

		hotspots := FindHotspots(records, DefaultNoiseThreshold)
		for i, h := range hotspots {
			if h.Runtime+h.Cluster <= DefaultNoiseThreshold {
				t.Fatalf("noise record reported: %+v", h)
			}
			if i > 0 && h.Weight > hotspots[i-1].Weight {
				t.Fatalf("weights increase at row %d: %v > %v", i, h.Weight, hotspots[i-1].Weight)
			}
			if i > 0 && h.Rank <= hotspots[i-1].Rank {
				t.Fatalf("ranks not increasing at row %d", i)
			}
		}

		joined, err := FindJoinedHotspots(records, counts, DefaultCutoff)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		all := JoinCallCounts(RankByWeight(records), counts)
		sum := 0.0
		for i, h := range joined {
			if i > 0 && h.Weight > joined[i-1].Weight {
				t.Fatalf("joined weights increase at row %d", i)
			}
			if i < len(joined)-1 && h.Cumulative > DefaultCutoff {
				t.Fatalf("row %d printed after cumulative passed the cutoff", i+1)
			}
			sum += h.Percentage
		}
		if len(joined) < len(all) && sum <= DefaultCutoff {
			t.Fatalf("stopped at %.4f%% with rows remaining", sum)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	for _, tc := range []struct {
		p    float64
		want string
	}{
		{100, "100.0"},
		{33.3333, "33.33"},
		{12.5, "12.5"},
		{0.004, "0.0"},
		{92.42589080266109, "92.43"},
	} {
		if got := formatPercent(tc.p); got != tc.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}
