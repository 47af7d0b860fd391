package analyzer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"specbench-tools/internal/speclog"
	"specbench-tools/internal/texttab"
)

// InstrumentRows drops the SPEC support programs (specrand and friends)
// from a build log summary.
func InstrumentRows(stats []speclog.BuildStat) []speclog.BuildStat {
	rows := make([]speclog.BuildStat, 0, len(stats))
	for _, s := range stats {
		if strings.Contains(s.Program, "spec") {
			continue
		}
		rows = append(rows, s)
	}
	return rows
}

// ShortProgramName strips the SPEC 2017 "_r"/"_s" suffix.
func ShortProgramName(prog string) string {
	for _, suffix := range []string{"_r", "_s"} {
		if strings.HasSuffix(prog, suffix) {
			return strings.TrimSuffix(prog, suffix)
		}
	}
	return prog
}

// WriteInstrumentLaTeX writes one LaTeX table row per program.
func WriteInstrumentLaTeX(w io.Writer, rows []speclog.BuildStat) error {
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "& %-12s & & & & & %6d & %6d \\\\\n", ShortProgramName(r.Program), r.Fetch, r.Check)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteInstrumentText writes rows as an aligned text table.
func WriteInstrumentText(w io.Writer, rows []speclog.BuildStat) error {
	var t texttab.Table
	t.Row().Cell("program").Cell("fetch", texttab.Right).Cell("check", texttab.Right)
	for _, r := range rows {
		t.Row().Cell(ShortProgramName(r.Program)).
			Cell(strconv.Itoa(r.Fetch), texttab.Right).
			Cell(strconv.Itoa(r.Check), texttab.Right)
	}
	return t.Format(w)
}
