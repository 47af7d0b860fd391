package main

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"specbench-tools/internal/analyzer"
	"specbench-tools/internal/speclog"
)

// cachedLog is a parsed compile log and the file state it was parsed from.
type cachedLog struct {
	modTime time.Time
	size    int64
	records []speclog.FunctionRecord
}

type toolServer struct {
	logger *log.Logger

	mu          sync.Mutex
	compileLogs map[string]*cachedLog
}

func newToolServer(logger *log.Logger) *toolServer {
	return &toolServer{
		logger:      logger,
		compileLogs: make(map[string]*cachedLog),
	}
}

// compileLog returns the records of the compile log at path, reparsing it
// only when the file changed since it was last read.
func (t *toolServer) compileLog(path string) ([]speclog.FunctionRecord, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open compile log")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.compileLogs[path]; ok && c.modTime.Equal(fi.ModTime()) && c.size == fi.Size() {
		t.logger.WithField("path", path).Debug("compile log cache hit")
		return c.records, nil
	}

	t.logger.WithField("path", path).Info("Parsing compile log")
	records, err := speclog.ReadCompileLog(path)
	if err != nil {
		return nil, err
	}
	t.compileLogs[path] = &cachedLog{modTime: fi.ModTime(), size: fi.Size(), records: records}
	return records, nil
}

func (t *toolServer) rankHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	compileLog, err := request.RequireString("compile_log")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runLog := request.GetString("run_log", "")
	noise := int(request.GetFloat("noise_threshold", analyzer.DefaultNoiseThreshold))
	cutoff := request.GetFloat("cutoff", analyzer.DefaultCutoff)

	records, err := t.compileLog(compileLog)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	if runLog == "" {
		if err := analyzer.WriteHotspots(&sb, analyzer.FindHotspots(records, noise)); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	counts, err := speclog.ReadRunLog(runLog)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hotspots, err := analyzer.FindJoinedHotspots(records, counts, cutoff)
	if errors.Is(err, analyzer.ErrNoData) {
		return mcp.NewToolResultText("no data\n"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := analyzer.WriteJoinedHotspots(&sb, hotspots); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *toolServer) compileLogStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	compileLog, err := request.RequireString("compile_log")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	noise := int(request.GetFloat("noise_threshold", analyzer.DefaultNoiseThreshold))

	records, err := t.compileLog(compileLog)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(analyzer.FormatStatistics(analyzer.ComputeStatistics(records, noise))), nil
}

func (t *toolServer) instrumentationStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	buildLog, err := request.RequireString("build_log")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := speclog.ReadBuildLog(buildLog)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows := analyzer.InstrumentRows(stats)

	var sb strings.Builder
	switch format := request.GetString("format", "latex"); format {
	case "latex":
		err = analyzer.WriteInstrumentLaTeX(&sb, rows)
	case "text":
		err = analyzer.WriteInstrumentText(&sb, rows)
	default:
		return mcp.NewToolResultError("unknown format " + format + ", want latex or text"), nil
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *toolServer) overheadSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spectestLog, err := request.RequireString("spectest_log")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	baseline := request.GetString("baseline", "native")
	config := request.GetString("config", "shadowbound")

	ms, err := speclog.ReadSpectestLog(spectestLog)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := analyzer.ComputeOverheads(ms, baseline, config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	if err := analyzer.WriteOverheads(&sb, summary); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(sb.String()), nil
}
