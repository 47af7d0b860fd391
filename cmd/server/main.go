// Server exposes the SPEC log analyses as MCP tools over stdio.
//
// Stdout carries the protocol, so the server logs to stderr.
package main

import (
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"specbench-tools/internal/logging"
)

func main() {
	logger := logging.New(os.Stderr, os.Getenv("SPECBENCH_DEBUG") != "")
	tools := newToolServer(logger)

	s := server.NewMCPServer(
		"specbench-tools",
		"1.0.0",
		server.WithLogging(),
	)

	// Tool 1: Rank Hotspots
	s.AddTool(mcp.NewTool("rank_hotspots",
		mcp.WithDescription("Rank the functions of an instrumented SPEC build by the cost of their inserted checks. With a run log, weights are multiplied by call counts and rows stop once the cumulative share passes the cutoff."),
		mcp.WithString("compile_log",
			mcp.Required(),
			mcp.Description("Path to the compile log of [function] blocks"),
		),
		mcp.WithString("run_log",
			mcp.Description("Path to a run log of name:count lines"),
		),
		mcp.WithNumber("noise_threshold",
			mcp.Description("Hide functions with runtime+cluster at or below this value (default: 2, compile log only)"),
		),
		mcp.WithNumber("cutoff",
			mcp.Description("Cumulative percentage after which to stop (default: 99, with run log)"),
		),
	), tools.rankHotspots)

	// Tool 2: Compile Log Statistics
	s.AddTool(mcp.NewTool("compile_log_statistics",
		mcp.WithDescription("Summarize a compile log: function count, duplicate names, check totals and the number of functions below the noise threshold."),
		mcp.WithString("compile_log",
			mcp.Required(),
			mcp.Description("Path to the compile log of [function] blocks"),
		),
		mcp.WithNumber("noise_threshold",
			mcp.Description("Noise threshold used for the count (default: 2)"),
		),
	), tools.compileLogStatistics)

	// Tool 3: Instrumentation Statistics
	s.AddTool(mcp.NewTool("instrumentation_statistics",
		mcp.WithDescription("Total the fetch and check instrumentation reported while building each SPEC program."),
		mcp.WithString("build_log",
			mcp.Required(),
			mcp.Description("Path to the SPEC build log"),
		),
		mcp.WithString("format",
			mcp.Description("latex (default) or text"),
			mcp.Enum("latex", "text"),
		),
	), tools.instrumentationStatistics)

	// Tool 4: Overhead Summary
	s.AddTool(mcp.NewTool("overhead_summary",
		mcp.WithDescription("Compare the time and memory of an instrumented configuration against a baseline, per benchmark and as a geometric mean."),
		mcp.WithString("spectest_log",
			mcp.Required(),
			mcp.Description("Path to the spectest harness log"),
		),
		mcp.WithString("baseline",
			mcp.Description("Baseline config (default: native)"),
		),
		mcp.WithString("config",
			mcp.Description("Instrumented config (default: shadowbound)"),
		),
	), tools.overheadSummary)

	logger.Info("Serving MCP over stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
