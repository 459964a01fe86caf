package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stackmuncher/stm-app/internal/engine"
	"github.com/stackmuncher/stm-app/internal/report"
)

const bytesPerMB = 1 << 20

// handleReport processes stm_report tool calls.
func handleReport(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ReportInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateReportInput(input)
	if err != nil {
		return errorResult(err)
	}

	return executeReport(ctx, input)
}

func validateReportInput(input ReportInput) error {
	if input.RepoPath == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(input.RepoPath) {
		return ErrRepoPathNotAbsolute
	}

	info, statErr := os.Stat(input.RepoPath)
	if statErr != nil {
		return fmt.Errorf("%w: %s", ErrRepoNotFound, input.RepoPath)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, input.RepoPath)
	}

	if _, gitErr := os.Stat(filepath.Join(input.RepoPath, ".git")); gitErr != nil {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, input.RepoPath)
	}

	return nil
}

func executeReport(ctx context.Context, input ReportInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	oldReport, err := loadOldReport(input.OldReportPath)
	if err != nil {
		return errorResult(fmt.Errorf("load old report: %w", err))
	}

	opts := engine.Options{
		RepoPath:  input.RepoPath,
		OldReport: oldReport,
	}

	if input.BlobCacheMB > 0 {
		opts.BlobCacheSize = int64(input.BlobCacheMB) * bytesPerMB
	}

	r, runErr := engine.Run(ctx, opts)
	if runErr != nil {
		return errorResult(fmt.Errorf("run engine: %w", runErr))
	}

	return jsonResult(r)
}

func loadOldReport(path string) (*report.Report, error) {
	if path == "" {
		return nil, nil //nolint:nilnil // absent old_report_path means "no cache to reuse", not an error
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("read %s: %w", path, readErr)
	}

	var r report.Report

	if unmarshalErr := json.Unmarshal(data, &r); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, unmarshalErr)
	}

	return &r, nil
}
