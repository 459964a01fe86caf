package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackmuncher/stm-app/cmd/stm/commands"
	"github.com/stackmuncher/stm-app/internal/report"
)

func TestReportCommand_GeneratesReport(t *testing.T) {
	t.Parallel()

	repoPath := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = repoPath
		require.NoError(t, cmd.Run())
	}

	run("init", "-q")
	run("config", "user.email", "dev@example.com")
	run("config", "user.name", "dev")

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o600))

	run("add", "-A")
	run("commit", "-q", "-m", "initial")

	outputPath := filepath.Join(t.TempDir(), "report.json")

	cmd := commands.NewReportCommand()

	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{repoPath, "-o", outputPath})

	require.NoError(t, cmd.Execute())

	data, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)

	var r report.Report

	require.NoError(t, json.Unmarshal(data, &r))
	require.NotEmpty(t, r.ReportCommitSha1)
	require.Equal(t, 1, r.CommitCountProject)
}
