package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stackmuncher/stm-app/internal/engine"
	"github.com/stackmuncher/stm-app/internal/report"
	"github.com/stackmuncher/stm-app/internal/tech"
)

const bytesPerMB = 1 << 20

// NewReportCommand creates the report generation command.
func NewReportCommand() *cobra.Command {
	var (
		oldReportPath string
		outputPath    string
		blobCacheMB   int
		summary       bool
	)

	cmd := &cobra.Command{
		Use:   "report [repo-path]",
		Short: "Generate a stack report for a Git repository",
		Long: `Generate a stack report for a Git repository: per-language lines of
code, libraries and keywords, per-contributor breakdowns, and commit-time
activity histograms.

Pass --old-report to reuse cached per-file results from a previous run
when the underlying blob content and munchers have not changed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath := "."
			if len(args) == 1 {
				repoPath = args[0]
			}

			oldReport, err := loadOldReport(oldReportPath)
			if err != nil {
				return err
			}

			opts := engine.Options{
				RepoPath:  repoPath,
				OldReport: oldReport,
			}

			if blobCacheMB > 0 {
				opts.BlobCacheSize = int64(blobCacheMB) * bytesPerMB
			}

			r, runErr := engine.Run(cmd.Context(), opts)
			if runErr != nil {
				return fmt.Errorf("generate report: %w", runErr)
			}

			if summary {
				printSummary(cmd.ErrOrStderr(), r)
			}

			return writeReport(r, outputPath)
		},
	}

	cmd.Flags().StringVar(&oldReportPath, "old-report", "", "path to a previous report.json for incremental cache reuse")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to this path instead of stdout")
	cmd.Flags().IntVar(&blobCacheMB, "blob-cache-mb", 0, "blob content cache budget in megabytes (default 256MB)")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a human-readable per-language summary table to stderr")

	return cmd
}

// printSummary renders a colored per-language breakdown table, largest
// language first, with a humanized file-count footer.
func printSummary(w io.Writer, r *report.Report) {
	languages := append([]*tech.Tech(nil), r.Tech...)
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].CodeLines > languages[j].CodeLines
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Language", "Files", "Code lines", "Libraries"})

	totalFiles := 0
	for _, lang := range languages {
		t.AppendRow(table.Row{lang.Language, lang.Files, lang.CodeLines, lang.Refs.Len() + lang.Packages.Len()})
		totalFiles += lang.Files
	}

	t.Render()

	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s files analyzed, %s contributors, %s commits\n",
		humanize.Comma(int64(totalFiles)), humanize.Comma(int64(r.ContributorCount)), humanize.Comma(int64(r.CommitCountProject)))
}

func loadOldReport(path string) (*report.Report, error) {
	if path == "" {
		return nil, nil //nolint:nilnil // no --old-report means "no cache to reuse", not an error
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

func writeReport(r *report.Report, outputPath string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if outputPath == "" {
		_, writeErr := os.Stdout.Write(append(data, '\n'))
		if writeErr != nil {
			return fmt.Errorf("write report: %w", writeErr)
		}

		return nil
	}

	writeErr := os.WriteFile(outputPath, data, 0o600)
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", outputPath, writeErr)
	}

	return nil
}
