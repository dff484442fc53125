package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sigwatch-hq/kestrel/pkg/archive"
	"sigwatch-hq/kestrel/pkg/cli"
	"sigwatch-hq/kestrel/pkg/config"
)

var archivesFlags struct {
	limit  int
	source string
	format string
	output string
}

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "Inspect archive records",
	Long: `Inspect the archive record database.

Every successful upload of a rotated artifact writes one record with the
artifact name, backend, content hash, and archival time. The archives
command queries those records for audit and fleet-debugging purposes.

Examples:
  # List the 20 most recent archive records
  kestrel archives list --limit 20

  # Find every upload of one artifact
  kestrel archives list --source wifi.log.20260115031500.gz

  # Export as JSON
  kestrel archives list --format json --output archives.json`,
}

var archivesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archive records",
	RunE:  listArchives,
}

func init() {
	rootCmd.AddCommand(archivesCmd)
	archivesCmd.AddCommand(archivesListCmd)

	archivesListCmd.Flags().IntVar(&archivesFlags.limit, "limit", 100, "max results")
	archivesListCmd.Flags().StringVar(&archivesFlags.source, "source", "", "filter by source file name")
	archivesListCmd.Flags().StringVar(&archivesFlags.format, "format", "text", "output format: text, json, csv")
	archivesListCmd.Flags().StringVarP(&archivesFlags.output, "output", "o", "", "output file (default: stdout)")
}

// recordTable adapts archive records to the CSV formatter.
type recordTable []*archive.Record

func (recordTable) Headers() []string {
	return []string{"id", "source_file", "backend", "content_hash", "archived_at"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.ID, r.SourceFile, r.Backend, r.ContentHash, r.ArchivedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return rows
}

func (t recordTable) String() string {
	if len(t) == 0 {
		return "no archive records"
	}
	out := fmt.Sprintf("%-36s  %-40s  %-10s  %s", "ID", "SOURCE FILE", "BACKEND", "ARCHIVED AT")
	for _, r := range t {
		out += fmt.Sprintf("\n%-36s  %-40s  %-10s  %s",
			r.ID, r.SourceFile, r.Backend, r.ArchivedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	return out
}

func listArchives(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	store, err := archive.NewRecordStore(buildStoreConfig(cfg))
	if err != nil {
		return cli.NewCommandError("archives list", err)
	}
	defer store.Close()

	ctx := context.Background()
	var records []*archive.Record
	if archivesFlags.source != "" {
		records, err = store.FindBySourceFile(ctx, archivesFlags.source)
	} else {
		records, err = store.Recent(ctx, archivesFlags.limit)
	}
	if err != nil {
		return cli.NewCommandError("archives list", err)
	}

	out := os.Stdout
	if archivesFlags.output != "" {
		f, err := os.Create(archivesFlags.output)
		if err != nil {
			return cli.NewCommandError("archives list", err)
		}
		defer f.Close()
		out = f
	}

	formatter := cli.NewFormatter(cli.OutputFormat(archivesFlags.format))
	if err := formatter.FormatTo(out, recordTable(records)); err != nil {
		return cli.NewCommandError("archives list", err)
	}
	return nil
}
