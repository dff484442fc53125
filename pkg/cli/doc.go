/*
Package cli provides command-line interface utilities for kestrel.

The cli package includes output formatters, progress reporters, and common CLI
helpers used by the kestrel command.

Output Formatting:

The cli package supports multiple output formats (text, JSON, CSV) for
displaying command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, records); err != nil {
		return err
	}

Progress Reporting:

For long-running operations such as force-rotating a batch of capture
logs, use the progress reporter:

	progress := cli.NewProgressReporter(os.Stderr, "files")
	progress.Start(totalFiles)
	for i, f := range files {
		// Do work
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
