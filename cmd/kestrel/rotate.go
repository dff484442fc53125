package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sigwatch-hq/kestrel/pkg/archive"
	"sigwatch-hq/kestrel/pkg/cli"
	"sigwatch-hq/kestrel/pkg/config"
	"sigwatch-hq/kestrel/pkg/rotation"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate <file>...",
	Short: "Force an immediate rotation of managed log files",
	Long: `Force an immediate rotation of one or more log files, bypassing their
policy triggers.

Every file must appear in the configuration's managed files list. Each
rotated artifact is renamed, compressed per its policy, and uploaded to
the policy's archive backend; the command waits for uploads to finish
before returning.

Examples:
  # Rotate a capture log now
  kestrel rotate /var/log/kestrel/wifi.log

  # Rotate several logs in one pass
  kestrel rotate /var/log/kestrel/wifi.log /var/log/kestrel/gps.log

  # With a custom config
  kestrel rotate --config /etc/kestrel/kestrel.yaml /var/log/kestrel/gps.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: rotateFiles,
}

func init() {
	rootCmd.AddCommand(rotateCmd)
}

func rotateFiles(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Resolve every path's policy up front so a typo aborts before any
	// file has been touched.
	policyByPath := make(map[string]string, len(args))
	for _, path := range args {
		for _, file := range cfg.Files {
			if file.Path == path {
				policyByPath[path] = file.Policy
				break
			}
		}
		if policyByPath[path] == "" {
			return cli.NewConfigError("files", fmt.Sprintf("%q is not a managed file", path))
		}
	}

	store, err := archive.NewRecordStore(buildStoreConfig(cfg))
	if err != nil {
		return cli.NewCommandError("rotate", err)
	}
	defer store.Close()

	archiveMgr := archive.NewManager(store, buildArchiveManagerConfig(cfg), nil)
	defer archiveMgr.Close()
	backends, err := buildBackends(cfg)
	if err != nil {
		return cli.NewCommandError("rotate", err)
	}
	for _, b := range backends {
		archiveMgr.RegisterBackend(b)
	}

	mgr := rotation.NewManager(buildRotationPolicies(cfg), archiveMgr, nil)
	defer mgr.Close()

	progress := cli.NewProgressReporter(os.Stderr, "files")
	progress.Start(int64(len(args)))
	for i, path := range args {
		if _, err := mgr.CreateHandle(path, policyByPath[path]); err != nil {
			progress.Error(err)
			return cli.NewCommandError("rotate", err)
		}
		if err := mgr.ForceRotation(path); err != nil {
			progress.Error(err)
			return cli.NewCommandError("rotate", err)
		}
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	// Drain the upload queue so every artifact is archived before exit.
	archiveMgr.Close()

	fmt.Printf("✓ Rotated %d file(s)\n", len(args))
	return nil
}
