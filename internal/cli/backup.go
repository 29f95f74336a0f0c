// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/store"
)

// backupInfo is printed by backup info.
type backupInfo struct {
	Path     string      `json:"path"`
	Snapshot *store.Meta `json:"snapshot"`
}

func newBackupCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import or inspect the state store",
		Long: `Copy the snapshot store to and from a portable gzip-compressed file.
The store is selected by --state or store.path in the config file.`,
	}
	cmd.AddCommand(
		newBackupExportCommand(root),
		newBackupImportCommand(root),
		newBackupInfoCommand(root),
	)
	return cmd
}

func newBackupExportCommand(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the state store to a backup file",
		Example: `  menurec backup export --state ./state --out state.backup.gz`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			s, logger, err := openStore(root)
			if err != nil {
				return err
			}
			defer closeStore(s, logger)

			//nolint:gosec // G304: output path is supplied by the operator
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer func() {
				if closeErr := f.Close(); err == nil && closeErr != nil {
					err = fmt.Errorf("close backup file: %w", closeErr)
				}
			}()

			info, err := s.Export(f)
			if err != nil {
				_ = os.Remove(out)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "backup file to write (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newBackupImportCommand(root *rootOptions) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the state store with a backup file",
		Example: `  menurec backup import --state ./state --in state.backup.gz`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, logger, err := openStore(root)
			if err != nil {
				return err
			}
			defer closeStore(s, logger)

			//nolint:gosec // G304: input path is supplied by the operator
			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer f.Close() //nolint:errcheck // read-only

			if err := s.Import(f); err != nil {
				return err
			}
			return printInfo(cmd, s, root.stateDir)
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "backup file to read (required)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newBackupInfoCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the snapshot held by the state store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, logger, err := openStore(root)
			if err != nil {
				return err
			}
			defer closeStore(s, logger)
			return printInfo(cmd, s, root.stateDir)
		},
	}
}

func printInfo(cmd *cobra.Command, s *store.Store, path string) error {
	result := backupInfo{Path: path}
	meta, err := s.Meta()
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
	case err != nil:
		return err
	default:
		result.Snapshot = &meta
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// openStore opens the configured state store without loading a catalog.
func openStore(opts *rootOptions) (*store.Store, zerolog.Logger, error) {
	cfg, logger, err := setup(opts)
	if err != nil {
		return nil, logger, err
	}
	if !cfg.Store.Enabled {
		return nil, logger, errors.New("no state store configured (--state)")
	}
	s, err := store.Open(cfg.Store.Store(), logging.Logger())
	if err != nil {
		return nil, logger, fmt.Errorf("open state store: %w", err)
	}
	return s, logger, nil
}

func closeStore(s *store.Store, logger zerolog.Logger) {
	if err := s.Close(); err != nil {
		logger.Warn().Err(err).Msg("closing state store")
	}
}
