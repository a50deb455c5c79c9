package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"probe/internal/cache"
)

var cacheDirFlag string

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "override the snapshot cache directory")
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the on-disk snapshot cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the snapshot cache directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), store.Dir())
		return err
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all stored program snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Clean(); err != nil {
			return fmt.Errorf("failed to clean %q: %w", store.Dir(), err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", store.Dir())
		return err
	},
}

func openStore() (*cache.SnapshotStore, error) {
	if cacheDirFlag != "" {
		return cache.OpenSnapshotStoreAt(cacheDirFlag)
	}
	return cache.OpenSnapshotStore("probe")
}
