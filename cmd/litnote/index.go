package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litnote/internal/vault"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vault note index",
	Long: `Index walks the vault for Markdown notes and syncs the SQLite index
incrementally: unchanged files are skipped by modification time, changed
files re-read, and entries for deleted files removed.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("vault", "", "vault directory (default from config)")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("vault"); v != "" {
		cfg.Note.VaultDir = v
	}

	store, err := vault.NewStore(cfg.Note.VaultDir)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Reindex(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d note(s) failed indexing", summary.Failed)
	}
	return nil
}
