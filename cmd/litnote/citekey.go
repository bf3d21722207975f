package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var citekeyCmd = &cobra.Command{
	Use:   "citekey [inputs...]",
	Short: "Preview citekeys for metadata items without writing notes",
	Long: `Citekey prints the citation key each input item would get. Inputs are
JSON files (CSL-JSON or Zotero JSON, "-" for stdin) or identifiers
resolved through the lookup stage. Vault uniqueness is not checked.`,
	RunE: runCitekey,
}

func init() {
	citekeyCmd.Flags().String("template", "", "citekey template override (mustache or legacy bracket syntax)")

	rootCmd.AddCommand(citekeyCmd)
}

func runCitekey(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more inputs (JSON files, DOIs, arXiv IDs, or ISBNs)")
	}

	cfg := loadConfig()
	if tmpl, _ := cmd.Flags().GetString("template"); tmpl != "" {
		cfg.Citekey.Template = tmpl
	}

	items, err := resolveInputs(context.Background(), args, cfg.Lookup)
	if err != nil {
		return err
	}

	for _, item := range items {
		rec, err := normalizeItem(item, cfg.Citekey)
		if err != nil {
			return fmt.Errorf("normalizing %s: %w", itemLabel(item), err)
		}
		fmt.Println(rec.ID())
	}
	return nil
}
