// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litnote/internal/citekey"
	"github.com/pdiddy/litnote/internal/notes"
	"github.com/pdiddy/litnote/internal/vault"
	"github.com/pdiddy/litnote/internal/zotero"
	"github.com/pdiddy/litnote/pkg/types"
)

var noteCmd = &cobra.Command{
	Use:   "note [inputs...]",
	Short: "Create literature notes from metadata files or identifiers",
	Long: `Note renders one literature note per input item and files it in the
vault. Inputs are JSON files (CSL-JSON or Zotero JSON, "-" for stdin) or
identifiers (DOIs, arXiv IDs, ISBNs) resolved through the lookup stage.

Zotero items are detected by their itemType field and mapped to CSL
first. Citekeys that collide with existing notes get a letter suffix.`,
	RunE: runNote,
}

func init() {
	noteCmd.Flags().String("vault", "", "vault directory (default from config)")
	noteCmd.Flags().String("template", "", "note body template file")
	noteCmd.Flags().String("filename-template", "", "note filename template")
	noteCmd.Flags().StringSlice("attachment", nil, "attachment path for the note (repeatable)")
	noteCmd.Flags().StringSlice("related", nil, "related note path (repeatable)")
	noteCmd.Flags().Bool("dry-run", false, "print rendered notes instead of writing them")

	rootCmd.AddCommand(noteCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more inputs (JSON files, DOIs, arXiv IDs, or ISBNs)")
	}

	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("vault"); v != "" {
		cfg.Note.VaultDir = v
	}
	if tmpl, _ := cmd.Flags().GetString("template"); tmpl != "" {
		cfg.Note.TemplatePath = tmpl
	}
	if fn, _ := cmd.Flags().GetString("filename-template"); fn != "" {
		cfg.Note.FilenameTemplate = fn
	}
	attachments, _ := cmd.Flags().GetStringSlice("attachment")
	related, _ := cmd.Flags().GetStringSlice("related")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx := context.Background()

	items, err := resolveInputs(ctx, args, cfg.Lookup)
	if err != nil {
		return err
	}

	bodyTemplate, err := loadBodyTemplate(cfg.Note)
	if err != nil {
		return err
	}

	var store *vault.Store
	if !dryRun {
		store, err = vault.NewStore(cfg.Note.VaultDir)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	failed := 0
	for _, item := range items {
		rec, err := normalizeItem(item, cfg.Citekey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", itemLabel(item), err)
			failed++
			continue
		}

		if store != nil {
			key, err := store.EnsureUnique(ctx, rec.ID())
			if err != nil {
				return err
			}
			rec["id"] = key
		}

		note, err := notes.Build(rec, bodyTemplate, cfg.Note, attachments, related)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", rec.ID(), err)
			failed++
			continue
		}

		if dryRun {
			fmt.Println(note.Content)
			continue
		}

		path, err := store.SaveNote(ctx, note)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", note.Citekey, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stderr, "created %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d note(s) failed", failed)
	}
	return nil
}

// normalizeItem converts an input item to a CSL record with an id. Zotero
// items go through the field mapper; CSL items keep their fields and get a
// citekey when they lack an id.
func normalizeItem(item map[string]any, cfg types.CitekeyConfig) (types.Record, error) {
	if isZoteroItem(item) {
		return zotero.Normalize(zotero.Item(item), cfg)
	}

	rec := types.Record(item)
	if rec.ID() == "" {
		rec["id"] = citekey.Generate(rec, cfg)
	}
	return rec, nil
}

func loadBodyTemplate(cfg types.NoteConfig) (string, error) {
	if cfg.TemplatePath == "" {
		return "", nil
	}
	data, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("reading note template: %w", err)
	}
	return string(data), nil
}

func itemLabel(item map[string]any) string {
	for _, key := range []string{"id", "key", "title"} {
		if s, ok := item[key].(string); ok && s != "" {
			return s
		}
	}
	return "item"
}
