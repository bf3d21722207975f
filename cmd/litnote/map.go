package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litnote/internal/zotero"
	"github.com/pdiddy/litnote/pkg/types"
)

var mapCmd = &cobra.Command{
	Use:   "map [inputs...]",
	Short: "Convert Zotero JSON items to CSL-JSON",
	Long: `Map converts Zotero JSON exports to CSL-JSON on stdout: item types and
field names are translated, creators grouped by role, dates normalized,
and Extra-field overrides (DOI, PMID, Citation Key, ...) merged in.
Items that are already CSL pass through with a generated citekey.`,
	RunE: runMap,
}

func init() {
	mapCmd.Flags().Bool("zotero-keys", false, "use Zotero item keys as record ids")

	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}

	cfg := loadConfig()
	if z, _ := cmd.Flags().GetBool("zotero-keys"); z {
		cfg.Citekey.UseZoteroKeys = true
	}

	var records []types.Record
	for _, arg := range args {
		items, err := readItems(arg)
		if err != nil {
			return err
		}
		for _, item := range items {
			rec, err := zotero.Normalize(zotero.Item(item), cfg.Citekey)
			if err != nil {
				return fmt.Errorf("mapping %s: %w", itemLabel(item), err)
			}
			records = append(records, rec)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(records) == 1 {
		return enc.Encode(records[0])
	}
	return enc.Encode(records)
}
