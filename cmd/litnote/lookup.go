package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litnote/internal/lookup"
	"github.com/pdiddy/litnote/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [identifiers...]",
	Short: "Resolve DOIs, arXiv IDs, and ISBNs to CSL-JSON",
	Long: `Lookup resolves bibliographic identifiers to CSL-JSON metadata and
prints it on stdout. DOIs use doi.org content negotiation, arXiv IDs
resolve through their DataCite DOIs, and ISBNs query Open Library.`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more identifiers (DOIs, arXiv IDs, or ISBNs)")
	}

	cfg := loadConfig()
	client := lookup.NewClient(&http.Client{Timeout: cfg.Lookup.Timeout}, cfg.Lookup)

	var records []types.Record
	failed := 0
	for _, id := range args {
		rec, err := client.Fetch(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", id, err)
			failed++
			continue
		}
		records = append(records, rec)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	switch len(records) {
	case 0:
	case 1:
		if err := enc.Encode(records[0]); err != nil {
			return err
		}
	default:
		if err := enc.Encode(records); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d lookup(s) failed", failed)
	}
	return nil
}
