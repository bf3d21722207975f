package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litnote/internal/vault"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the vault note index",
	Long: `Search queries the vault note index using FTS5 full-text search over
titles, authors, and note bodies, optionally filtered by item type and
year. Run "litnote index" first to build the index for notes created
outside litnote.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("vault", "", "vault directory (default from config)")
	searchCmd.Flags().String("type", "", "filter by CSL item type")
	searchCmd.Flags().String("year", "", "filter by publication year")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("vault"); v != "" {
		cfg.Note.VaultDir = v
	}

	itemType, _ := cmd.Flags().GetString("type")
	year, _ := cmd.Flags().GetString("year")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := vault.QueryOptions{
		Query:      strings.Join(args, " "),
		Type:       itemType,
		Year:       year,
		MaxResults: limit,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --type, or --year")
	}

	store, err := vault.NewStore(cfg.Note.VaultDir)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []vault.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-6s  %-40s  %s\n", "Citekey", "Year", "Title", "Snippet")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range results {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
		fmt.Fprintf(os.Stdout, "%-20s  %-6s  %-40s  %s\n", r.Citekey, r.Year, title, snippet)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}
