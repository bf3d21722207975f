// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litnote CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the litnote CLI.
var rootCmd = &cobra.Command{
	Use:   "litnote",
	Short: "Turn bibliographic metadata into Markdown literature notes",
	Long: `litnote turns bibliographic metadata into Markdown literature notes with
YAML frontmatter, ready for an Obsidian-style vault.

Metadata comes from CSL-JSON files, Zotero JSON exports, or identifier
lookups (DOIs, arXiv IDs, ISBNs). Each stage is a subcommand: lookup
resolves identifiers, map converts Zotero items to CSL, citekey previews
generated keys, note renders and files the notes, and search queries the
vault index.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litnote.yaml or ~/.config/litnote/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litnote")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litnote"))
		}
	}

	viper.SetEnvPrefix("LITNOTE")
	viper.AutomaticEnv()

	viper.SetDefault("note.vault_dir", ".")
	viper.SetDefault("citekey.min_length", 6)
	viper.SetDefault("citekey.abbreviation", "full")
	viper.SetDefault("citekey.max_authors", 3)
	viper.SetDefault("citekey.two_author_style", "and")
	viper.SetDefault("lookup.timeout", "30s")
	viper.SetDefault("lookup.user_agent", "litnote/"+version)
	viper.SetDefault("lookup.max_retries", 3)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
