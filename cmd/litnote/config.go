// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/litnote/pkg/types"
)

// loadConfig assembles the litnote configuration from viper. Defaults are
// registered in initConfig, so every key reads cleanly.
func loadConfig() types.Config {
	citekey := types.CitekeyConfig{
		Template:               viper.GetString("citekey.template"),
		UseZoteroKeys:          viper.GetBool("citekey.use_zotero_keys"),
		MinLength:              viper.GetInt("citekey.min_length"),
		Abbreviation:           types.AuthorAbbreviation(viper.GetString("citekey.abbreviation")),
		IncludeMultipleAuthors: viper.GetBool("citekey.include_multiple_authors"),
		MaxAuthors:             viper.GetInt("citekey.max_authors"),
		TwoAuthorStyle:         types.TwoAuthorStyle(viper.GetString("citekey.two_author_style")),
		UseEtAl:                viper.GetBool("citekey.use_et_al"),
		AuthorYearDelimiter:    viper.GetString("citekey.author_year_delimiter"),
		ShortKeyDelimiter:      viper.GetString("citekey.short_key_delimiter"),
	}

	note := types.NoteConfig{
		VaultDir:         viper.GetString("note.vault_dir"),
		TemplatePath:     viper.GetString("note.template_path"),
		FilenameTemplate: viper.GetString("note.filename_template"),
		Frontmatter:      viper.GetStringMapString("note.frontmatter"),
	}

	lookup := types.LookupConfig{
		Timeout:    viper.GetDuration("lookup.timeout"),
		UserAgent:  viper.GetString("lookup.user_agent"),
		MaxRetries: viper.GetInt("lookup.max_retries"),
	}

	return types.Config{Citekey: citekey, Note: note, Lookup: lookup}
}
