// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero converts raw Zotero JSON export items into CSL-JSON
// records using a declarative field-mapping table with typed converters.
package zotero

import (
	"fmt"
	"strings"

	"github.com/pdiddy/litnote/internal/citekey"
	"github.com/pdiddy/litnote/internal/dates"
	"github.com/pdiddy/litnote/pkg/types"
)

// Internal stash keys, removed before a record leaves the package.
const (
	zoteroKeyField    = "_zoteroKey"
	extraContentField = "_extraFieldContent"
)

// Item is a raw Zotero export item as decoded from JSON.
type Item map[string]any

// MapToCSL converts a Zotero item to a CSL-keyed record. The returned
// record still carries the internal _zoteroKey/_extraFieldContent stashes;
// Normalize resolves those and assigns the citekey.
func MapToCSL(item Item) (types.Record, error) {
	if item == nil {
		return nil, fmt.Errorf("nil zotero item")
	}
	itemType, _ := item["itemType"].(string)
	if itemType == "" {
		return nil, fmt.Errorf("zotero item has no itemType")
	}

	rec := types.Record{"type": mapItemType(itemType)}

	source, err := assembleSource(item, itemType)
	if err != nil {
		return nil, err
	}

	for _, rule := range fieldRules {
		if len(rule.whenItemType) > 0 && !containsString(rule.whenItemType, itemType) {
			continue
		}
		value, ok := source[rule.source]
		if !ok || isEmptyValue(value) {
			continue
		}

		switch {
		case rule.zoteroOnly:
			rec[zoteroKeyField] = strings.TrimSpace(fmt.Sprint(value))
			continue
		case rule.extraField:
			rec[extraContentField], _ = value.(string)
			continue
		}

		converted, ok := applyConverter(rule.conv, value)
		if !ok {
			continue
		}
		if _, taken := rec[rule.target]; taken && rule.target != "type" {
			continue
		}
		rec[rule.target] = converted
	}

	// A bare year field stands in when no parseable date was present.
	if _, ok := rec["issued"]; !ok {
		if y, ok := item["year"]; ok && !isEmptyValue(y) {
			if p := dates.Parse(fmt.Sprint(y)); p != nil && len(p.DateParts) > 0 {
				rec["issued"] = dates.ToCSLDate(p).AsMap()
			}
		}
	}

	reconcileFieldCase(rec)
	return rec, nil
}

// Normalize runs the full import path for one item: field mapping with the
// generic-CSL fallback chain, extra-field merging, and citekey assignment.
// When both the mapper and the fallback fail, the mapping error is
// returned; it is the more diagnostic of the two.
func Normalize(item Item, cfg types.CitekeyConfig) (types.Record, error) {
	rec, mapErr := MapToCSL(item)
	if mapErr != nil {
		fallback, fbErr := genericCSL(item)
		if fbErr != nil {
			return nil, mapErr
		}
		rec = fallback
	}

	if extra, ok := rec[extraContentField].(string); ok {
		mergeExtraFields(rec, parseExtraFields(extra))
	}

	zoteroKey, _ := rec[zoteroKeyField].(string)
	delete(rec, zoteroKeyField)
	delete(rec, extraContentField)

	if cfg.UseZoteroKeys && zoteroKey != "" {
		rec["id"] = zoteroKey
	} else {
		rec["id"] = citekey.Generate(rec, cfg)
	}
	return rec, nil
}

// genericCSL interprets a malformed Zotero item as if it were CSL-JSON
// already, with the item type as a hint. The last-resort branch of the
// import fallback chain.
func genericCSL(item Item) (types.Record, error) {
	if item == nil {
		return nil, fmt.Errorf("nil item")
	}
	rec := types.Record{}
	for k, v := range item {
		if v == nil || isEmptyValue(v) {
			continue
		}
		switch k {
		case "itemType":
			rec["type"] = mapItemType(fmt.Sprint(v))
		case "creators":
			if names := convertCreators(v); names != nil {
				rec["author"] = names
			}
		case "date", "issued":
			if p := dates.Parse(v); p != nil {
				if d := dates.ToCSLDate(p); d != nil {
					rec["issued"] = d.AsMap()
				}
			}
		default:
			rec[k] = v
		}
	}
	if rec.GetString("title") == "" && len(rec) == 0 {
		return nil, fmt.Errorf("no usable fields")
	}
	if _, ok := rec["type"]; !ok {
		rec["type"] = "document"
	}
	reconcileFieldCase(rec)
	return rec, nil
}

func mapItemType(itemType string) string {
	if t, ok := itemTypeToCSL[itemType]; ok {
		return t
	}
	return "document"
}

// assembleSource merges the item's plain fields with its creators grouped
// by CSL role, so the rule table can address both uniformly.
func assembleSource(item Item, itemType string) (map[string]any, error) {
	source := make(map[string]any, len(item)+4)
	for k, v := range item {
		source[k] = v
	}

	groups, err := groupCreators(item["creators"])
	if err != nil {
		return nil, err
	}
	if len(groups["author"]) == 0 && (itemType == "webpage" || itemType == "newspaperArticle") {
		if byline := bylineCreators(item); len(byline) > 0 {
			groups["author"] = byline
		}
	}
	for role, creators := range groups {
		source[role] = creators
	}
	return source, nil
}

func applyConverter(conv converter, value any) (any, bool) {
	switch conv {
	case convType:
		s, _ := value.(string)
		return mapItemType(s), true
	case convDate:
		p := dates.Parse(value)
		if p == nil {
			return nil, false
		}
		d := dates.ToCSLDate(p)
		if d == nil {
			return nil, false
		}
		return d.AsMap(), true
	case convCreators:
		names := convertCreators(value)
		if names == nil {
			return nil, false
		}
		return names, true
	case convTags:
		joined := joinTags(value)
		if joined == "" {
			return nil, false
		}
		return joined, true
	default:
		return value, true
	}
}

// joinTags flattens a Zotero tag-object list into a comma-separated string.
func joinTags(value any) string {
	tags, ok := value.([]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, t := range tags {
		switch tag := t.(type) {
		case map[string]any:
			if s, ok := tag["tag"].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		case string:
			if strings.TrimSpace(tag) != "" {
				parts = append(parts, strings.TrimSpace(tag))
			}
		}
	}
	return strings.Join(parts, ", ")
}

// reconcileFieldCase renames lowercased variants of the case-preserved CSL
// fields (doi → DOI and friends) without clobbering an existing canonical
// entry.
func reconcileFieldCase(rec types.Record) {
	for _, canonical := range preserveCaseFields {
		for key, value := range rec {
			if key != canonical && strings.EqualFold(key, canonical) {
				if _, exists := rec[canonical]; !exists {
					rec[canonical] = value
				}
				delete(rec, key)
			}
		}
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
