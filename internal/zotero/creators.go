// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"fmt"
	"strings"
)

// groupCreators buckets a Zotero creators list by CSL contributor role.
// Creators without a creatorType default to "author". A creators field
// that is present but not a list is a malformed item.
func groupCreators(value any) (map[string][]any, error) {
	groups := make(map[string][]any)
	if value == nil {
		return groups, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("creators is %T, want a list", value)
	}
	for _, c := range list {
		creator, ok := c.(map[string]any)
		if !ok {
			continue
		}
		role := "author"
		if ct, ok := creator["creatorType"].(string); ok && ct != "" {
			if mapped, ok := creatorRoleToCSL[ct]; ok {
				role = mapped
			} else {
				role = ct
			}
		}
		groups[role] = append(groups[role], creator)
	}
	return groups, nil
}

// convertCreators maps creator objects onto CSL names: persons become
// {family, given?}, single-field named entities become {literal}.
// Unmappable entries are dropped. Returns nil when nothing maps.
func convertCreators(value any) []any {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	var names []any
	for _, c := range list {
		creator, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if name := convertCreator(creator); name != nil {
			names = append(names, name)
		}
	}
	return names
}

func convertCreator(creator map[string]any) map[string]any {
	last := strings.TrimSpace(stringField(creator, "lastName"))
	first := strings.TrimSpace(stringField(creator, "firstName"))
	if last != "" {
		name := map[string]any{"family": last}
		if first != "" {
			name["given"] = first
		}
		return name
	}
	// Byline-style single-field creators ("name") are institutions or
	// unsplit full names; keep them literal.
	if full := strings.TrimSpace(stringField(creator, "name")); full != "" {
		return map[string]any{"literal": full}
	}
	if first != "" {
		return map[string]any{"given": first}
	}
	return nil
}

// bylineCreators extracts a fallback author for webpage and newspaper
// items whose creators list carries no author: connectors often leave the
// byline in a scalar field instead.
func bylineCreators(item Item) []any {
	for _, field := range []string{"byline", "author"} {
		s, ok := item[field].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if name := splitByline(s); name != nil {
			return []any{name}
		}
	}
	return nil
}

// splitByline splits a full-name string on the last space: the final token
// is the family name, the rest the given name. Single tokens stay literal.
func splitByline(name string) map[string]any {
	name = strings.TrimSpace(strings.TrimPrefix(name, "By "))
	if name == "" {
		return nil
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return map[string]any{"literal": name}
	}
	return map[string]any{
		"given":  name[:idx],
		"family": name[idx+1:],
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
