package domain

import "strings"

// SplitTags parses comma-separated keywords. Entries are trimmed, empty
// entries are dropped and duplicates collapse to their first occurrence.
// Matching is case-sensitive.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

func JoinTags(tags []string) string {
	return strings.Join(SplitTags(strings.Join(tags, ",")), ",")
}
