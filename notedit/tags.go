package notedit

import "strings"

// NormalizeTags trims names, drops empties and deduplicates, preserving
// first-seen order.
func NormalizeTags(names []string) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ReconcileTags computes the final tag set for a mode. The boolean reports
// whether a tag set should be sent at all: TagsIgnore yields (nil, false),
// which tells the store to leave the note's tags untouched — distinct from
// sending an empty set. Existing order is kept, newly added names follow in
// request order.
func ReconcileTags(mode TagMode, existing, requested []string) ([]string, bool) {
	requested = NormalizeTags(requested)

	switch mode {
	case TagsReplace:
		return requested, true

	case TagsAdd:
		final := NormalizeTags(existing)
		have := make(map[string]bool, len(final))
		for _, n := range final {
			have[n] = true
		}
		for _, n := range requested {
			if !have[n] {
				have[n] = true
				final = append(final, n)
			}
		}
		return final, true

	case TagsRemove:
		drop := make(map[string]bool, len(requested))
		for _, n := range requested {
			drop[n] = true
		}
		final := []string{}
		for _, n := range NormalizeTags(existing) {
			if !drop[n] {
				final = append(final, n)
			}
		}
		return final, true
	}

	return nil, false
}
