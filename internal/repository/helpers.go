package repository

import (
	"strings"

	"github.com/alexanderramin/guardian/internal/policy"
)

// joinCategories serializes a category list for SQLite storage.
func joinCategories(cats []policy.SafetyCategory) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

// splitCategories parses the stored comma-joined form back into a list.
func splitCategories(s string) []policy.SafetyCategory {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	cats := make([]policy.SafetyCategory, len(parts))
	for i, p := range parts {
		cats[i] = policy.SafetyCategory(p)
	}
	return cats
}
