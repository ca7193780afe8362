package menu

import (
	"alhidayah-backend/internal/listing"
	"alhidayah-backend/internal/models"
)

const AllCategories = "ALL"

type Stats struct {
	Total      int `json:"total"`
	Available  int `json:"available"`
	Categories int `json:"categories"`
}

// Filter ada göre arar, category "ALL" veya boş değilse birebir eşleşme ister.
func Filter(items []models.MenuItem, query, category string) []models.MenuItem {
	all := listing.IsAll(category)
	return listing.Filter(items, func(m models.MenuItem) bool {
		if !all && m.Category != category {
			return false
		}
		return listing.Matches(query, m.Name)
	})
}

// Categories ilk görülme sırasına göre tekil kategori listesi, başta "ALL".
func Categories(items []models.MenuItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{AllCategories}
	for _, m := range items {
		if m.Category == "" {
			continue
		}
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		out = append(out, m.Category)
	}
	return out
}

func ComputeStats(items []models.MenuItem) Stats {
	s := Stats{Total: len(items), Categories: len(Categories(items)) - 1}
	for _, m := range items {
		if m.IsAvailable {
			s.Available++
		}
	}
	return s
}
