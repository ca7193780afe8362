// Package listing dashboard listelerinde kullanılan istemci tarafı arama ve
// durum filtresi yardımcılarını içerir.
package listing

import "strings"

// Matches query boşsa veya alanlardan herhangi biri query'yi (büyük/küçük harf
// duyarsız) içeriyorsa true döner. Boşluklar kırpılmaz, " " sadece boşluk
// içeren alanlarla eşleşir.
func Matches(query string, fields ...string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter keep true döndüren elemanları sırayı bozmadan döndürür.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// IsAll "ALL" veya boş filtre değeri mi?
func IsAll(v string) bool {
	return v == "" || strings.EqualFold(v, "ALL")
}
