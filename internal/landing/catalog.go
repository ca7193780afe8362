// Package landing tanıtım sitesini sunar: dil bazlı ana sayfa, içerik API'si
// ve panele yönlendiren giriş kapısı.
package landing

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog tek bir dilin mesajları, iç içe anahtarlar ("hero.title" gibi).
type Catalog map[string]interface{}

// Catalogs dil kodu -> mesajlar
type Catalogs map[string]Catalog

// rtlLocales sağdan sola yazılan diller
var rtlLocales = map[string]bool{"ar": true}

// LoadCatalogs gömülü locales/*.json dosyalarını okur.
func LoadCatalogs() (Catalogs, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	out := make(Catalogs, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".json" {
			continue
		}
		raw, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, err
		}
		var c Catalog
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%s çözülemedi: %w", name, err)
		}
		out[strings.TrimSuffix(name, ".json")] = c
	}
	return out, nil
}

// Locales sıralı dil kodları
func (cs Catalogs) Locales() []string {
	out := make([]string, 0, len(cs))
	for l := range cs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func Dir(locale string) string {
	if rtlLocales[locale] {
		return "rtl"
	}
	return "ltr"
}

// Text noktalı anahtarın karşılığı, yoksa anahtarın kendisi.
func (c Catalog) Text(key string) string {
	var cur interface{} = map[string]interface{}(c)
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return key
		}
		if cur, ok = m[part]; !ok {
			return key
		}
	}
	if s, ok := cur.(string); ok {
		return s
	}
	return key
}
