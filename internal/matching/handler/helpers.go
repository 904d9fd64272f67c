// нормализуем имя колонки: нижний регистр, убираем служ.символы/множественные пробелы/ё→е
package handler

import (
	"regexp"
	"strings"

	"pricescout/internal/matching/model"
	"pricescout/internal/utils"
)

func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е").Replace(s) // NBSP/NNBSP
	s = regexp.MustCompile(`[^\p{L}\p{N}]+`).ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// ищем реальный ключ в записи по желаемому имени.
// Поддерживает варианты через "|" (например: "Наименование|Номенклатура")
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// точное совпадение как есть
	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	// нормализованные сравнения и contains (для составных заголовков)
	var nWantAll []string
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			if strings.Contains(nk, n) || strings.Contains(n, nk) {
				if len(n) > score {
					score = len(n)
				}
			}
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// catalogMapping — имена колонок каталога в загруженном файле.
type catalogMapping struct {
	IDKey     string
	NameKey   string
	BrandKey  string
	WeightKey string
	UnitKey   string
}

// recordMapping — имена колонок файла записей контрагента.
type recordMapping struct {
	TitleKey     string
	BrandKey     string
	CategoryKey  string
	PriceKey     string
	MatchedIDKey string
}

func toCatalogEntries(maps []map[string]string, m catalogMapping) []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(maps))
	for _, rec := range maps {
		nameKey := resolveKey(rec, m.NameKey)
		name := strings.TrimSpace(rec[nameKey])
		if name == "" {
			continue
		}
		e := model.CatalogEntry{
			Name:  name,
			ID:    strings.TrimSpace(rec[resolveKey(rec, m.IDKey)]),
			Brand: strings.TrimSpace(rec[resolveKey(rec, m.BrandKey)]),
			WeightUnit: strings.ToLower(strings.TrimSpace(
				rec[resolveKey(rec, m.UnitKey)])),
		}
		if v, ok := utils.ParseFloatRU(rec[resolveKey(rec, m.WeightKey)]); ok {
			e.WeightValue = v
		}
		out = append(out, e)
	}
	return out
}

func toSourceRecords(maps []map[string]string, m recordMapping) []model.SourceRecord {
	out := make([]model.SourceRecord, 0, len(maps))
	for _, rec := range maps {
		titleKey := resolveKey(rec, m.TitleKey)
		title := strings.TrimSpace(rec[titleKey])
		if title == "" {
			continue
		}
		r := model.SourceRecord{
			Title:     title,
			Brand:     strings.TrimSpace(rec[resolveKey(rec, m.BrandKey)]),
			Category:  strings.TrimSpace(rec[resolveKey(rec, m.CategoryKey)]),
			MatchedID: strings.TrimSpace(rec[resolveKey(rec, m.MatchedIDKey)]),
		}
		if v, ok := utils.ParseFloatRU(rec[resolveKey(rec, m.PriceKey)]); ok {
			r.Price = v
		}
		out = append(out, r)
	}
	return out
}
