package service

import (
	"regexp"
	"strings"

	"pricescout/internal/matching/model"
)

// 0,5 → 0.5 (до чистки пунктуации)
var decComma = regexp.MustCompile(`(\d),(\d)`)

// Оставляем буквы/цифры/пробелы + точку и % (жирность "3.2%" должна пережить чистку)
var punct = regexp.MustCompile(`[^\p{L}\p{N}\s.%]+`)

// Точки, не являющиеся десятичным разделителем
var strayDots = regexp.MustCompile(`(^|[^\p{N}])\.|\.($|[^\p{N}])`)

// Мультиязычные стоп-слова (токены короче 3 символов отбрасываются и так)
var stopWords = map[string]struct{}{
	"для": {}, "без": {}, "или": {}, "при": {}, "под": {}, "как": {}, "это": {},
	"the": {}, "and": {}, "for": {}, "with": {},
}

// Словарь "набор/комплект/N-в-1" для определения бандлов
var (
	reBundleWordLat = regexp.MustCompile(`(?i)\b(set|bundle|combo|multipack|kit)\b`)
	reBundleWordCyr = regexp.MustCompile(`(?i)(набор|комплект|комбо|ассорти|мультипак)`)
	reBundleNIn1    = regexp.MustCompile(`(?i)\d\s*(?:в|in)\s*1`)
	reBundleNx      = regexp.MustCompile(`(?i)\d\s*[xх]\s*\d`)
)

// normalizeText — главный конвейер нормализации свободного текста.
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	out := strings.ToLower(s)
	out = strings.NewReplacer("ё", "е").Replace(out)
	out = decComma.ReplaceAllString(out, "$1.$2")
	out = punct.ReplaceAllString(out, " ")
	out = strayDots.ReplaceAllString(out, "$1 $2")
	return collapseSpaces(out)
}

// tokenize — множество значимых токенов: длина > 2, без стоп-слов.
func tokenize(norm string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, f := range strings.Fields(norm) {
		if len([]rune(f)) <= 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens[f] = struct{}{}
	}
	return tokens
}

// isBundle — текст содержит маркер набора/комплекта.
func isBundle(norm string) bool {
	return reBundleWordLat.MatchString(norm) ||
		reBundleWordCyr.MatchString(norm) ||
		reBundleNIn1.MatchString(norm) ||
		reBundleNx.MatchString(norm)
}

// ExtractFeatures строит FeatureSet по паре имя+бренд.
// Результат неизменяем; в рамках сессии считается один раз.
func ExtractFeatures(name, brand string) *model.FeatureSet {
	norm := normalizeText(name)
	return &model.FeatureSet{
		Normalized: norm,
		Tokens:     tokenize(norm),
		Quantities: extractQuantities(norm),
		Bundle:     isBundle(norm),
		BrandNorm:  NormalizeBrand(brand),
	}
}

// entryFeatures — FeatureSet каталожной позиции с учётом явного веса.
// Явный вес каталога добавляется, только если из имени ничего не извлеклось.
func entryFeatures(e *model.CatalogEntry) *model.FeatureSet {
	fs := ExtractFeatures(e.Name, e.Brand)
	if len(fs.Quantities) == 0 && e.WeightValue > 0 {
		if q, ok := canonicalQuantity(e.WeightValue, e.WeightUnit); ok {
			fs.Quantities = []model.Quantity{q}
		}
	}
	return fs
}

// tokenOverlap — размер пересечения двух множеств токенов.
func tokenOverlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
