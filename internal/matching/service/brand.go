package service

import (
	"regexp"
	"strings"
	"unicode"
)

// Юридические суффиксы/аббревиатуры в обоих алфавитах
var legalSuffixes = map[string]struct{}{
	"ооо": {}, "тоо": {}, "оао": {}, "зао": {}, "ао": {}, "ип": {}, "тм": {},
	"llc": {}, "llp": {}, "ltd": {}, "inc": {}, "gmbh": {}, "co": {}, "corp": {}, "tm": {},
}

// Товарные существительные, прилипающие к бренду ("Молоко Простоквашино")
var categoryNouns = map[string]struct{}{
	"молоко": {}, "сыр": {}, "сок": {}, "вода": {}, "чай": {}, "кофе": {},
	"йогурт": {}, "кефир": {}, "масло": {}, "хлеб": {}, "шоколад": {}, "напиток": {},
	"milk": {}, "juice": {}, "water": {}, "tea": {}, "coffee": {}, "drink": {},
}

// Известные транслитерации брендов (латиница → кириллица).
// Для брендов, чьё фонетическое побуквенное преобразование даёт не то написание.
var knownBrandTranslit = map[string]string{
	"danone":    "данон",
	"lays":      "лейс",
	"heinz":     "хайнц",
	"colgate":   "колгейт",
	"palmolive": "палмолив",
	"huggies":   "хаггис",
	"pampers":   "памперс",
	"head shoulders": "хед энд шолдерс",
}

// Казахские буквы → ближайшие русские
var kazakhToRussian = strings.NewReplacer(
	"ә", "а", "ғ", "г", "қ", "к", "ң", "н", "ө", "о", "ұ", "у", "ү", "у", "һ", "х", "і", "и",
)

// Фонетическая таблица латиница → кириллица; диграфы раньше одиночных букв.
var phoneticPairs = []struct{ lat, cyr string }{
	{"shch", "щ"}, {"sch", "щ"}, {"sh", "ш"}, {"ch", "ч"}, {"zh", "ж"},
	{"kh", "х"}, {"ts", "ц"}, {"yu", "ю"}, {"ya", "я"}, {"yo", "е"}, {"ye", "е"},
	{"a", "а"}, {"b", "б"}, {"c", "к"}, {"d", "д"}, {"e", "е"}, {"f", "ф"},
	{"g", "г"}, {"h", "х"}, {"i", "и"}, {"j", "дж"}, {"k", "к"}, {"l", "л"},
	{"m", "м"}, {"n", "н"}, {"o", "о"}, {"p", "п"}, {"q", "к"}, {"r", "р"},
	{"s", "с"}, {"t", "т"}, {"u", "у"}, {"v", "в"}, {"w", "в"}, {"x", "кс"},
	{"y", "й"}, {"z", "з"},
}

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// NormalizeBrand приводит бренд к сопоставимому виду: без юр.суффиксов и
// товарных слов, в кириллице (для преимущественно латинских строк).
func NormalizeBrand(brand string) string {
	s := strings.ToLower(strings.TrimSpace(brand))
	if s == "" {
		return ""
	}
	s = nonAlnum.ReplaceAllString(s, " ")
	s = collapseSpaces(s)

	// юридические суффиксы — отдельными словами в любом месте
	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if _, legal := legalSuffixes[w]; legal {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) > 0 {
		words = kept
	}

	// товарные слова по краям — только если бренд не состоит из них целиком
	for len(words) > 1 {
		if _, noun := categoryNouns[words[0]]; noun {
			words = words[1:]
			continue
		}
		if _, noun := categoryNouns[words[len(words)-1]]; noun {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	s = strings.Join(words, " ")

	// известные бренды: целиком или как подстрока
	if repl, ok := knownBrandTranslit[s]; ok {
		s = repl
	} else {
		for lat, cyr := range knownBrandTranslit {
			if strings.Contains(s, lat) {
				s = strings.ReplaceAll(s, lat, cyr)
			}
		}
	}

	s = kazakhToRussian.Replace(s)

	if mostlyLatin(s) {
		s = transliterateLatin(s)
	}

	s = nonAlnum.ReplaceAllString(s, " ")
	return collapseSpaces(s)
}

func mostlyLatin(s string) bool {
	lat, cyr := 0, 0
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lat++
		case unicode.Is(unicode.Cyrillic, r):
			cyr++
		}
	}
	return lat > cyr
}

func transliterateLatin(s string) string {
	for _, p := range phoneticPairs {
		s = strings.ReplaceAll(s, p.lat, p.cyr)
	}
	return s
}

// brandsMatch — правило эквивалентности брендов. Пустая сторона не мешает
// совпадению: отсутствие информации не должно отклонять матч.
func brandsMatch(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return true
	}
	na, nb := NormalizeBrand(a), NormalizeBrand(b)
	if na == "" || nb == "" {
		return true
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	if sharedSignificantWord(na, nb) {
		return true
	}
	ra, rb := []rune(na), []rune(nb)
	if len(ra) >= 4 && len(rb) >= 4 && string(ra[:4]) == string(rb[:4]) {
		return true
	}
	// грубая оценка расхождения по позициям; НЕ расстояние Левенштейна —
	// пороги вердиктов откалиброваны именно под это правило
	if len(ra) > 4 && len(rb) > 4 && positionDiff(ra, rb) <= 2 {
		return true
	}
	return false
}

// Общее значимое слово (длиннее 3 символов) с учётом вхождения
func sharedSignificantWord(a, b string) bool {
	for _, wa := range strings.Fields(a) {
		for _, wb := range strings.Fields(b) {
			short, long := wa, wb
			if len([]rune(short)) > len([]rune(long)) {
				short, long = long, short
			}
			if len([]rune(short)) <= 3 {
				continue
			}
			if strings.Contains(long, short) {
				return true
			}
		}
	}
	return false
}

func positionDiff(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	diff := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			diff++
		}
	}
	diff += len(a) + len(b) - 2*n
	return diff
}
