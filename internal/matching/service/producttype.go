package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pricescout/internal/matching/model"
)

// Взаимоисключающие группы ключевых слов: если оба названия содержат слова
// одной группы, но разные, — это разные товары.
type keywordGroup struct {
	name     string
	keywords []string
}

var typeGroups = []keywordGroup{
	{"vegetable", []string{
		"картофел", "морков", "лук", "помидор", "томат", "огурец", "огурц",
		"капуст", "свекл", "перец", "кабачок", "баклажан", "чеснок",
		"potato", "carrot", "onion", "tomato", "cucumber", "cabbage",
	}},
	{"dairy", []string{
		"молоко", "кефир", "сметана", "творог", "йогурт", "ряженка", "сливки",
		"milk", "kefir", "yogurt", "yoghurt", "cream",
	}},
	{"meat", []string{
		"говядин", "свинин", "баранин", "индейк", "курин", "куриц",
		"beef", "pork", "lamb", "turkey", "chicken",
	}},
	// части туши — своя группа: "крылья куриные" и "голень куриная"
	// пересекаются по мясу, но не по части
	{"meat_part", []string{
		"крыл", "голен", "грудк", "бедр", "окорочок", "фарш", "вырезк",
		"wing", "drumstick", "breast", "thigh", "mince",
	}},
	{"fish", []string{
		"лосос", "семг", "форел", "тунец", "сельд", "скумбри", "минтай", "треск", "горбуш",
		"salmon", "trout", "tuna", "herring", "mackerel", "cod",
	}},
	{"fruit", []string{
		"яблок", "груш", "банан", "апельсин", "мандарин", "виноград", "персик",
		"клубник", "малин", "вишн", "арбуз", "дын", "лимон",
		"apple", "pear", "banana", "orange", "grape", "peach", "strawberry", "cherry", "lemon",
	}},
	{"flavor", []string{
		"ваниль", "ванильн", "шоколадн", "клубничн", "апельсинов", "лимонн",
		"вишнев", "персиков", "мятн", "карамельн",
		"vanilla", "chocolate", "caramel", "mint",
	}},
	{"grooming", []string{
		"шампун", "бальзам", "кондиционер", "дезодорант", "зубн",
		"shampoo", "balm", "conditioner", "deodorant", "toothpaste",
	}},
}

// Модификаторы, упоминание которых только с одной стороны — несовпадение типа
var oneSidedModifiers = []string{
	"лимоном", "бескостн", "boneless", "копчен", "остр", "солен", "безлактозн", "обезжирен", "spicy", "smoked",
}

// Жирность сравниваем по числу, а не по подстроке: литералы вроде "5%" и
// "2%" входят друг в друга ("2.5%", "3.2%") и ломают взаимоисключение.
var reFatPercent = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

func fatPercent(norm string) (float64, bool) {
	m := reFatPercent.FindStringSubmatch(norm)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// checkProductTypeMatch — набор правил типовой совместимости двух товаров.
// Возвращает (true, "", "") при совместимости, иначе пару разошедшихся слов.
func checkProductTypeMatch(a, b *model.FeatureSet) (bool, string, string) {
	if a.Bundle != b.Bundle {
		if a.Bundle {
			return false, "набор", "одиночный товар"
		}
		return false, "одиночный товар", "набор"
	}

	for _, g := range typeGroups {
		foundA := g.found(a.Normalized)
		foundB := g.found(b.Normalized)
		if len(foundA) == 0 || len(foundB) == 0 {
			continue
		}
		if !intersects(foundA, foundB) {
			return false, foundA[0], foundB[0]
		}
	}

	fa, okA := fatPercent(a.Normalized)
	fb, okB := fatPercent(b.Normalized)
	if okA && okB && fa != fb {
		return false, fmt.Sprintf("%g%%", fa), fmt.Sprintf("%g%%", fb)
	}

	for _, mod := range oneSidedModifiers {
		inA := strings.Contains(a.Normalized, mod)
		inB := strings.Contains(b.Normalized, mod)
		if inA != inB {
			if inA {
				return false, mod, ""
			}
			return false, "", mod
		}
	}

	return true, "", ""
}

func (g keywordGroup) found(norm string) []string {
	var out []string
	for _, kw := range g.keywords {
		if containsAtWordStart(norm, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// containsAtWordStart — kw встречается в начале слова. Ключи групп — основы
// ("томат" должен найти "томатный"), поэтому граница справа не требуется,
// но вхождение в середине слова ("автомат") — ложное срабатывание.
func containsAtWordStart(s, kw string) bool {
	for idx := 0; ; {
		i := strings.Index(s[idx:], kw)
		if i < 0 {
			return false
		}
		pos := idx + i
		if pos == 0 || s[pos-1] == ' ' {
			return true
		}
		idx = pos + 1
	}
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
