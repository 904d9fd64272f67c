package service

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"pricescout/internal/matching/model"
)

// Число + единица измерения (латиница и кириллица). Границы проверяем вручную:
// \b в RE2 работает только для ASCII и ломается на кириллице.
var reQuantity = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(мл|мг|кг|гр|шт|литр|л|г|ml|mg|kg|pcs|ltr|l|g)`)

// Множители приведения к каноническим единицам (граммы, миллилитры, штуки)
var unitTable = map[string]struct {
	unit string
	mul  float64
}{
	"кг": {model.UnitGrams, 1000}, "kg": {model.UnitGrams, 1000},
	"г": {model.UnitGrams, 1}, "гр": {model.UnitGrams, 1}, "g": {model.UnitGrams, 1},
	"мг": {model.UnitGrams, 0.001}, "mg": {model.UnitGrams, 0.001},
	"л": {model.UnitMilliliters, 1000}, "литр": {model.UnitMilliliters, 1000},
	"l": {model.UnitMilliliters, 1000}, "ltr": {model.UnitMilliliters, 1000},
	"мл": {model.UnitMilliliters, 1}, "ml": {model.UnitMilliliters, 1},
	"шт": {model.UnitPieces, 1}, "pcs": {model.UnitPieces, 1},
}

// Диапазон веса одного яйца: штучный товар с таким "весом на штуку"
// дублирует количество, граммовку выбрасываем.
const (
	perEggMinGrams = 40
	perEggMaxGrams = 80
)

// canonicalQuantity приводит значение+единицу к канонической паре.
func canonicalQuantity(value float64, unit string) (model.Quantity, bool) {
	conv, ok := unitTable[unit]
	if !ok {
		return model.Quantity{}, false
	}
	v := value * conv.mul
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return model.Quantity{}, false
	}
	return model.Quantity{Value: v, Unit: conv.unit}, true
}

// extractQuantities извлекает все объёмы/веса из нормализованного текста.
func extractQuantities(norm string) []model.Quantity {
	var out []model.Quantity

	for _, m := range reQuantity.FindAllStringSubmatchIndex(norm, -1) {
		// граница слева: начало строки либо не буква/цифра/точка
		if !boundaryBefore(norm, m[0]) {
			continue
		}
		// граница справа: конец строки либо не буква
		if !boundaryAfter(norm, m[1]) {
			continue
		}
		val, err := strconv.ParseFloat(norm[m[2]:m[3]], 64)
		if err != nil {
			continue
		}
		if q, ok := canonicalQuantity(val, norm[m[4]:m[5]]); ok {
			out = append(out, q)
		}
	}

	out = dropPerUnitEggWeight(out)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Unit != out[j].Unit {
			return out[i].Unit < out[j].Unit
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func boundaryBefore(s string, byteIdx int) bool {
	if byteIdx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:byteIdx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
}

func boundaryAfter(s string, byteIdx int) bool {
	if byteIdx >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[byteIdx:])
	return !unicode.IsLetter(r)
}

// dropPerUnitEggWeight: если есть и штучное количество, и граммовка, которая в
// пересчёте на штуку попадает в 40–80 г, граммовка — неявный вес яйца, убираем.
func dropPerUnitEggWeight(qs []model.Quantity) []model.Quantity {
	var pieces []float64
	for _, q := range qs {
		if q.Unit == model.UnitPieces {
			pieces = append(pieces, q.Value)
		}
	}
	if len(pieces) == 0 {
		return qs
	}
	out := qs[:0]
	for _, q := range qs {
		drop := false
		if q.Unit == model.UnitGrams {
			for _, p := range pieces {
				if p > 0 {
					per := q.Value / p
					if per >= perEggMinGrams && per <= perEggMaxGrams {
						drop = true
						break
					}
				}
			}
		}
		if !drop {
			out = append(out, q)
		}
	}
	return out
}

// Допустимое относительное расхождение значений при сравнении объёмов
const volumeTolerance = 0.02

// compareVolumeLists сравнивает списки объёмов двух товаров.
// Оба пустые — точное совпадение; один пустой — совместимо (отсутствие данных
// не дисквалифицирует); иначе сравнивается только первая (наименьшая) пара.
func compareVolumeLists(a, b []model.Quantity) (compatible, exact bool) {
	if len(a) == 0 && len(b) == 0 {
		return true, true
	}
	if len(a) == 0 || len(b) == 0 {
		return true, false
	}
	qa, qb := a[0], b[0]
	if qa.Unit != qb.Unit {
		return false, false
	}
	maxVal := math.Max(qa.Value, qb.Value)
	if maxVal <= 0 {
		return false, false
	}
	if math.Abs(qa.Value-qb.Value)/maxVal <= volumeTolerance {
		return true, true
	}
	return false, false
}

