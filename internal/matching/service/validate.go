package service

import (
	"fmt"

	"pricescout/internal/matching/model"
)

// Пороги вердикта по уверенности модели после успешной валидации
const (
	confidenceCorrect = 0.9
	confidenceReview  = 0.7
)

// validatePair прогоняет четыре независимые проверки пары источник-кандидат.
// Порядок фиксирован, первая провалившаяся определяет причину.
// Возвращает пустую строку, если все проверки пройдены.
func validatePair(src *model.FeatureSet, srcBrand string, cand *model.FeatureSet, candBrand string) string {
	// 1) Лексика: названия обязаны пересекаться по значимым словам
	shared := tokenOverlap(src.Tokens, cand.Tokens)
	required := 1
	if len(src.Tokens) > 4 && len(cand.Tokens) > 4 {
		required = 2
	}
	if shared < required {
		return fmt.Sprintf("названия не пересекаются по значимым словам (общих: %d, нужно: %d)", shared, required)
	}

	// 2) Бренд
	if !brandsMatch(srcBrand, candBrand) {
		return fmt.Sprintf("бренды не совпадают: %q и %q", srcBrand, candBrand)
	}

	// 3) Объём/вес
	if ok, _ := compareVolumeLists(src.Quantities, cand.Quantities); !ok {
		return fmt.Sprintf("объём/вес не совпадает: %v и %v", src.Quantities, cand.Quantities)
	}

	// 4) Тип товара
	if ok, kwA, kwB := checkProductTypeMatch(src, cand); !ok {
		return fmt.Sprintf("разный тип товара: %q и %q", kwA, kwB)
	}

	return ""
}

// finalizeVerdict — вердикт после валидации: провал любой проверки бьёт
// уверенность модели, иначе решают пороги.
func finalizeVerdict(src *model.FeatureSet, srcBrand string, cand *model.ScoredCandidate, confidence float64, reason string) model.MatchResult {
	if fail := validatePair(src, srcBrand, cand.Features, cand.Entry.Brand); fail != "" {
		return model.MatchResult{
			Verdict:     model.VerdictLikelyWrong,
			Reason:      fail,
			Confidence:  confidence,
			MatchedID:   cand.Entry.ID,
			MatchedName: cand.Entry.Name,
		}
	}

	verdict := model.VerdictLikelyWrong
	switch {
	case confidence >= confidenceCorrect:
		verdict = model.VerdictCorrect
	case confidence >= confidenceReview:
		verdict = model.VerdictNeedsReview
	}
	return model.MatchResult{
		Verdict:     verdict,
		Reason:      reason,
		Confidence:  confidence,
		MatchedID:   cand.Entry.ID,
		MatchedName: cand.Entry.Name,
	}
}

// VerifyClaimed — путь только-проверки: запись уже несёт заявленного
// контрагента, поиска кандидатов нет. Первичный сигнал — доля пересечения
// токенов, а не уверенность модели.
func VerifyClaimed(rec *model.SourceRecord, entry *model.CatalogEntry) model.MatchResult {
	src := ExtractFeatures(rec.Title, rec.Brand)
	dst := entryFeatures(entry)

	shared := tokenOverlap(src.Tokens, dst.Tokens)
	denom := len(src.Tokens)
	if len(dst.Tokens) > denom {
		denom = len(dst.Tokens)
	}
	ratio := 0.0
	if denom > 0 {
		ratio = float64(shared) / float64(denom)
	}

	res := model.MatchResult{
		Confidence:  ratio,
		MatchedID:   entry.ID,
		MatchedName: entry.Name,
	}

	if ratio < 0.2 && shared < 2 {
		res.Verdict = model.VerdictLikelyWrong
		res.Reason = "названия слишком различаются"
		return res
	}
	if !brandsMatch(rec.Brand, entry.Brand) {
		res.Verdict = model.VerdictLikelyWrong
		res.Reason = fmt.Sprintf("бренды не совпадают: %q и %q", rec.Brand, entry.Brand)
		return res
	}
	if ok, _ := compareVolumeLists(src.Quantities, dst.Quantities); !ok {
		res.Verdict = model.VerdictLikelyWrong
		res.Reason = fmt.Sprintf("объём/вес не совпадает: %v и %v", src.Quantities, dst.Quantities)
		return res
	}
	if ok, kwA, kwB := checkProductTypeMatch(src, dst); !ok {
		res.Verdict = model.VerdictLikelyWrong
		res.Reason = fmt.Sprintf("разный тип товара: %q и %q", kwA, kwB)
		return res
	}

	if ratio >= 0.5 || shared >= 3 {
		res.Verdict = model.VerdictCorrect
		res.Reason = fmt.Sprintf("высокое пересечение названий (%.2f, общих слов: %d)", ratio, shared)
		return res
	}
	res.Verdict = model.VerdictNeedsReview
	res.Reason = fmt.Sprintf("среднее пересечение названий (%.2f, общих слов: %d)", ratio, shared)
	return res
}
