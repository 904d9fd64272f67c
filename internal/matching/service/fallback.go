package service

import (
	"strings"

	"pricescout/internal/matching/model"
)

// Пороги резервного матчера (работает при отказе внешнего сервиса)
const (
	fallbackCorrect = 0.9
	fallbackReview  = 0.6
)

// fallbackSimilarity — чистое строковое сходство: точное совпадение,
// вхождение, доля общих слов, плюс бонус за пересечение брендов.
func fallbackSimilarity(src *model.FeatureSet, srcBrand string, cand *model.FeatureSet, candBrand string) float64 {
	a, b := src.Normalized, cand.Normalized
	var sim float64
	switch {
	case a == "" || b == "":
		sim = 0
	case a == b:
		sim = 1.0
	case strings.Contains(a, b) || strings.Contains(b, a):
		sim = 0.85
	default:
		shared := tokenOverlap(src.Tokens, cand.Tokens)
		denom := len(src.Tokens)
		if len(cand.Tokens) > denom {
			denom = len(cand.Tokens)
		}
		if denom > 0 {
			sim = 0.8 * float64(shared) / float64(denom)
		}
	}

	na, nb := NormalizeBrand(srcBrand), NormalizeBrand(candBrand)
	if na != "" && nb != "" && brandsMatch(srcBrand, candBrand) {
		sim += 0.15
	}
	if sim > 1 {
		sim = 1
	}
	return sim
}

// fallbackMatch выбирает лучшего кандидата локально и формирует вердикт по
// собственным порогам резерва; выбранная пара всё равно проходит валидацию.
func fallbackMatch(src *model.FeatureSet, srcBrand string, cands []model.ScoredCandidate) model.MatchResult {
	bestIdx := -1
	bestSim := 0.0
	for i := range cands {
		sim := fallbackSimilarity(src, srcBrand, cands[i].Features, cands[i].Entry.Brand)
		if sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestSim < fallbackReview {
		reason := "резервное сопоставление: сходство ниже порога пересмотра"
		if bestIdx < 0 {
			reason = "резервное сопоставление: нет сопоставимых кандидатов"
		}
		return model.MatchResult{
			Verdict:         model.VerdictNotFound,
			Reason:          reason,
			Confidence:      bestSim,
			CandidatesCount: len(cands),
		}
	}

	cand := &cands[bestIdx]
	if fail := validatePair(src, srcBrand, cand.Features, cand.Entry.Brand); fail != "" {
		return model.MatchResult{
			Verdict:         model.VerdictLikelyWrong,
			Reason:          "резервное сопоставление: " + fail,
			Confidence:      bestSim,
			MatchedID:       cand.Entry.ID,
			MatchedName:     cand.Entry.Name,
			CandidatesCount: len(cands),
		}
	}

	verdict := model.VerdictNeedsReview
	if bestSim >= fallbackCorrect {
		verdict = model.VerdictCorrect
	}
	return model.MatchResult{
		Verdict:         verdict,
		Reason:          "резервное сопоставление по строковому сходству",
		Confidence:      bestSim,
		MatchedID:       cand.Entry.ID,
		MatchedName:     cand.Entry.Name,
		CandidatesCount: len(cands),
	}
}
