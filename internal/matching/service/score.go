package service

import (
	"math"
	"sort"

	"pricescout/internal/matching/model"
)

// Веса эвристики и пороги отбора кандидатов
const (
	brandBonus    = 0.6
	brandPenalty  = -0.4
	bundleBonus   = 0.15
	bundlePenalty = -0.35
	volumeBonus   = 0.4
	volumePenalty = -0.8
	typeBonus     = 0.2
	typePenalty   = -0.5

	dropScore      = -0.4 // кандидаты с оценкой не выше — отбрасываются
	preferScore    = 0.15 // предпочтительный порог; при пустом срезе берём всех
	maxShortlist   = 12   // максимум кандидатов в меню дизамбигуации
	minTokenDenom  = 4.0
)

// scoreCandidate — взвешенная эвристика совпадения источника и кандидата.
func scoreCandidate(src *model.FeatureSet, srcBrand string, pos int, ses *Session) model.ScoredCandidate {
	entry := ses.Entry(pos)
	cand := ses.Features(pos)

	overlap := tokenOverlap(src.Tokens, cand.Tokens)
	score := float64(overlap) / math.Max(float64(len(src.Tokens)), minTokenDenom)

	brandOK := brandsMatch(srcBrand, entry.Brand)
	if brandOK {
		score += brandBonus
	} else {
		score += brandPenalty
	}

	if src.Bundle == cand.Bundle {
		score += bundleBonus
	} else {
		score += bundlePenalty
	}

	volumeOK, _ := compareVolumeLists(src.Quantities, cand.Quantities)
	if volumeOK {
		score += volumeBonus
	} else {
		score += volumePenalty
	}

	typeOK, _, _ := checkProductTypeMatch(src, cand)
	if typeOK {
		score += typeBonus
	} else {
		score += typePenalty
	}

	return model.ScoredCandidate{
		Entry:    entry,
		Features: cand,
		Score:    score,
		BrandOK:  brandOK,
		VolumeOK: volumeOK,
		TypeOK:   typeOK,
	}
}

// shortlist отбирает и ранжирует кандидатов для меню дизамбигуации.
func shortlist(src *model.FeatureSet, srcBrand string, positions []int, ses *Session) []model.ScoredCandidate {
	scored := make([]model.ScoredCandidate, 0, len(positions))
	for _, pos := range positions {
		sc := scoreCandidate(src, srcBrand, pos, ses)
		if sc.Score <= dropScore {
			continue
		}
		scored = append(scored, sc)
	}

	// стабильная сортировка: при равных оценках — порядок каталога
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	preferred := scored[:0:0]
	for _, sc := range scored {
		if sc.Score > preferScore {
			preferred = append(preferred, sc)
		}
	}
	if len(preferred) > 0 {
		scored = preferred
	}

	if len(scored) > maxShortlist {
		scored = scored[:maxShortlist]
	}
	return scored
}
