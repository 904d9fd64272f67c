package service

import (
	"sort"

	"pricescout/internal/matching/model"
)

// Порог: меньше этого числа кандидатов из индекса — сканируем весь каталог.
// Полнота важнее индекса на малых каталогах и при бедном пересечении токенов.
const minIndexedCandidates = 200

// Session — снапшот каталога на одну сессию сопоставления.
// FeatureSet каждой позиции считается один раз; после построения
// индекс только читается.
type Session struct {
	entries []model.CatalogEntry
	feats   []*model.FeatureSet
	inv     map[string][]int // токен → позиции каталога
}

func NewSession(entries []model.CatalogEntry) *Session {
	s := &Session{
		entries: entries,
		feats:   make([]*model.FeatureSet, len(entries)),
		inv:     make(map[string][]int),
	}
	for i := range entries {
		fs := entryFeatures(&entries[i])
		s.feats[i] = fs
		for tok := range fs.Tokens {
			s.inv[tok] = append(s.inv[tok], i)
		}
	}
	return s
}

func (s *Session) Size() int { return len(s.entries) }

func (s *Session) Entry(i int) *model.CatalogEntry { return &s.entries[i] }

func (s *Session) Features(i int) *model.FeatureSet { return s.feats[i] }

// Retrieve возвращает позиции-кандидаты для набора признаков источника:
// объединение инвертированного индекса по токенам, с откатом на полный скан.
func (s *Session) Retrieve(fs *model.FeatureSet) []int {
	seen := make(map[int]struct{})
	for tok := range fs.Tokens {
		for _, pos := range s.inv[tok] {
			seen[pos] = struct{}{}
		}
	}

	if len(seen) < minIndexedCandidates {
		out := make([]int, len(s.entries))
		for i := range out {
			out[i] = i
		}
		return out
	}

	out := make([]int, 0, len(seen))
	for pos := range seen {
		out = append(out, pos)
	}
	sort.Ints(out) // порядок каталога — детерминированный тай-брейк
	return out
}
