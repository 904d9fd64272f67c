package model

// Canonical units for volume/weight comparison.
const (
	UnitGrams       = "g"
	UnitMilliliters = "ml"
	UnitPieces      = "pcs"
)

// Verdict — итог одной попытки сопоставления.
type Verdict string

const (
	VerdictCorrect     Verdict = "correct"
	VerdictNeedsReview Verdict = "needs_review"
	VerdictLikelyWrong Verdict = "likely_wrong"
	VerdictNotFound    Verdict = "not_found"
	VerdictUnmapped    Verdict = "unmapped"
)

// SourceRecord — внешняя запись для сопоставления (одна на попытку).
type SourceRecord struct {
	Title     string  `json:"title"`
	Brand     string  `json:"brand,omitempty"`
	Category  string  `json:"category,omitempty"`
	Price     float64 `json:"price,omitempty"`
	MatchedID string  `json:"matched_id,omitempty"` // ранее присвоенный id контрагента (режим проверки)
	ImageURL  string  `json:"image_url,omitempty"`
}

// CatalogEntry — эталонный товар каталога (read-only на время сессии).
type CatalogEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	WeightValue float64 `json:"weight_value,omitempty"`
	WeightUnit  string  `json:"weight_unit,omitempty"`
}

// Quantity — нормализованный объём/вес: значение + каноническая единица.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// FeatureSet — производное представление пары имя+бренд.
// Считается один раз и не мутируется.
type FeatureSet struct {
	Normalized string
	Tokens     map[string]struct{}
	Quantities []Quantity // отсортированы по (unit, value)
	Bundle     bool
	BrandNorm  string
}

// ScoredCandidate — кандидат с оценкой; живёт в пределах одной попытки.
type ScoredCandidate struct {
	Entry      *CatalogEntry
	Features   *FeatureSet
	Score      float64
	BrandOK    bool
	VolumeOK   bool
	TypeOK     bool
}

// MatchResult — терминальный результат попытки.
type MatchResult struct {
	Verdict         Verdict  `json:"verdict"`
	Reason          string   `json:"reason"`
	Confidence      float64  `json:"confidence"`
	MatchedID       string   `json:"matched_id,omitempty"`
	MatchedName     string   `json:"matched_name,omitempty"`
	CandidatesCount int      `json:"candidates_count"`
}

// Summary — счётчики по партии записей.
type Summary struct {
	Total       int `json:"total"`
	Correct     int `json:"correct"`
	NeedsReview int `json:"needs_review"`
	LikelyWrong int `json:"likely_wrong"`
	NotFound    int `json:"not_found"`
	Unmapped    int `json:"unmapped"`
}

func (s *Summary) Add(v Verdict) {
	s.Total++
	switch v {
	case VerdictCorrect:
		s.Correct++
	case VerdictNeedsReview:
		s.NeedsReview++
	case VerdictLikelyWrong:
		s.LikelyWrong++
	case VerdictNotFound:
		s.NotFound++
	case VerdictUnmapped:
		s.Unmapped++
	}
}

// RecordResult связывает исходную запись с результатом.
type RecordResult struct {
	Source SourceRecord `json:"source"`
	Result MatchResult  `json:"result"`
}

// Report — ответ по сессии сопоставления.
type Report struct {
	Summary Summary        `json:"summary"`
	Results []RecordResult `json:"results"`
}
