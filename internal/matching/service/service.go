package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"pricescout/internal/ai"
	"pricescout/internal/matching/model"
)

// Options — параметры конвейера сопоставления.
type Options struct {
	BatchSize   int  // размер партии для дизамбигуации
	Concurrency int  // одновременных сетевых вызовов (admission control)
	UseAI       bool // false — сразу резервный матчер
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 10
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 2
	}
	return o
}

// Matcher — движок сопоставления: синхронная стадия (извлечение признаков,
// индекс, скоринг) плюс эффектная стадия дизамбигуации за интерфейсом.
type Matcher struct {
	opt Options
	dis ai.Disambiguator
	log zerolog.Logger
}

func NewMatcher(opt Options, dis ai.Disambiguator, log zerolog.Logger) *Matcher {
	return &Matcher{opt: opt.withDefaults(), dis: dis, log: log}
}

// запись, дошедшая до стадии дизамбигуации
type pendingRecord struct {
	pos        int // позиция в исходном срезе
	features   *model.FeatureSet
	candidates []model.ScoredCandidate
}

// Run сопоставляет записи с каталогом. Ни одна запись не роняет партию:
// всё неразрешимое получает вердикт not_found с причиной.
func (m *Matcher) Run(ctx context.Context, records []model.SourceRecord, catalog []model.CatalogEntry) model.Report {
	ses := NewSession(catalog)
	m.log.Info().
		Int("records", len(records)).
		Int("catalog", ses.Size()).
		Msg("matching session started")

	results := make([]model.MatchResult, len(records))
	var pending []pendingRecord

	// синхронная стадия: признаки → кандидаты → скоринг
	for i := range records {
		rec := &records[i]
		if strings.TrimSpace(rec.Title) == "" {
			results[i] = model.MatchResult{
				Verdict: model.VerdictNotFound,
				Reason:  "пустое название записи",
			}
			continue
		}

		fs := ExtractFeatures(rec.Title, rec.Brand)
		cands := shortlist(fs, rec.Brand, ses.Retrieve(fs), ses)
		if len(cands) == 0 {
			results[i] = model.MatchResult{
				Verdict: model.VerdictNotFound,
				Reason:  "не найдено кандидатов",
			}
			continue
		}
		pending = append(pending, pendingRecord{pos: i, features: fs, candidates: cands})
	}

	m.disambiguate(ctx, records, pending, results)

	report := model.Report{Results: make([]model.RecordResult, len(records))}
	for i := range records {
		report.Summary.Add(results[i].Verdict)
		report.Results[i] = model.RecordResult{Source: records[i], Result: results[i]}
	}
	m.log.Info().
		Int("total", report.Summary.Total).
		Int("correct", report.Summary.Correct).
		Int("needs_review", report.Summary.NeedsReview).
		Int("likely_wrong", report.Summary.LikelyWrong).
		Int("not_found", report.Summary.NotFound).
		Msg("matching session done")
	return report
}

// disambiguate гоняет партии через внешний сервис с ограниченным
// параллелизмом; отказ партии деградирует в резервный матчер только
// для её записей.
func (m *Matcher) disambiguate(ctx context.Context, records []model.SourceRecord, pending []pendingRecord, results []model.MatchResult) {
	if len(pending) == 0 {
		return
	}

	var batches [][]pendingRecord
	for start := 0; start < len(pending); start += m.opt.BatchSize {
		end := start + m.opt.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batches = append(batches, pending[start:end])
	}

	sem := make(chan struct{}, m.opt.Concurrency)
	var wg sync.WaitGroup
	for _, batch := range batches {
		wg.Add(1)
		go func(batch []pendingRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			m.processBatch(ctx, records, batch, results)
		}(batch)
	}
	wg.Wait()
}

func (m *Matcher) processBatch(ctx context.Context, records []model.SourceRecord, batch []pendingRecord, results []model.MatchResult) {
	var decisions []ai.Decision
	if m.opt.UseAI && m.dis != nil {
		items := make([]ai.Item, len(batch))
		for i, p := range batch {
			rec := &records[p.pos]
			item := ai.Item{Title: rec.Title, Brand: rec.Brand}
			for _, c := range p.candidates {
				item.Candidates = append(item.Candidates, ai.Candidate{
					Name:   c.Entry.Name,
					Brand:  c.Entry.Brand,
					Volume: volumeText(c.Features.Quantities),
					Bundle: c.Features.Bundle,
				})
			}
			items[i] = item
		}

		var err error
		decisions, err = m.dis.DisambiguateBatch(ctx, items)
		if err != nil {
			m.log.Warn().Err(err).Int("batch", len(batch)).Msg("disambiguation failed, falling back")
			decisions = nil
		}
	}

	for i, p := range batch {
		rec := &records[p.pos]
		if decisions == nil {
			results[p.pos] = fallbackMatch(p.features, rec.Brand, p.candidates)
			continue
		}
		// чужая реализация интерфейса может вернуть меньше решений, чем элементов
		d := ai.NoMatch("нет решения по элементу партии")
		if i < len(decisions) {
			d = decisions[i]
		}
		results[p.pos] = m.applyDecision(rec, p, d)
	}
}

func (m *Matcher) applyDecision(rec *model.SourceRecord, p pendingRecord, d ai.Decision) model.MatchResult {
	if d.Index < 0 || d.Index >= len(p.candidates) {
		reason := d.Reason
		if reason == "" {
			reason = "модель не выбрала кандидата"
		}
		return model.MatchResult{
			Verdict:         model.VerdictNotFound,
			Reason:          reason,
			Confidence:      d.Confidence,
			CandidatesCount: len(p.candidates),
		}
	}

	res := finalizeVerdict(p.features, rec.Brand, &p.candidates[d.Index], d.Confidence, d.Reason)
	res.CandidatesCount = len(p.candidates)
	return res
}

// Verify — режим только-проверки для записей с заявленным контрагентом.
func (m *Matcher) Verify(records []model.SourceRecord, catalog []model.CatalogEntry) model.Report {
	byID := make(map[string]*model.CatalogEntry, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	report := model.Report{Results: make([]model.RecordResult, len(records))}
	for i := range records {
		rec := &records[i]
		var res model.MatchResult
		switch {
		case strings.TrimSpace(rec.MatchedID) == "":
			res = model.MatchResult{Verdict: model.VerdictUnmapped, Reason: "нет заявленного контрагента"}
		default:
			entry, ok := byID[rec.MatchedID]
			if !ok {
				res = model.MatchResult{
					Verdict: model.VerdictNotFound,
					Reason:  fmt.Sprintf("в каталоге нет позиции %s", rec.MatchedID),
				}
			} else {
				res = VerifyClaimed(rec, entry)
			}
		}
		report.Summary.Add(res.Verdict)
		report.Results[i] = model.RecordResult{Source: *rec, Result: res}
	}
	return report
}

func volumeText(qs []model.Quantity) string {
	if len(qs) == 0 {
		return ""
	}
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = fmt.Sprintf("%g %s", q.Value, q.Unit)
	}
	return strings.Join(parts, ", ")
}
