package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricescout/internal/ai"
	"pricescout/internal/matching/model"
)

type stubDisambiguator struct {
	decide func(items []ai.Item) []ai.Decision
	err    error

	mu    sync.Mutex
	calls int
}

func (s *stubDisambiguator) DisambiguateBatch(_ context.Context, items []ai.Item) ([]ai.Decision, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.decide(items), nil
}

func (s *stubDisambiguator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var testCatalog = []model.CatalogEntry{
	{ID: "1", Name: "Молоко Простоквашино 3.2% 1л", Brand: "Простоквашино"},
	{ID: "2", Name: "Хлеб бородинский 400г"},
	{ID: "3", Name: "Молоко Домик в деревне 2.5% 1л", Brand: "Домик в деревне"},
}

func TestMatcherRun(t *testing.T) {
	dis := &stubDisambiguator{decide: func(items []ai.Item) []ai.Decision {
		out := make([]ai.Decision, len(items))
		for i := range items {
			out[i] = ai.Decision{Index: 0, Confidence: 0.95, Reason: "полное совпадение"}
		}
		return out
	}}
	m := NewMatcher(Options{UseAI: true}, dis, zerolog.Nop())

	records := []model.SourceRecord{
		{Title: "Простоквашино молоко 3,2% 1 л", Brand: "Простоквашино"},
		{Title: ""},
		{Title: "Зубная паста Colgate 75мл", Brand: "Colgate"},
	}
	report := m.Run(context.Background(), records, testCatalog)
	require.Len(t, report.Results, 3)

	assert.Equal(t, model.VerdictCorrect, report.Results[0].Result.Verdict)
	assert.Equal(t, "1", report.Results[0].Result.MatchedID)

	// пустое название не роняет партию
	assert.Equal(t, model.VerdictNotFound, report.Results[1].Result.Verdict)

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, report.Summary.Correct+report.Summary.NeedsReview+
		report.Summary.LikelyWrong+report.Summary.NotFound+report.Summary.Unmapped, report.Summary.Total)
}

func TestMatcherRunFallsBackOnError(t *testing.T) {
	dis := &stubDisambiguator{err: errors.New("quota exceeded")}
	m := NewMatcher(Options{UseAI: true}, dis, zerolog.Nop())

	records := []model.SourceRecord{
		{Title: "Молоко Простоквашино 3,2% 1л", Brand: "Простоквашино"},
	}
	report := m.Run(context.Background(), records, testCatalog)
	require.Len(t, report.Results, 1)
	// отказ LLM деградирует в строковый резерв, запись не теряется
	assert.Equal(t, model.VerdictCorrect, report.Results[0].Result.Verdict)
	assert.Equal(t, "1", report.Results[0].Result.MatchedID)
	assert.Equal(t, 1, dis.callCount())
}

func TestMatcherRunWithoutAI(t *testing.T) {
	m := NewMatcher(Options{UseAI: false}, nil, zerolog.Nop())
	records := []model.SourceRecord{
		{Title: "Молоко Простоквашино 3,2% 1л", Brand: "Простоквашино"},
	}
	report := m.Run(context.Background(), records, testCatalog)
	assert.Equal(t, model.VerdictCorrect, report.Results[0].Result.Verdict)
}

func TestMatcherRunNoMatchDecision(t *testing.T) {
	dis := &stubDisambiguator{decide: func(items []ai.Item) []ai.Decision {
		out := make([]ai.Decision, len(items))
		for i := range items {
			out[i] = ai.NoMatch("нет подходящего кандидата")
		}
		return out
	}}
	m := NewMatcher(Options{UseAI: true}, dis, zerolog.Nop())
	records := []model.SourceRecord{
		{Title: "Молоко Простоквашино 1л", Brand: "Простоквашино"},
	}
	report := m.Run(context.Background(), records, testCatalog)
	res := report.Results[0].Result
	assert.Equal(t, model.VerdictNotFound, res.Verdict)
	assert.Equal(t, "нет подходящего кандидата", res.Reason)
	assert.Positive(t, res.CandidatesCount)
}

func TestMatcherRunShortDecisionSlice(t *testing.T) {
	// реализация интерфейса вернула меньше решений, чем элементов партии:
	// недостающие записи получают "нет совпадения", а не панику
	dis := &stubDisambiguator{decide: func(items []ai.Item) []ai.Decision {
		return []ai.Decision{{Index: 0, Confidence: 0.95, Reason: "ок"}}
	}}
	m := NewMatcher(Options{UseAI: true}, dis, zerolog.Nop())

	records := []model.SourceRecord{
		{Title: "Молоко Простоквашино 3,2% 1л", Brand: "Простоквашино"},
		{Title: "Молоко Домик в деревне 2,5% 1л", Brand: "Домик в деревне"},
	}
	report := m.Run(context.Background(), records, testCatalog)
	require.Len(t, report.Results, 2)
	assert.Equal(t, model.VerdictCorrect, report.Results[0].Result.Verdict)
	assert.Equal(t, model.VerdictNotFound, report.Results[1].Result.Verdict)
	assert.Equal(t, "нет решения по элементу партии", report.Results[1].Result.Reason)
}

func TestMatcherVerify(t *testing.T) {
	m := NewMatcher(Options{}, nil, zerolog.Nop())
	records := []model.SourceRecord{
		{Title: "Молоко Простоквашино 3,2% 1л", Brand: "Простоквашино", MatchedID: "1"},
		{Title: "Молоко Простоквашино 3,2% 1л", Brand: "Простоквашино"},
		{Title: "Молоко Простоквашино 3,2% 1л", Brand: "Простоквашино", MatchedID: "404"},
		{Title: "Молоко Простоквашино 3,2% 1л", Brand: "Простоквашино", MatchedID: "2"},
	}
	report := m.Verify(records, testCatalog)
	require.Len(t, report.Results, 4)

	assert.Equal(t, model.VerdictCorrect, report.Results[0].Result.Verdict)
	assert.Equal(t, model.VerdictUnmapped, report.Results[1].Result.Verdict)
	assert.Equal(t, model.VerdictNotFound, report.Results[2].Result.Verdict)
	assert.Equal(t, model.VerdictLikelyWrong, report.Results[3].Result.Verdict)
	assert.Equal(t, 1, report.Summary.Unmapped)
}

func TestMatcherBatching(t *testing.T) {
	dis := &stubDisambiguator{decide: func(items []ai.Item) []ai.Decision {
		assert.LessOrEqual(t, len(items), 2)
		out := make([]ai.Decision, len(items))
		for i := range items {
			out[i] = ai.NoMatch("")
		}
		return out
	}}
	m := NewMatcher(Options{UseAI: true, BatchSize: 2, Concurrency: 2}, dis, zerolog.Nop())

	records := make([]model.SourceRecord, 5)
	for i := range records {
		records[i] = model.SourceRecord{Title: "Молоко Простоквашино 1л"}
	}
	report := m.Run(context.Background(), records, testCatalog)
	assert.Equal(t, 5, report.Summary.Total)
	assert.Equal(t, 3, dis.callCount())
}
