package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricescout/internal/matching/model"
)

func TestScoreCandidateBrandWeight(t *testing.T) {
	ses := NewSession([]model.CatalogEntry{
		{ID: "1", Name: "Молоко Простоквашино 3.2% 1л", Brand: "Простоквашино"},
	})
	src := ExtractFeatures("Молоко Простоквашино 3,2% 1л", "Простоквашино")

	matched := scoreCandidate(src, "Простоквашино", 0, ses)
	mismatched := scoreCandidate(src, "Milka", 0, ses)

	assert.True(t, matched.BrandOK)
	assert.False(t, mismatched.BrandOK)
	// расхождение бренда стоит ровно бонус+штраф
	assert.InDelta(t, brandBonus-brandPenalty, matched.Score-mismatched.Score, 1e-9)
}

func TestScoreCandidateVolumePenalty(t *testing.T) {
	ses := NewSession([]model.CatalogEntry{
		{ID: "1", Name: "Молоко Простоквашино 1л"},
		{ID: "2", Name: "Молоко Простоквашино 0.5л"},
	})
	src := ExtractFeatures("Молоко Простоквашино 1л", "")

	exact := scoreCandidate(src, "", 0, ses)
	wrong := scoreCandidate(src, "", 1, ses)
	assert.True(t, exact.VolumeOK)
	assert.False(t, wrong.VolumeOK)
	assert.Greater(t, exact.Score, wrong.Score)
}

func TestShortlist(t *testing.T) {
	entries := []model.CatalogEntry{
		{ID: "1", Name: "Молоко Простоквашино 3.2% 1л", Brand: "Простоквашино"},
		{ID: "2", Name: "Молоко Домик в деревне 3.2% 1л", Brand: "Домик в деревне"},
		{ID: "3", Name: "Шампунь Head Shoulders 400мл", Brand: "Head Shoulders"},
	}
	ses := NewSession(entries)
	src := ExtractFeatures("Простоквашино молоко 3,2% 1 л", "Простоквашино")

	got := shortlist(src, "Простоквашино", ses.Retrieve(src), ses)
	require.NotEmpty(t, got)
	assert.Equal(t, "1", got[0].Entry.ID)
	// оценки невозрастающие
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].Score, got[i-1].Score)
	}
	// заведомо чужой товар с чужим брендом отсечён
	for _, sc := range got {
		assert.NotEqual(t, "3", sc.Entry.ID)
	}
}

func TestShortlistTruncates(t *testing.T) {
	var entries []model.CatalogEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, model.CatalogEntry{ID: string(rune('a' + i)), Name: "Молоко отборное 1л"})
	}
	ses := NewSession(entries)
	src := ExtractFeatures("Молоко отборное 1л", "")

	got := shortlist(src, "", ses.Retrieve(src), ses)
	assert.Len(t, got, maxShortlist)
}
