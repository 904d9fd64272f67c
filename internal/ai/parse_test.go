package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecisions(t *testing.T) {
	text := `{"results":[
		{"item":0,"match":2,"confidence":0.93,"reason":"совпадает бренд и объём"},
		{"item":1,"match":-1,"confidence":0,"reason":"нет кандидата"}
	]}`
	got := ParseDecisions(text, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Index)
	assert.InDelta(t, 0.93, got[0].Confidence, 1e-9)
	assert.Equal(t, -1, got[1].Index)
}

func TestParseDecisionsMarkdownFence(t *testing.T) {
	text := "```json\n{\"results\":[{\"item\":0,\"match\":1,\"confidence\":0.8,\"reason\":\"ок\"}]}\n```"
	got := ParseDecisions(text, 1)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)
}

func TestParseDecisionsSurroundingProse(t *testing.T) {
	text := `Вот результат сравнения: {"results":[{"item":0,"match":0,"confidence":0.7,"reason":"похоже"}]} надеюсь, помог`
	got := ParseDecisions(text, 1)
	assert.Equal(t, 0, got[0].Index)
}

func TestParseDecisionsMissingItems(t *testing.T) {
	// модель ответила только по одному товару из трёх
	text := `{"results":[{"item":1,"match":0,"confidence":0.9,"reason":"ок"}]}`
	got := ParseDecisions(text, 3)
	require.Len(t, got, 3)
	assert.Equal(t, -1, got[0].Index)
	assert.Equal(t, 0, got[1].Index)
	assert.Equal(t, -1, got[2].Index)
}

func TestParseDecisionsGarbage(t *testing.T) {
	for _, text := range []string{"", "не json", `{"results":`} {
		got := ParseDecisions(text, 2)
		require.Len(t, got, 2)
		for _, d := range got {
			assert.Equal(t, -1, d.Index)
		}
	}
}

func TestParseDecisionsClampsConfidence(t *testing.T) {
	text := `{"results":[{"item":0,"match":0,"confidence":1.7,"reason":"ок"}]}`
	got := ParseDecisions(text, 1)
	assert.Equal(t, 1.0, got[0].Confidence)

	// индекс за пределами партии игнорируется
	text = `{"results":[{"item":9,"match":0,"confidence":0.9}]}`
	got = ParseDecisions(text, 1)
	assert.Equal(t, -1, got[0].Index)
}
