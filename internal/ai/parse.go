package ai

import (
	"encoding/json"
	"strings"
)

type rawResult struct {
	Item       int      `json:"item"`
	Match      *int     `json:"match"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
}

type rawResponse struct {
	Results []rawResult `json:"results"`
}

// ParseDecisions разбирает ответ модели в решения по каждому элементу партии.
// Терпит markdown-ограждение и мусор вокруг JSON; элемент, который модель
// пропустила или исказила, получает "нет совпадения" с нулевой уверенностью —
// партия не теряет записи из-за неполного ответа.
func ParseDecisions(text string, total int) []Decision {
	out := make([]Decision, total)
	for i := range out {
		out[i] = NoMatch("нет ответа модели")
	}

	payload := stripFences(text)
	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start < 0 || end <= start {
		return out
	}

	var resp rawResponse
	if err := json.Unmarshal([]byte(payload[start:end+1]), &resp); err != nil {
		return out
	}

	for _, r := range resp.Results {
		if r.Item < 0 || r.Item >= total {
			continue
		}
		d := NoMatch(r.Reason)
		if r.Match != nil && *r.Match >= 0 {
			conf := r.Confidence
			if conf < 0 {
				conf = 0
			}
			if conf > 1 {
				conf = 1
			}
			d = Decision{Index: *r.Match, Confidence: conf, Reason: r.Reason}
		}
		out[r.Item] = d
	}
	return out
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
