// Package ai — клиент дизамбигуации спорных матчей через LLM.
// Ядро сопоставления зависит только от интерфейса Disambiguator;
// сетевой клиент и его настройки инъецируются при конструировании.
package ai

import "context"

// Candidate — позиция меню кандидатов одного элемента партии.
type Candidate struct {
	Name   string `json:"name"`
	Brand  string `json:"brand,omitempty"`
	Volume string `json:"volume,omitempty"`
	Bundle bool   `json:"bundle,omitempty"`
}

// Item — один сравниваемый товар с меню кандидатов.
type Item struct {
	Title      string      `json:"title"`
	Brand      string      `json:"brand,omitempty"`
	Candidates []Candidate `json:"candidates"`
}

// Decision — ответ модели по одному элементу партии.
// Index == -1 означает "совпадения нет".
type Decision struct {
	Index      int     `json:"match"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// NoMatch — решение по умолчанию для пропущенных или нераспарсенных элементов.
func NoMatch(reason string) Decision {
	return Decision{Index: -1, Confidence: 0, Reason: reason}
}

// Disambiguator принимает партию (товар, меню кандидатов) и возвращает
// решение по каждому индексу. Реализации обязаны переживать частичные и
// искажённые ответы, не поднимая их выше этой границы.
type Disambiguator interface {
	DisambiguateBatch(ctx context.Context, items []Item) ([]Decision, error)
}
