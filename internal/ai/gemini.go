package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Config — явные настройки клиента; никакого чтения окружения внутри.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiClient — реализация Disambiguator поверх официального SDK Gemini.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai: api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	model := client.GenerativeModel(modelName)
	temp := float32(0.1)
	model.Temperature = &temp

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiClient{client: client, model: model, timeout: timeout}, nil
}

func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// DisambiguateBatch отправляет партию на сравнение и разбирает ответ.
// Таймаут трактуется как любой другой отказ сервиса: ошибка наверх,
// вызывающая сторона уходит в локальный резервный матчер.
func (c *GeminiClient) DisambiguateBatch(ctx context.Context, items []Item) ([]Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := BuildPrompt(items)
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("ai: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("ai: empty response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return ParseDecisions(text.String(), len(items)), nil
}

// BuildPrompt — структурированный запрос на сравнение партии товаров.
func BuildPrompt(items []Item) string {
	var b strings.Builder
	b.WriteString("Ты эксперт по сопоставлению FMCG-товаров. Названия различаются языком,\n")
	b.WriteString("транслитерацией брендов (Coca-Cola = Кока-Кола) и порядком слов.\n\n")
	b.WriteString("Правила строгого сравнения:\n")
	b.WriteString("- бренд должен совпадать (с учётом транслитерации);\n")
	b.WriteString("- объём/вес должен совпадать;\n")
	b.WriteString("- набор не равен одиночному товару, мультипак не равен штуке;\n")
	b.WriteString("- разные вкусы, жирность и части (крыло/голень/грудка) — разные товары.\n\n")

	for i, item := range items {
		fmt.Fprintf(&b, "ТОВАР %d: %s", i, item.Title)
		if item.Brand != "" {
			fmt.Fprintf(&b, " | бренд: %s", item.Brand)
		}
		b.WriteString("\nКандидаты:\n")
		for j, c := range item.Candidates {
			fmt.Fprintf(&b, "  %d. %s", j, c.Name)
			if c.Brand != "" {
				fmt.Fprintf(&b, " | бренд: %s", c.Brand)
			}
			if c.Volume != "" {
				fmt.Fprintf(&b, " | объём: %s", c.Volume)
			}
			if c.Bundle {
				b.WriteString(" | набор")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Ответь строго JSON без пояснений:\n")
	b.WriteString(`{"results":[{"item":0,"match":<индекс кандидата или -1>,"confidence":<0..1>,"reason":"кратко"}]}`)
	b.WriteString("\nВключи запись для каждого товара.")
	return b.String()
}
