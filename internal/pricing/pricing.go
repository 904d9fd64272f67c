// Package pricing — нормализация цен к ставке за единицу и генерация
// рекомендаций "следующая лучшая цена" по снимку цен конкурентов.
package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Action string

const (
	ActionAddProduct Action = "ADD_PRODUCT"
	ActionLowerPrice Action = "LOWER_PRICE"
	ActionNoAction   Action = "NO_ACTION"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApplied  Status = "APPLIED"
	StatusRejected Status = "REJECTED"
)

// Product — товар, для которого считаем рекомендацию.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Country     string  `json:"country,omitempty"`
	WeightValue float64 `json:"weight_value,omitempty"`
	WeightUnit  string  `json:"weight_unit,omitempty"` // kg|l|g|ml|pcs
}

// SellerPrice — цена одного продавца на товар.
type SellerPrice struct {
	Seller       string  `json:"seller"`
	Brand        string  `json:"brand,omitempty"`
	Country      string  `json:"country,omitempty"`
	Price        float64 `json:"price"`
	Available    bool    `json:"available"`
	IsOurCompany bool    `json:"is_our_company"`
}

// Recommendation — действие по цене товара; PENDING блокирует повторную
// генерацию до разрешения (APPLIED/REJECTED).
type Recommendation struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	ProductName      string    `json:"product_name"`
	Action           Action    `json:"action"`
	CurrentPrice     *float64  `json:"current_price,omitempty"`
	RecommendedPrice float64   `json:"recommended_price"`
	CompetitorPrice  float64   `json:"competitor_price"`
	CompetitorName   string    `json:"competitor_name,omitempty"`
	PotentialSavings float64   `json:"potential_savings,omitempty"`
	Priority         Priority  `json:"priority"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Целевая цена — 99% нормализованной ставки лучшего конкурента
const undercutFactor = 0.99

// Пороги приоритета по экономии за единицу товара
const (
	savingsHigh   = 50
	savingsMedium = 10
)

// NormalizeUnitPrice приводит цену к сопоставимой ставке за единицу:
// за кг/л, за 1000 г/мл, за штуку. Без веса возвращается исходная цена.
func NormalizeUnitPrice(price, weightValue float64, weightUnit string) float64 {
	if price <= 0 || weightValue <= 0 {
		return price
	}
	switch strings.ToLower(weightUnit) {
	case "kg", "l":
		return price / weightValue
	case "g", "ml":
		return price / (weightValue / 1000.0)
	case "pcs":
		return price / weightValue
	}
	return price
}

// DenormalizeUnitPrice — точная инверсия NormalizeUnitPrice, округление до копеек.
func DenormalizeUnitPrice(norm, weightValue float64, weightUnit string) float64 {
	if norm <= 0 || weightValue <= 0 {
		return round2(norm)
	}
	switch strings.ToLower(weightUnit) {
	case "kg", "l":
		return round2(norm * weightValue)
	case "g", "ml":
		return round2(norm * (weightValue / 1000.0))
	case "pcs":
		return round2(norm * weightValue)
	}
	return round2(norm)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Engine — генератор рекомендаций. Хранилище инъецируется; генерация по
// одному товару сериализуется хранилищем (инвариант "не больше одной PENDING").
type Engine struct {
	store Store
	log   zerolog.Logger
}

func NewEngine(store Store, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Generate строит не больше одной рекомендации по товару и снимку цен.
// Возвращает nil, когда действий не требуется.
func (e *Engine) Generate(p Product, prices []SellerPrice) *Recommendation {
	var ourPrice *float64
	type competitor struct {
		seller string
		raw    float64
		norm   float64
	}
	var competitors []competitor

	for _, sp := range prices {
		if sp.IsOurCompany {
			if sp.Price > 0 {
				v := sp.Price
				ourPrice = &v
			}
			continue
		}
		if !sp.Available || sp.Price <= 0 {
			continue
		}
		// конфликт бренда или страны происхождения исключает конкурента;
		// отсутствие данных с любой стороны конфликтом не считается
		if conflicts(p.Brand, sp.Brand) || conflicts(p.Country, sp.Country) {
			continue
		}
		competitors = append(competitors, competitor{
			seller: sp.Seller,
			raw:    sp.Price,
			norm:   NormalizeUnitPrice(sp.Price, p.WeightValue, p.WeightUnit),
		})
	}

	if len(competitors) == 0 {
		return nil
	}

	best := competitors[0]
	for _, c := range competitors[1:] {
		if c.norm < best.norm {
			best = c
		}
	}

	if e.store.HasPending(p.ID) {
		return nil
	}

	targetNorm := best.norm * undercutFactor
	targetRaw := DenormalizeUnitPrice(targetNorm, p.WeightValue, p.WeightUnit)

	var rec *Recommendation
	switch {
	case ourPrice == nil:
		rec = &Recommendation{
			Action:           ActionAddProduct,
			RecommendedPrice: targetRaw,
			CompetitorPrice:  best.raw,
			CompetitorName:   best.seller,
			Priority:         PriorityHigh,
		}
	case NormalizeUnitPrice(*ourPrice, p.WeightValue, p.WeightUnit) > best.norm:
		savings := round2(*ourPrice - targetRaw)
		priority := PriorityLow
		if savings > savingsHigh {
			priority = PriorityHigh
		} else if savings > savingsMedium {
			priority = PriorityMedium
		}
		rec = &Recommendation{
			Action:           ActionLowerPrice,
			CurrentPrice:     ourPrice,
			RecommendedPrice: targetRaw,
			CompetitorPrice:  best.raw,
			CompetitorName:   best.seller,
			PotentialSavings: savings,
			Priority:         priority,
		}
	default:
		return nil
	}

	rec.ID = uuid.NewString()
	rec.ProductID = p.ID
	rec.ProductName = p.Name
	rec.Status = StatusPending
	rec.CreatedAt = time.Now().UTC()

	if err := e.store.Add(rec); err != nil {
		// гонка создания: PENDING уже существует — молча без рекомендации
		e.log.Debug().Str("product", p.ID).Err(err).Msg("recommendation suppressed")
		return nil
	}
	e.log.Info().
		Str("product", p.ID).
		Str("action", string(rec.Action)).
		Str("priority", string(rec.Priority)).
		Float64("recommended", rec.RecommendedPrice).
		Msg("recommendation created")
	return rec
}

func conflicts(a, b string) bool {
	a = strings.TrimSpace(strings.ToLower(a))
	b = strings.TrimSpace(strings.ToLower(b))
	return a != "" && b != "" && a != b
}
