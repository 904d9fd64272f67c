package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKey(t *testing.T) {
	rec := map[string]string{
		"Наименование товара": "Молоко",
		"Цена, ₸":             "450,00",
		"Бренд":               "Простоквашино",
	}
	assert.Equal(t, "Бренд", resolveKey(rec, "бренд"))
	// составной заголовок находится по вхождению
	assert.Equal(t, "Наименование товара", resolveKey(rec, "наименование"))
	// альтернативы через |
	assert.Equal(t, "Цена, ₸", resolveKey(rec, "стоимость|цена"))
	assert.Equal(t, "", resolveKey(rec, ""))
}

func TestToCatalogEntries(t *testing.T) {
	maps := []map[string]string{
		{"ID": "1", "Наименование": "Молоко Простоквашино", "Бренд": "Простоквашино", "Вес": "1 000,00", "Ед": "МЛ"},
		{"ID": "2", "Наименование": "", "Бренд": "х", "Вес": "1", "Ед": "г"}, // без имени — пропуск
	}
	got := toCatalogEntries(maps, catalogMapping{
		IDKey: "id", NameKey: "наименование", BrandKey: "бренд", WeightKey: "вес", UnitKey: "ед",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "Молоко Простоквашино", got[0].Name)
	assert.Equal(t, float64(1000), got[0].WeightValue)
	assert.Equal(t, "мл", got[0].WeightUnit)
}

func TestToSourceRecords(t *testing.T) {
	maps := []map[string]string{
		{"Title": "Prostokvashino Milk 1L", "Brand": "Prostokvashino", "Price": "2 499,99", "Matched_ID": "42"},
	}
	got := toSourceRecords(maps, recordMapping{
		TitleKey: "title", BrandKey: "brand", PriceKey: "price", MatchedIDKey: "matched_id",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Prostokvashino Milk 1L", got[0].Title)
	assert.InDelta(t, 2499.99, got[0].Price, 1e-9)
	assert.Equal(t, "42", got[0].MatchedID)
}
